package ledger

import (
	"runtime"
	"sync"

	"github.com/roach88/fimbl/internal/fingerprint"
)

// capture is the result of fingerprinting one path.
type capture struct {
	fp  fingerprint.Fingerprint
	err error
}

// captureAll fingerprints every path on a bounded worker pool and
// returns results indexed to match the input order.
//
// Content hashing is the dominant cost of a batch and is
// embarrassingly parallel across distinct files, so jobs fan out
// over workers; the indexed result slice restores input order so
// callers report outcomes in the order paths were supplied.
func captureAll(paths []string, jobs int) []capture {
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	if jobs > len(paths) {
		jobs = len(paths)
	}

	results := make([]capture, len(paths))
	if len(paths) == 0 {
		return results
	}

	indices := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < jobs; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				fp, err := fingerprint.FromFile(paths[i])
				results[i] = capture{fp: fp, err: err}
			}
		}()
	}

	for i := range paths {
		indices <- i
	}
	close(indices)
	wg.Wait()

	return results
}
