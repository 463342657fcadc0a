package fingerprint

import (
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"golang.org/x/crypto/sha3"
)

// DigestSize is the length in bytes of a content digest (SHA3-256).
const DigestSize = 32

// hashBufferSize bounds memory used while streaming file contents.
const hashBufferSize = 64 * 1024

// Digest is a fixed-length SHA3-256 fingerprint of file contents.
type Digest [DigestSize]byte

// String returns the digest as lowercase hex.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// DigestFromBytes converts a raw byte slice (e.g. a database BLOB)
// back into a Digest. Returns an error if the length is wrong.
func DigestFromBytes(b []byte) (Digest, error) {
	var d Digest
	if len(b) != DigestSize {
		return d, fmt.Errorf("digest must be %d bytes, got %d", DigestSize, len(b))
	}
	copy(d[:], b)
	return d, nil
}

// Fingerprint captures a file's content digest together with the
// filesystem metadata observed at the same instant.
//
// The digest is the only authoritative signal of content change.
// Size, Modified and Mode are advisory - they are surfaced to the
// operator on mismatch to help diagnose why a file changed, never
// used to declare one.
type Fingerprint struct {
	Digest   Digest
	Size     int64
	Modified time.Time
	Mode     fs.FileMode
}

// FromFile captures a fingerprint for the file at path.
//
// Metadata comes from Lstat so a symlink's own attributes are
// recorded; content is read through the link, so the digest covers
// the target's bytes. Directories and other non-regular,
// non-symlink files are rejected.
func FromFile(path string) (Fingerprint, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return Fingerprint{}, err
	}
	if info.IsDir() {
		return Fingerprint{}, fmt.Errorf("%s: is a directory", path)
	}
	if !info.Mode().IsRegular() && info.Mode()&fs.ModeSymlink == 0 {
		return Fingerprint{}, fmt.Errorf("%s: not a regular file", path)
	}

	digest, err := hashContents(path)
	if err != nil {
		return Fingerprint{}, err
	}

	return Fingerprint{
		Digest:   digest,
		Size:     info.Size(),
		Modified: info.ModTime(),
		Mode:     info.Mode().Perm(),
	}, nil
}

// hashContents streams the file's bytes through SHA3-256 with a
// bounded buffer. Identical bytes always yield an identical digest.
func hashContents(path string) (Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Digest{}, err
	}
	defer f.Close()

	h := sha3.New256()
	buf := make([]byte, hashBufferSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return Digest{}, err
	}

	var d Digest
	copy(d[:], h.Sum(nil))
	return d, nil
}
