package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/fimbl/internal/fingerprint"
	"github.com/roach88/fimbl/internal/ledger"
	"github.com/roach88/fimbl/internal/store"
)

// outcomeJSON is the JSON rendering of one per-path outcome.
type outcomeJSON struct {
	Path     string           `json:"path"`
	Status   string           `json:"status"`
	Error    string           `json:"error,omitempty"`
	Expected *fingerprintJSON `json:"expected,omitempty"`
	Observed *fingerprintJSON `json:"observed,omitempty"`
}

// fingerprintJSON is the JSON rendering of a digest with its
// advisory attributes.
type fingerprintJSON struct {
	Digest   string `json:"digest"`
	Size     int64  `json:"size"`
	Mode     string `json:"mode"`
	Modified string `json:"modified"`
}

// renderOutcomes writes the per-path outcome list in the configured
// format, in the order the outcomes were produced.
func renderOutcomes(f *OutputFormatter, outcomes []ledger.Outcome) error {
	if f.Format == "json" {
		list := make([]outcomeJSON, 0, len(outcomes))
		for _, o := range outcomes {
			list = append(list, toOutcomeJSON(o))
		}
		return json.NewEncoder(f.Writer).Encode(list)
	}

	for _, o := range outcomes {
		renderOutcomeText(f, o)
	}
	return nil
}

// renderOutcomeText writes one outcome as a status-prefixed line,
// with before/after fingerprints indented beneath a change.
func renderOutcomeText(f *OutputFormatter, o ledger.Outcome) {
	switch {
	case o.Status == ledger.StatusIoFailure:
		fmt.Fprintf(f.Writer, "%s: %s: %v\n", o.Status, o.Path, o.Err)
	case o.Status == ledger.StatusChanged:
		fmt.Fprintf(f.Writer, "%s: %s\n", o.Status, o.Path)
		if o.Expected != nil {
			fp := o.Expected.Fingerprint()
			fmt.Fprintf(f.Writer, "    expected %s\n", formatFingerprint(fp))
		}
		if o.Observed != nil {
			fmt.Fprintf(f.Writer, "    observed %s\n", formatFingerprint(*o.Observed))
		}
	default:
		fmt.Fprintf(f.Writer, "%s: %s\n", o.Status, o.Path)
	}
}

// renderRecords writes the tracked-file listing for the list command.
func renderRecords(f *OutputFormatter, dbPath string, records []store.Record) error {
	if f.Format == "json" {
		type recordJSON struct {
			Path string `json:"path"`
			fingerprintJSON
		}
		out := make([]recordJSON, 0, len(records))
		for _, rec := range records {
			out = append(out, recordJSON{Path: rec.Path, fingerprintJSON: toFingerprintJSON(rec.Fingerprint())})
		}
		return json.NewEncoder(f.Writer).Encode(out)
	}

	if f.Verbose {
		fmt.Fprintf(f.Writer, "Ledger database: %s\n", dbPath)
		fmt.Fprintf(f.Writer, "Files tracked:\n")
	}
	for _, rec := range records {
		fmt.Fprintln(f.Writer, rec.Path)
	}
	return nil
}

func toOutcomeJSON(o ledger.Outcome) outcomeJSON {
	oj := outcomeJSON{Path: o.Path, Status: string(o.Status)}
	if o.Err != nil {
		oj.Error = o.Err.Error()
	}
	if o.Expected != nil {
		fp := toFingerprintJSON(o.Expected.Fingerprint())
		oj.Expected = &fp
	}
	if o.Observed != nil {
		fp := toFingerprintJSON(*o.Observed)
		oj.Observed = &fp
	}
	return oj
}

func toFingerprintJSON(fp fingerprint.Fingerprint) fingerprintJSON {
	return fingerprintJSON{
		Digest:   "sha3-256:" + fp.Digest.String(),
		Size:     fp.Size,
		Mode:     fp.Mode.String(),
		Modified: fp.Modified.UTC().Format(time.RFC3339),
	}
}

func formatFingerprint(fp fingerprint.Fingerprint) string {
	return fmt.Sprintf("sha3-256:%s size %d mode %s modified %s",
		fp.Digest, fp.Size, fp.Mode, fp.Modified.UTC().Format(time.RFC3339))
}
