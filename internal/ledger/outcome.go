package ledger

import (
	"github.com/roach88/fimbl/internal/fingerprint"
	"github.com/roach88/fimbl/internal/store"
)

// Status identifies the per-path result of a ledger operation.
type Status string

const (
	StatusAdded          Status = "added"
	StatusAlreadyTracked Status = "already-tracked"
	StatusUnchanged      Status = "unchanged"
	StatusChanged        Status = "changed"
	StatusRemoved        Status = "removed"
	StatusNotTracked     Status = "not-tracked"
	StatusAccepted       Status = "accepted"
	StatusIoFailure      Status = "io-failure"
)

// Outcome is the per-path result of one operation. Outcomes are
// transient - produced fresh per invocation, never persisted.
//
// For StatusChanged, Expected carries the stored baseline and
// Observed the freshly captured fingerprint so the presentation
// layer can show before/after digests and attributes.
//
// Err is set for I/O failures and for strict-mode policy violations;
// tolerant mode reports the same Status with a nil Err.
type Outcome struct {
	Path     string
	Status   Status
	Expected *store.Record
	Observed *fingerprint.Fingerprint
	Err      error
}

// Failed reports whether this outcome should make the invocation's
// overall result nonzero: any Changed, any I/O failure, or any
// strict-mode policy violation.
func (o Outcome) Failed() bool {
	return o.Err != nil || o.Status == StatusChanged
}

// AnyFailed reports whether any outcome in the batch failed.
func AnyFailed(outcomes []Outcome) bool {
	for _, o := range outcomes {
		if o.Failed() {
			return true
		}
	}
	return false
}
