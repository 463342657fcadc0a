// Package ledger implements the file-integrity ledger: the state
// transitions of add, verify, verify-all, accept and remove over the
// persisted Record store, including the tolerant policy toggle.
//
// "Changed" is never stored. Every verify recomputes the content
// digest and compares it against the stored baseline; the digest is
// the only authoritative signal of change, captured metadata is
// advisory context.
package ledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/roach88/fimbl/internal/fingerprint"
	"github.com/roach88/fimbl/internal/pathkey"
	"github.com/roach88/fimbl/internal/store"
)

// Journal operation names.
const (
	opAdd    = "add"
	opAccept = "accept"
	opRemove = "remove"
)

// Ledger orchestrates fingerprint capture and the Record store. It
// never caches Records across invocations: every run opens the store,
// performs its operations and closes it.
type Ledger struct {
	store *store.Store
	clock Clock
	jobs  int
	runID string
}

// Options configures a Ledger.
type Options struct {
	// Jobs bounds the fingerprinting worker pool. Zero means one
	// worker per CPU.
	Jobs int

	// Clock overrides the capture timestamp source. Nil means wall
	// clock.
	Clock Clock
}

// New creates a Ledger over an open store. Each Ledger carries a
// fresh UUIDv7 run ID that groups its journal entries; UUIDv7 embeds
// a timestamp, so journal run IDs sort by invocation time.
func New(st *store.Store, opts Options) *Ledger {
	clock := opts.Clock
	if clock == nil {
		clock = systemClock{}
	}
	return &Ledger{
		store: st,
		clock: clock,
		jobs:  opts.Jobs,
		runID: uuid.Must(uuid.NewV7()).String(),
	}
}

// RunID returns the identifier grouping this invocation's journal
// entries.
func (l *Ledger) RunID() string {
	return l.runID
}

// Add begins tracking the given paths, writing a Record with the
// digest and attributes captured at this instant.
//
// An already-tracked path is a policy violation in strict mode and an
// informational AlreadyTracked outcome in tolerant mode; in neither
// case is the stored baseline touched.
//
// Per-path failures never abort the batch. A store failure does, and
// is returned as a *StoreError alongside the outcomes produced so far.
func (l *Ledger) Add(ctx context.Context, paths []string, tolerant bool) ([]Outcome, error) {
	keys, keyErrs := canonicalizeAll(paths)
	caps := captureAll(keys, l.jobs)

	outcomes := make([]Outcome, 0, len(paths))
	for i := range paths {
		if keyErrs[i] != nil {
			outcomes = append(outcomes, Outcome{Path: paths[i], Status: StatusIoFailure, Err: keyErrs[i]})
			continue
		}
		key := keys[i]

		if caps[i].err != nil {
			outcomes = append(outcomes, Outcome{Path: key, Status: StatusIoFailure, Err: caps[i].err})
			continue
		}

		existing, err := l.store.GetRecord(ctx, key)
		if err != nil {
			return outcomes, &StoreError{Op: opAdd, Err: err}
		}
		if existing != nil {
			o := Outcome{Path: key, Status: StatusAlreadyTracked}
			if !tolerant {
				o.Err = &PolicyError{Code: CodeAlreadyTracked, Path: key}
			}
			outcomes = append(outcomes, o)
			continue
		}

		if err := l.writeRecord(ctx, opAdd, key, caps[i].fp); err != nil {
			return outcomes, err
		}
		fp := caps[i].fp
		outcomes = append(outcomes, Outcome{Path: key, Status: StatusAdded, Observed: &fp})
	}

	return outcomes, nil
}

// Verify recomputes each path's digest and compares it to the stored
// baseline. Never mutates the store.
//
// A vanished or unreadable tracked file is an IoFailure outcome
// carrying the stored baseline, never a silent skip - that alert is
// the guarantee the ledger exists to provide.
func (l *Ledger) Verify(ctx context.Context, paths []string) ([]Outcome, error) {
	keys, keyErrs := canonicalizeAll(paths)
	caps := captureAll(keys, l.jobs)

	outcomes := make([]Outcome, 0, len(paths))
	for i := range paths {
		if keyErrs[i] != nil {
			outcomes = append(outcomes, Outcome{Path: paths[i], Status: StatusIoFailure, Err: keyErrs[i]})
			continue
		}
		key := keys[i]

		rec, err := l.store.GetRecord(ctx, key)
		if err != nil {
			return outcomes, &StoreError{Op: "verify", Err: err}
		}
		if rec == nil {
			outcomes = append(outcomes, Outcome{
				Path:   key,
				Status: StatusNotTracked,
				Err:    &PolicyError{Code: CodeNotTracked, Path: key},
			})
			continue
		}

		outcomes = append(outcomes, compareOutcome(*rec, caps[i]))
	}

	return outcomes, nil
}

// VerifyAll verifies every tracked path, iterating the store in
// lexicographic path order. Untracked paths are never touched; an
// empty store yields an empty outcome list.
//
// Iteration is not a snapshot: a concurrent accept may be observed
// mid-iteration. Per-key atomicity is the only cross-invocation
// guarantee.
func (l *Ledger) VerifyAll(ctx context.Context) ([]Outcome, error) {
	var records []store.Record
	err := l.store.IterateRecords(ctx, func(rec store.Record) error {
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, &StoreError{Op: "verify-all", Err: err}
	}

	keys := make([]string, len(records))
	for i, rec := range records {
		keys[i] = rec.Path
	}
	caps := captureAll(keys, l.jobs)

	outcomes := make([]Outcome, 0, len(records))
	for i, rec := range records {
		outcomes = append(outcomes, compareOutcome(rec, caps[i]))
	}

	return outcomes, nil
}

// Accept overwrites a path's Record with its current digest and
// attributes, resetting the baseline after an expected change.
//
// An untracked path is a policy violation in strict mode; in tolerant
// mode it is treated as an implicit add and reported as Added.
func (l *Ledger) Accept(ctx context.Context, paths []string, tolerant bool) ([]Outcome, error) {
	keys, keyErrs := canonicalizeAll(paths)
	caps := captureAll(keys, l.jobs)

	outcomes := make([]Outcome, 0, len(paths))
	for i := range paths {
		if keyErrs[i] != nil {
			outcomes = append(outcomes, Outcome{Path: paths[i], Status: StatusIoFailure, Err: keyErrs[i]})
			continue
		}
		key := keys[i]

		if caps[i].err != nil {
			outcomes = append(outcomes, Outcome{Path: key, Status: StatusIoFailure, Err: caps[i].err})
			continue
		}

		existing, err := l.store.GetRecord(ctx, key)
		if err != nil {
			return outcomes, &StoreError{Op: opAccept, Err: err}
		}
		if existing == nil && !tolerant {
			outcomes = append(outcomes, Outcome{
				Path:   key,
				Status: StatusNotTracked,
				Err:    &PolicyError{Code: CodeNotTracked, Path: key},
			})
			continue
		}

		fp := caps[i].fp
		if existing == nil {
			if err := l.writeRecord(ctx, opAdd, key, fp); err != nil {
				return outcomes, err
			}
			outcomes = append(outcomes, Outcome{Path: key, Status: StatusAdded, Observed: &fp})
			continue
		}

		if err := l.writeRecord(ctx, opAccept, key, fp); err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, Outcome{Path: key, Status: StatusAccepted, Observed: &fp})
	}

	return outcomes, nil
}

// Remove stops tracking the given paths, deleting their Records.
//
// An untracked path is a policy violation in strict mode and an
// informational NotTracked outcome in tolerant mode. Removing a path
// twice behaves identically to removing an untracked path.
func (l *Ledger) Remove(ctx context.Context, paths []string, tolerant bool) ([]Outcome, error) {
	keys, keyErrs := canonicalizeAll(paths)

	outcomes := make([]Outcome, 0, len(paths))
	for i := range paths {
		if keyErrs[i] != nil {
			outcomes = append(outcomes, Outcome{Path: paths[i], Status: StatusIoFailure, Err: keyErrs[i]})
			continue
		}
		key := keys[i]

		existed, err := l.store.DeleteRecord(ctx, key)
		if err != nil {
			return outcomes, &StoreError{Op: opRemove, Err: err}
		}
		if !existed {
			o := Outcome{Path: key, Status: StatusNotTracked}
			if !tolerant {
				o.Err = &PolicyError{Code: CodeNotTracked, Path: key}
			}
			outcomes = append(outcomes, o)
			continue
		}

		if err := l.journal(ctx, opRemove, key); err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, Outcome{Path: key, Status: StatusRemoved})
	}

	return outcomes, nil
}

// List returns every tracked Record in lexicographic path order.
func (l *Ledger) List(ctx context.Context) ([]store.Record, error) {
	var records []store.Record
	err := l.store.IterateRecords(ctx, func(rec store.Record) error {
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, &StoreError{Op: "list", Err: err}
	}
	return records, nil
}

// compareOutcome classifies a tracked path given its stored Record
// and a fresh capture attempt. Unchanged iff the recomputed digest is
// bit-for-bit equal to the stored digest.
func compareOutcome(rec store.Record, c capture) Outcome {
	expected := rec
	if c.err != nil {
		return Outcome{Path: rec.Path, Status: StatusIoFailure, Expected: &expected, Err: c.err}
	}
	if c.fp.Digest == rec.Digest {
		return Outcome{Path: rec.Path, Status: StatusUnchanged}
	}
	fp := c.fp
	return Outcome{Path: rec.Path, Status: StatusChanged, Expected: &expected, Observed: &fp}
}

// writeRecord persists a fresh baseline and journals the operation.
func (l *Ledger) writeRecord(ctx context.Context, op, key string, fp fingerprint.Fingerprint) error {
	rec := store.Record{
		Path:       key,
		Digest:     fp.Digest,
		Size:       fp.Size,
		Modified:   fp.Modified,
		Mode:       fp.Mode,
		RecordedAt: l.clock.Now(),
	}
	if err := l.store.PutRecord(ctx, rec); err != nil {
		return &StoreError{Op: op, Err: err}
	}
	return l.journal(ctx, op, key)
}

// journal appends an event for a mutating operation.
func (l *Ledger) journal(ctx context.Context, op, key string) error {
	ev := store.Event{RunID: l.runID, Op: op, Path: key, At: l.clock.Now()}
	if err := l.store.AppendEvent(ctx, ev); err != nil {
		return &StoreError{Op: op, Err: err}
	}
	return nil
}

// canonicalizeAll resolves every user-supplied path to its store key.
// Failures are reported positionally so the caller can emit an
// IoFailure outcome for that path alone.
func canonicalizeAll(paths []string) ([]string, []error) {
	keys := make([]string, len(paths))
	errs := make([]error, len(paths))
	for i, p := range paths {
		keys[i], errs[i] = pathkey.Canonical(p)
		if errs[i] != nil {
			// Keep something captureAll can safely stat.
			keys[i] = p
		}
	}
	return keys, errs
}
