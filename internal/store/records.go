package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/roach88/fimbl/internal/fingerprint"
)

// Record is the unit of tracked state for one file: the accepted
// baseline fingerprint, keyed by canonical path.
//
// A Record exists in the store if and only if the path is tracked.
type Record struct {
	Path       string
	Digest     fingerprint.Digest
	Size       int64
	Modified   time.Time
	Mode       fs.FileMode
	RecordedAt time.Time
}

// Fingerprint returns the baseline as a Fingerprint for comparison
// against a freshly captured one.
func (r Record) Fingerprint() fingerprint.Fingerprint {
	return fingerprint.Fingerprint{
		Digest:   r.Digest,
		Size:     r.Size,
		Modified: r.Modified,
		Mode:     r.Mode,
	}
}

// GetRecord returns the Record for a canonical path, or nil if the
// path is not tracked.
func (s *Store) GetRecord(ctx context.Context, path string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT path, digest, size, modified_ns, mode, recorded_ns
		FROM records
		WHERE path = ?
	`, path)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return &rec, nil
}

// PutRecord inserts or replaces the Record for its path.
//
// The upsert is a single statement, so a crash mid-write leaves
// either the old row or the new row, never a torn mix of fields.
func (s *Store) PutRecord(ctx context.Context, rec Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records (path, digest, size, modified_ns, mode, recorded_ns)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			digest      = excluded.digest,
			size        = excluded.size,
			modified_ns = excluded.modified_ns,
			mode        = excluded.mode,
			recorded_ns = excluded.recorded_ns
	`,
		rec.Path,
		rec.Digest[:],
		rec.Size,
		rec.Modified.UnixNano(),
		uint32(rec.Mode),
		rec.RecordedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("put record: %w", err)
	}
	return nil
}

// DeleteRecord removes the Record for a canonical path.
// Returns true if a Record existed.
func (s *Store) DeleteRecord(ctx context.Context, path string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE path = ?`, path)
	if err != nil {
		return false, fmt.Errorf("delete record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete record: rows affected: %w", err)
	}
	return affected > 0, nil
}

// IterateRecords calls fn for every Record, ordered lexicographically
// by path (BINARY collation over canonical path strings).
//
// Iteration is restartable per invocation and is not a snapshot:
// concurrent writers may be observed mid-iteration. Returning an
// error from fn stops iteration and propagates the error.
func (s *Store) IterateRecords(ctx context.Context, fn func(Record) error) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT path, digest, size, modified_ns, mode, recorded_ns
		FROM records
		ORDER BY path COLLATE BINARY ASC
	`)
	if err != nil {
		return fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return fmt.Errorf("iterate records: %w", err)
		}
		if err := fn(rec); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate records: %w", err)
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanRecord.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var (
		rec        Record
		digest     []byte
		modifiedNS int64
		mode       uint32
		recordedNS int64
	)
	if err := sc.Scan(&rec.Path, &digest, &rec.Size, &modifiedNS, &mode, &recordedNS); err != nil {
		return Record{}, err
	}

	d, err := fingerprint.DigestFromBytes(digest)
	if err != nil {
		return Record{}, fmt.Errorf("record %s: %w", rec.Path, err)
	}
	rec.Digest = d
	rec.Modified = time.Unix(0, modifiedNS)
	rec.Mode = fs.FileMode(mode)
	rec.RecordedAt = time.Unix(0, recordedNS)
	return rec, nil
}
