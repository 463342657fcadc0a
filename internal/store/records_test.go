package store

import (
	"context"
	"io/fs"
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/fimbl/internal/fingerprint"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "fimbl.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testRecord(path string, fill byte) Record {
	var d fingerprint.Digest
	for i := range d {
		d[i] = fill
	}
	return Record{
		Path:       path,
		Digest:     d,
		Size:       42,
		Modified:   time.Unix(0, 1700000000123456789),
		Mode:       fs.FileMode(0o644),
		RecordedAt: time.Unix(0, 1700000001000000000),
	}
}

func TestPutGetRecord_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	want := testRecord("/etc/passwd", 0xaa)
	if err := s.PutRecord(ctx, want); err != nil {
		t.Fatalf("PutRecord() failed: %v", err)
	}

	got, err := s.GetRecord(ctx, "/etc/passwd")
	if err != nil {
		t.Fatalf("GetRecord() failed: %v", err)
	}
	if got == nil {
		t.Fatal("GetRecord() returned nil for tracked path")
	}

	if got.Path != want.Path {
		t.Errorf("Path = %q, want %q", got.Path, want.Path)
	}
	if got.Digest != want.Digest {
		t.Errorf("Digest = %s, want %s", got.Digest, want.Digest)
	}
	if got.Size != want.Size {
		t.Errorf("Size = %d, want %d", got.Size, want.Size)
	}
	if !got.Modified.Equal(want.Modified) {
		t.Errorf("Modified = %v, want %v", got.Modified, want.Modified)
	}
	if got.Mode != want.Mode {
		t.Errorf("Mode = %v, want %v", got.Mode, want.Mode)
	}
	if !got.RecordedAt.Equal(want.RecordedAt) {
		t.Errorf("RecordedAt = %v, want %v", got.RecordedAt, want.RecordedAt)
	}
}

func TestGetRecord_Untracked(t *testing.T) {
	s := openTestStore(t)

	got, err := s.GetRecord(context.Background(), "/not/tracked")
	if err != nil {
		t.Fatalf("GetRecord() failed: %v", err)
	}
	if got != nil {
		t.Errorf("GetRecord() = %+v, want nil for untracked path", got)
	}
}

func TestPutRecord_Upsert(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.PutRecord(ctx, testRecord("/etc/group", 0x01)); err != nil {
		t.Fatalf("first PutRecord() failed: %v", err)
	}

	updated := testRecord("/etc/group", 0x02)
	updated.Size = 99
	if err := s.PutRecord(ctx, updated); err != nil {
		t.Fatalf("second PutRecord() failed: %v", err)
	}

	got, err := s.GetRecord(ctx, "/etc/group")
	if err != nil {
		t.Fatalf("GetRecord() failed: %v", err)
	}
	if got.Digest != updated.Digest {
		t.Errorf("Digest = %s, want %s after upsert", got.Digest, updated.Digest)
	}
	if got.Size != 99 {
		t.Errorf("Size = %d, want 99 after upsert", got.Size)
	}

	// Still exactly one row for the key
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM records WHERE path = ?", "/etc/group").Scan(&count); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != 1 {
		t.Errorf("found %d rows for key, want 1", count)
	}
}

func TestDeleteRecord(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.PutRecord(ctx, testRecord("/etc/hosts", 0x03)); err != nil {
		t.Fatalf("PutRecord() failed: %v", err)
	}

	existed, err := s.DeleteRecord(ctx, "/etc/hosts")
	if err != nil {
		t.Fatalf("DeleteRecord() failed: %v", err)
	}
	if !existed {
		t.Error("DeleteRecord() = false for tracked path, want true")
	}

	existed, err = s.DeleteRecord(ctx, "/etc/hosts")
	if err != nil {
		t.Fatalf("second DeleteRecord() failed: %v", err)
	}
	if existed {
		t.Error("DeleteRecord() = true after removal, want false")
	}
}

func TestIterateRecords_LexicographicOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Inserted out of order on purpose
	for _, path := range []string{"/zeta", "/alpha", "/mid"} {
		if err := s.PutRecord(ctx, testRecord(path, 0x04)); err != nil {
			t.Fatalf("PutRecord(%q) failed: %v", path, err)
		}
	}

	var got []string
	err := s.IterateRecords(ctx, func(rec Record) error {
		got = append(got, rec.Path)
		return nil
	})
	if err != nil {
		t.Fatalf("IterateRecords() failed: %v", err)
	}

	want := []string{"/alpha", "/mid", "/zeta"}
	if len(got) != len(want) {
		t.Fatalf("iterated %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestIterateRecords_EmptyStore(t *testing.T) {
	s := openTestStore(t)

	calls := 0
	err := s.IterateRecords(context.Background(), func(Record) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("IterateRecords() failed: %v", err)
	}
	if calls != 0 {
		t.Errorf("fn called %d times on empty store, want 0", calls)
	}
}

func TestAppendEvent_ReadBack(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	events := []Event{
		{RunID: "run-1", Op: "add", Path: "/etc/passwd", At: time.Unix(0, 1700000000000000000)},
		{RunID: "run-2", Op: "accept", Path: "/etc/passwd", At: time.Unix(0, 1700000002000000000)},
		{RunID: "run-3", Op: "remove", Path: "/etc/passwd", At: time.Unix(0, 1700000003000000000)},
	}
	for _, ev := range events {
		if err := s.AppendEvent(ctx, ev); err != nil {
			t.Fatalf("AppendEvent(%+v) failed: %v", ev, err)
		}
	}

	got, err := s.EventsForPath(ctx, "/etc/passwd")
	if err != nil {
		t.Fatalf("EventsForPath() failed: %v", err)
	}
	if len(got) != len(events) {
		t.Fatalf("read %d events, want %d", len(got), len(events))
	}
	for i, want := range events {
		if got[i].RunID != want.RunID || got[i].Op != want.Op || !got[i].At.Equal(want.At) {
			t.Errorf("event %d = %+v, want %+v", i, got[i], want)
		}
	}
}
