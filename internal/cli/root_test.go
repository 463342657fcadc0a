package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI against a scratch config dir and returns
// captured stdout plus the command error.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func testEnv(t *testing.T) (dbPath, filePath string) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	dir := t.TempDir()
	dbPath = filepath.Join(dir, "fimbl.db")
	filePath = filepath.Join(dir, "watched.txt")
	require.NoError(t, os.WriteFile(filePath, []byte("contents"), 0o644))
	return dbPath, filePath
}

func TestAddVerifyRoundTrip(t *testing.T) {
	db, file := testEnv(t)

	out, err := execute(t, "add", "--database", db, file)
	require.NoError(t, err)
	assert.Contains(t, out, "added: ")

	out, err = execute(t, "verify", "--database", db, file)
	require.NoError(t, err)
	assert.Contains(t, out, "unchanged: ")
}

func TestVerify_ChangedFileExitsNonzero(t *testing.T) {
	db, file := testEnv(t)

	_, err := execute(t, "add", "--database", db, file)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(file, []byte("tampered"), 0o644))

	out, err := execute(t, "verify", "--database", db, file)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "changed: ")
	assert.Contains(t, out, "expected sha3-256:")
	assert.Contains(t, out, "observed sha3-256:")
}

func TestAdd_StrictThenTolerant(t *testing.T) {
	db, file := testEnv(t)

	_, err := execute(t, "add", "--database", db, file)
	require.NoError(t, err)

	// Strict re-add fails
	out, err := execute(t, "add", "--database", db, file)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "already-tracked: ")

	// Tolerant re-add succeeds
	out, err = execute(t, "add", "--tolerant", "--database", db, file)
	require.NoError(t, err)
	assert.Contains(t, out, "already-tracked: ")
}

func TestVerifyAll_EmptyLedgerSucceeds(t *testing.T) {
	db, _ := testEnv(t)

	out, err := execute(t, "verify-all", "--database", db)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestAcceptThenVerify(t *testing.T) {
	db, file := testEnv(t)

	_, err := execute(t, "add", "--database", db, file)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(file, []byte("expected edit"), 0o644))

	out, err := execute(t, "accept", "--database", db, file)
	require.NoError(t, err)
	assert.Contains(t, out, "accepted: ")

	_, err = execute(t, "verify", "--database", db, file)
	require.NoError(t, err)
}

func TestRemoveAndList(t *testing.T) {
	db, file := testEnv(t)

	_, err := execute(t, "add", "--database", db, file)
	require.NoError(t, err)

	out, err := execute(t, "list", "--database", db)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Base(file))

	out, err = execute(t, "remove", "--database", db, file)
	require.NoError(t, err)
	assert.Contains(t, out, "removed: ")

	out, err = execute(t, "list", "--database", db)
	require.NoError(t, err)
	assert.Empty(t, out)

	// Second remove is a strict policy violation
	_, err = execute(t, "remove", "--database", db, file)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestJSONOutput(t *testing.T) {
	db, file := testEnv(t)

	out, err := execute(t, "add", "--format", "json", "--database", db, file)
	require.NoError(t, err)

	var outcomes []outcomeJSON
	require.NoError(t, json.Unmarshal([]byte(out), &outcomes))
	require.Len(t, outcomes, 1)
	assert.Equal(t, "added", outcomes[0].Status)
	require.NotNil(t, outcomes[0].Observed)
	assert.NotEmpty(t, outcomes[0].Observed.Digest)
}

func TestInvalidFormatRejected(t *testing.T) {
	db, file := testEnv(t)

	_, err := execute(t, "verify", "--format", "xml", "--database", db, file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestFollowSymlinks_TracksLinkAndTarget(t *testing.T) {
	db, file := testEnv(t)
	link := filepath.Join(filepath.Dir(file), "link")
	require.NoError(t, os.Symlink(file, link))

	// The link and its target resolve to one canonical key: the first
	// chain entry adds it, the second sees it already tracked. Tolerant
	// mode keeps that from failing the batch.
	out, err := execute(t, "add", "--follow-symlinks", "--tolerant", "--database", db, link)
	require.NoError(t, err)
	assert.Contains(t, out, "added: ")
	assert.Contains(t, out, "already-tracked: ")
}
