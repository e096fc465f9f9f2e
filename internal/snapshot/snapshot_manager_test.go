package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anvil-run/anvil/pkg/types"
)

func TestLoadMissingFileReturnsEmptySnapshot(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "missing.json"))
	data, err := m.Load()
	require.NoError(t, err)
	assert.Empty(t, data.Jobs)
	assert.Equal(t, schemaVersion, data.SchemaVer)
}

func TestWriteThenLoadRoundTrip(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "snap.json"))
	job := types.NewJobID()
	data := SnapshotData{
		Jobs: map[types.JobID]*JobRecord{
			job: {ID: job, Description: "d", State: types.JobRunning, ClassName: "counter.Job"},
		},
		LastSeq: 42,
	}
	require.NoError(t, m.Write(data))

	got, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), got.LastSeq)
	assert.Equal(t, types.JobRunning, got.Jobs[job].State)
}

func TestLoadRejectsIncompatibleSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	m := NewManager(path)
	require.NoError(t, m.Write(SnapshotData{Jobs: map[types.JobID]*JobRecord{}}))

	data, err := m.Load()
	require.NoError(t, err)
	data.SchemaVer = schemaVersion + 1
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	_, err = m.Load()
	assert.ErrorIs(t, err, ErrIncompatibleVersion)
}

func TestWriteWithBackupKeepsPriorVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	m := NewManager(path)
	require.NoError(t, m.Write(SnapshotData{Jobs: map[types.JobID]*JobRecord{}, LastSeq: 1}))
	require.NoError(t, m.WriteWithBackup(SnapshotData{Jobs: map[types.JobID]*JobRecord{}, LastSeq: 2}))

	matches, err := filepath.Glob(path + ".*")
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	got, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got.LastSeq)
}
