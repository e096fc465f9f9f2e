package wal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anvil-run/anvil/pkg/types"
)

func newTestWAL(t *testing.T) (*WAL, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "wal.log")
	w, err := NewWAL(path, false, 4, 5*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return w, path
}

func TestAppendAndReplayRoundTrip(t *testing.T) {
	w, _ := newTestWAL(t)
	job := types.NewJobID()

	require.NoError(t, w.Append(EventCreateJob, job, types.IdleTaskID, nil))
	require.NoError(t, w.Append(EventSubmit, job, types.IdleTaskID, []byte("className")))
	require.NoError(t, w.Append(EventDispatch, job, types.TaskID(7), []byte("payload")))

	var seen []EventType
	require.NoError(t, w.Replay(func(e *Event) error {
		seen = append(seen, e.Type)
		assert.Equal(t, job, e.JobID)
		return nil
	}))
	assert.Equal(t, []EventType{EventCreateJob, EventSubmit, EventDispatch}, seen)
}

func TestGetLastEventResumesSeqAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wal.log")

	w1, err := NewWAL(path, false, 1, time.Millisecond)
	require.NoError(t, err)
	job := types.NewJobID()
	require.NoError(t, w1.Append(EventCreateJob, job, types.IdleTaskID, nil))
	require.NoError(t, w1.Append(EventSubmit, job, types.IdleTaskID, nil))
	require.NoError(t, w1.Close())

	w2, err := NewWAL(path, false, 1, time.Millisecond)
	require.NoError(t, err)
	defer w2.Close()
	assert.Equal(t, uint64(2), w2.GetLastSeq())
}

func TestGetLastEventOnMissingFileIsEmptyWAL(t *testing.T) {
	_, err := GetLastEvent(filepath.Join(t.TempDir(), "does-not-exist.log"))
	assert.ErrorIs(t, err, ErrEmptyWAL)
}

func TestReplayDetectsChecksumTampering(t *testing.T) {
	w, path := newTestWAL(t)
	job := types.NewJobID()
	require.NoError(t, w.Append(EventCreateJob, job, types.IdleTaskID, nil))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	tampered := []byte(string(data)[:len(data)-2] + "0}\n")
	require.NoError(t, os.WriteFile(path, tampered, 0o644))

	w2, err := NewWAL(path, false, 1, time.Millisecond)
	require.NoError(t, err)
	defer w2.Close()

	err = w2.Replay(func(e *Event) error { return nil })
	assert.Error(t, err)
}

func TestRotateResetsSeqAndArchivesOldFile(t *testing.T) {
	w, path := newTestWAL(t)
	job := types.NewJobID()
	require.NoError(t, w.Append(EventCreateJob, job, types.IdleTaskID, nil))
	require.NoError(t, w.Rotate())
	assert.Equal(t, uint64(0), w.GetLastSeq())

	require.NoError(t, w.Append(EventCreateJob, job, types.IdleTaskID, nil))
	assert.Equal(t, uint64(1), w.GetLastSeq())

	matches, err := filepath.Glob(path + ".*")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}
