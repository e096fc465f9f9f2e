package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anvil-run/anvil/pkg/types"
)

func TestPickNextHonorsPriority(t *testing.T) {
	s := New()
	low := types.NewJobID()
	high := types.NewJobID()
	s.Add(types.TaskDescription{JobID: low, TaskID: 1})
	s.SetPriority(low, 0)
	s.Add(types.TaskDescription{JobID: high, TaskID: 1})
	s.SetPriority(high, 100)

	picked, ok := s.PickNext()
	require.True(t, ok)
	assert.Equal(t, high, picked.JobID)
}

func TestPickNextFIFOWithinEqualPriority(t *testing.T) {
	s := New()
	first := types.NewJobID()
	second := types.NewJobID()
	s.Add(types.TaskDescription{JobID: first, TaskID: 1})
	s.Add(types.TaskDescription{JobID: second, TaskID: 1})

	picked, ok := s.PickNext()
	require.True(t, ok)
	assert.Equal(t, first, picked.JobID, "job added first should be picked first at equal priority")
}

func TestPickNextNoTaskAvailable(t *testing.T) {
	s := New()
	_, ok := s.PickNext()
	assert.False(t, ok)
}

func TestContainsAndRemove(t *testing.T) {
	s := New()
	job := types.NewJobID()
	s.Add(types.TaskDescription{JobID: job, TaskID: 7, Payload: []byte("x")})
	assert.True(t, s.Contains(job, 7))

	task, ok := s.Remove(job, 7)
	require.True(t, ok)
	assert.Equal(t, types.TaskID(7), task.TaskID)
	assert.False(t, s.Contains(job, 7))

	_, ok = s.Remove(job, 7)
	assert.False(t, ok, "removing an already-removed task is a no-op")
}

func TestRemoveJobDiscardsQueuedTasks(t *testing.T) {
	s := New()
	job := types.NewJobID()
	s.Add(types.TaskDescription{JobID: job, TaskID: 1})
	s.Add(types.TaskDescription{JobID: job, TaskID: 2})
	s.RemoveJob(job)
	assert.False(t, s.Contains(job, 1))
	assert.False(t, s.Contains(job, 2))
	_, ok := s.PickNext()
	assert.False(t, ok)
}
