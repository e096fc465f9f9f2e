package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anvil-run/anvil/pkg/types"
)

func TestPublishAssignsMonotonicEventIDs(t *testing.T) {
	l := New()
	job := types.NewJobID()
	e1 := l.Publish(job, "d", types.JobRunning, 0, true, "")
	e2 := l.Publish(job, "d", types.JobRunning, 0.5, true, "")
	assert.Less(t, e1.EventID, e2.EventID)

	latest, ok := l.Latest(job)
	require.True(t, ok)
	assert.Equal(t, e2.EventID, latest.EventID)
}

func TestWaitReturnsImmediatelyIfAlreadyPast(t *testing.T) {
	l := New()
	job := types.NewJobID()
	ev := l.Publish(job, "d", types.JobComplete, 1, false, "done")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	got, ok := l.Wait(ctx, job, ev.EventID-1)
	require.True(t, ok)
	assert.Equal(t, ev.EventID, got.EventID)
}

func TestWaitBlocksUntilPublish(t *testing.T) {
	l := New()
	job := types.NewJobID()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan types.JobStatusEvent, 1)
	go func() {
		ev, ok := l.Wait(ctx, job, 0)
		if ok {
			done <- ev
		}
	}()

	time.Sleep(20 * time.Millisecond)
	published := l.Publish(job, "d", types.JobRunning, 0.1, true, "")

	select {
	case got := <-done:
		assert.Equal(t, published.EventID, got.EventID)
	case <-time.After(time.Second):
		t.Fatal("Wait did not observe the publish")
	}
}

func TestWaitReturnsFalseOnContextCancel(t *testing.T) {
	l := New()
	job := types.NewJobID()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, ok := l.Wait(ctx, job, 0)
	assert.False(t, ok)
}

func TestLatestAnyEmptyLogReturnsFalse(t *testing.T) {
	l := New()
	_, ok := l.LatestAny()
	assert.False(t, ok)
}

// TestLatestAnySurvivesJobRemovalFromExternalTable pins the fix for the
// ordering bug between a job's removal from the coordinator's job table and
// its terminal event's publication: LatestAny must keep seeing a job's last
// event even though nothing in this package's own state ever mentions an
// external job table, since the Log is the only place that index now lives.
func TestLatestAnySurvivesJobRemovalFromExternalTable(t *testing.T) {
	l := New()
	jobA := types.NewJobID()
	jobB := types.NewJobID()

	l.Publish(jobA, "a", types.JobRunning, 0, true, "")
	last := l.Publish(jobB, "b", types.JobComplete, 1, false, "done")

	ev, ok := l.LatestAny()
	require.True(t, ok)
	assert.Equal(t, last.EventID, ev.EventID)
	assert.Equal(t, jobB, ev.JobID)
}

func TestWaitAnyBlocksUntilAnyJobPublishes(t *testing.T) {
	l := New()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	since := l.LastEventID()
	done := make(chan types.JobStatusEvent, 1)
	go func() {
		ev, ok := l.WaitAny(ctx, since)
		if ok {
			done <- ev
		}
	}()

	time.Sleep(20 * time.Millisecond)
	published := l.Publish(types.NewJobID(), "c", types.JobRunning, 0.2, true, "")

	select {
	case got := <-done:
		assert.Equal(t, published.EventID, got.EventID)
	case <-time.After(time.Second):
		t.Fatal("WaitAny did not observe the publish")
	}
}

func TestWaitAnyReturnsFalseOnContextCancel(t *testing.T) {
	l := New()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, ok := l.WaitAny(ctx, 0)
	assert.False(t, ok)
}
