// Package events implements the Status Event Log (C4): a monotonically
// numbered stream of job status publications, compacted so that only the
// latest event per job is retained for point lookups, while still letting a
// caller block until the next event past a given eventId is published.
//
// Grounded on the teacher's controller dispatch/result loops
// (internal/controller/controller.go), which already coordinate goroutines
// through channels and a shared mutex; the wait/notify shape here uses the
// same "mutex plus a broadcast channel swapped out on every publish" idiom
// rather than introducing sync.Cond, matching the channel-first style the
// rest of the teacher's codebase uses for cross-goroutine signaling.
package events

import (
	"context"
	"sync"

	"github.com/anvil-run/anvil/pkg/types"
)

// Log is the coordinator's append-only, per-job-compacted status stream.
type Log struct {
	mu        sync.Mutex
	nextID    int64
	latest    map[types.JobID]types.JobStatusEvent
	lastID    int64
	lastEvent types.JobStatusEvent
	waitCh    chan struct{}
}

// New constructs an empty Status Event Log.
func New() *Log {
	return &Log{
		latest: make(map[types.JobID]types.JobStatusEvent),
		waitCh: make(chan struct{}),
	}
}

// Publish appends a new event for jobID, stamping the next monotonic
// eventId and overwriting any prior latest event for that job. Every
// waiter blocked in Wait is released.
func (l *Log) Publish(jobID types.JobID, description string, state types.JobState, progress float64, indeterminate bool, statusText string) types.JobStatusEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	ev := types.JobStatusEvent{
		EventID:       l.nextID,
		JobID:         jobID,
		Description:   description,
		State:         state,
		Progress:      progress,
		Indeterminate: indeterminate,
		StatusText:    statusText,
	}
	l.latest[jobID] = ev
	l.lastID = ev.EventID
	l.lastEvent = ev

	closed := l.waitCh
	l.waitCh = make(chan struct{})
	close(closed)
	return ev
}

// Latest returns the most recently published event for jobID, if any.
func (l *Log) Latest(jobID types.JobID) (types.JobStatusEvent, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ev, ok := l.latest[jobID]
	return ev, ok
}

// LastEventID returns the eventId of the most recently published event
// across all jobs, or 0 if the log is empty.
func (l *Log) LastEventID() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastID
}

// LatestAny returns the single most recently published event across every
// job the Log has ever seen, regardless of whether that job is still live
// anywhere else in the coordinator. This is the Log's own index for
// unfiltered (any-job) status lookups, independent of any external job
// table: a job's terminal event stays the most recent thing this method can
// see for as long as no newer event from any job supersedes it.
func (l *Log) LatestAny() (types.JobStatusEvent, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.nextID == 0 {
		return types.JobStatusEvent{}, false
	}
	return l.lastEvent, true
}

// Wait blocks until an event for jobID with eventId greater than sinceEventID
// is published or the context is done. It returns the observed event, or
// false if it returned due to the context without ever seeing a matching
// event.
func (l *Log) Wait(ctx context.Context, jobID types.JobID, sinceEventID int64) (types.JobStatusEvent, bool) {
	for {
		l.mu.Lock()
		ev, ok := l.latest[jobID]
		ch := l.waitCh
		l.mu.Unlock()

		if ok && ev.EventID > sinceEventID {
			return ev, true
		}

		select {
		case <-ch:
			continue
		case <-ctx.Done():
			return types.JobStatusEvent{}, false
		}
	}
}

// WaitAny blocks until any job publishes an event with eventId greater than
// sinceEventID, or the context is done. It returns the most recently
// published event at that point, or false if it returned due to the context
// without ever seeing a matching event. Unlike Wait, this does not require
// the caller to already know which job to watch.
func (l *Log) WaitAny(ctx context.Context, sinceEventID int64) (types.JobStatusEvent, bool) {
	for {
		l.mu.Lock()
		ev := l.lastEvent
		lastID := l.lastID
		ch := l.waitCh
		l.mu.Unlock()

		if lastID > sinceEventID {
			return ev, true
		}

		select {
		case <-ch:
			continue
		case <-ctx.Done():
			return types.JobStatusEvent{}, false
		}
	}
}
