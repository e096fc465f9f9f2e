// ============================================================================
// Anvil Worker - Task Execution Unit
// ============================================================================
//
// Package: internal/worker
// File: worker.go
// Function: One cooperative worker slot. Each Worker runs in its own
// goroutine, repeatedly requesting a task from the Source, executing it
// through the job's cached TaskExecutor, and reporting the outcome back.
//
// Loop (SPEC_FULL.md §4.5):
//  1. Wait for idling to end (see Pool's idle coordination).
//  2. requestTask.
//  3. Idle task -> sleep/wait, go to 1.
//  4. Real task -> record active (jobId, taskId), fetch executor (cache
//     miss: GetTaskExecutor bytes built by the ExecutorFactory), execute.
//  5. Success and not locally cancelled -> submitTaskResults.
//  6. Any error -> reportException.
//  7. Clear active, re-enter the loop.
//
// ============================================================================

package worker

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/anvil-run/anvil/pkg/types"
)

// workerSlot tracks the task a worker is currently executing, so the
// finished-task poller can see it and flip a cooperative cancel flag.
type workerSlot struct {
	mu        sync.Mutex
	jobID     types.JobID
	taskID    types.TaskID
	active    bool
	cancelled bool
}

func (s *workerSlot) setActive(jobID types.JobID, taskID types.TaskID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobID, s.taskID, s.active, s.cancelled = jobID, taskID, true, false
}

func (s *workerSlot) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active, s.cancelled = false, false
}

func (s *workerSlot) snapshot() (jobID types.JobID, taskID types.TaskID, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobID, s.taskID, s.active
}

func (s *workerSlot) markCancelled() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelled = true
}

// slotProgress adapts a workerSlot to ProgressReporter so an executor can
// observe server-side cancellation raised by the finished-task poller.
type slotProgress struct {
	slot *workerSlot
}

func (p slotProgress) ReportProgress(float64) {}

func (p slotProgress) Cancelled() bool {
	p.slot.mu.Lock()
	defer p.slot.mu.Unlock()
	return p.slot.cancelled
}

// Worker is one cooperative execution slot within a Pool.
type Worker struct {
	id   int
	pool *Pool
	slot *workerSlot
	log  *slog.Logger
}

func newWorker(id int, pool *Pool) *Worker {
	return &Worker{
		id:   id,
		pool: pool,
		slot: &workerSlot{},
		log:  pool.log.With("worker", id),
	}
}

// Run is the worker's main loop. It exits once the pool's stop channel
// closes.
func (w *Worker) Run() {
	for {
		select {
		case <-w.pool.stopCh:
			return
		default:
		}

		if !w.pool.awaitTurn(w.id) {
			return // pool stopped while this worker was idling
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		task, err := w.pool.source.RequestTask(ctx)
		cancel()
		if err != nil {
			w.log.Warn("requestTask failed", "error", err)
			w.pool.reconnectSleep()
			continue
		}

		if task.IsIdle() {
			w.pool.handleIdle(w.id, parseIdleSeconds(task.Payload))
			continue
		}

		w.runTask(task)
	}
}

func parseIdleSeconds(payload []byte) int {
	n, err := strconv.Atoi(string(payload))
	if err != nil || n <= 0 {
		return 5
	}
	return n
}

// runTask resolves jobId's executor (cache miss: GetTaskExecutor plus the
// ExecutorFactory),
// executes the payload, and reports success or failure upstream.
func (w *Worker) runTask(task types.TaskDescription) {
	w.slot.setActive(task.JobID, task.TaskID)
	defer w.slot.clear()

	ctx := context.Background()

	executor, err := w.pool.executors.get(ctx, task.JobID)
	if err != nil {
		w.reportException(task, fmt.Sprintf("load executor: %v", err))
		return
	}

	if err := w.pool.acquireTaskSlot(ctx); err != nil {
		w.reportException(task, fmt.Sprintf("acquire task slot: %v", err))
		return
	}
	defer w.pool.releaseTaskSlot()

	result, err := executor.Execute(ctx, task.Payload, slotProgress{slot: w.slot})
	if err != nil {
		w.reportException(task, err.Error())
		return
	}

	if w.slot.snapshotCancelled() {
		// Cancelled mid-flight: the coordinator has already dropped this
		// task from its scheduler, so a late result would be a no-op
		// there anyway; skip the round trip.
		return
	}

	rctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := w.pool.source.SubmitTaskResults(rctx, task.JobID, task.TaskID, result); err != nil {
		w.log.Warn("submitTaskResults failed", "job", task.JobID, "task", task.TaskID, "error", err)
	}
}

func (w *Worker) reportException(task types.TaskDescription, exception string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := w.pool.source.ReportException(ctx, task.JobID, task.TaskID, exception); err != nil {
		w.log.Warn("reportException failed", "job", task.JobID, "task", task.TaskID, "error", err)
	}
}

func (s *workerSlot) snapshotCancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}
