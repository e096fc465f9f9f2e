// ============================================================================
// Anvil Worker Pool - Concurrent Task Executor
// ============================================================================
//
// Package: internal/worker
// File: worker_pool.go
// Function: Manages the lifecycle of N Worker goroutines, their idle
// coordination, and the finished-task poller.
//
// Idle coordination (SPEC_FULL.md §4.5): when requestTask returns the idle
// task, only the designated poller (the lowest-numbered worker, id 0) sleeps
// the requested duration and retries; every other worker blocks on a
// condition variable until the poller broadcasts. This avoids an idle fleet
// of N workers all polling the coordinator N times a second.
//
// Finished-task poller: every pollInterval, build (jobIds, taskIds) from the
// active set across all workers and call getFinishedTasks; flagged slots get
// their cooperative cancel flag set, surfaced to the executor through
// ProgressReporter.Cancelled().
//
// ============================================================================

package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/anvil-run/anvil/pkg/types"
)

// ErrPoolClosed indicates the pool has been stopped.
var ErrPoolClosed = errors.New("worker pool is closed")

// designatedPollerID is the lowest-numbered worker, always responsible for
// the idle wait. The pool does not support adding/removing workers once
// started, so the handoff case in SPEC_FULL.md §4.5 ("if the number of
// workers is reduced below the poller's id") never actually triggers here;
// worker 0 is poller for the pool's entire lifetime.
const designatedPollerID = 0

// reconnectInterval is how long a worker backs off after a connection-lost
// error before retrying requestTask.
const reconnectInterval = 60 * time.Second

// Pool manages a fixed set of Workers sharing one Source, one executor
// cache and one class cache.
type Pool struct {
	workers []*Worker
	source  Source

	executors *executorCache
	classes   *classCache

	idleMu   sync.Mutex
	idleCond *sync.Cond

	pollInterval time.Duration

	// taskSlots bounds the number of task executions in flight at once to
	// WorkerCount, independent of how many worker goroutines happen to be
	// running. Acquired by Worker.runTask around executor.Execute.
	taskSlots *semaphore.Weighted

	stopCh chan struct{}
	// group coordinates every worker goroutine plus the finished-task
	// poller under one cancellable errgroup, replacing a plain
	// sync.WaitGroup so a goroutine's unexpected error surfaces through
	// Wait() and cancels groupCtx for the rest of the group.
	group    *errgroup.Group
	groupCtx context.Context
	cancel   context.CancelFunc

	mu      sync.Mutex
	started bool
	stopped bool

	log *slog.Logger
}

// Config controls pool construction.
type Config struct {
	WorkerCount        int
	FinishedTaskPollT  time.Duration // default 10s
	Source             Source
	ExecutorFactory    ExecutorFactory
	Logger             *slog.Logger
}

// NewPool constructs a Pool. Workers are created but not started until
// Start is called.
func NewPool(cfg Config) *Pool {
	if cfg.FinishedTaskPollT <= 0 {
		cfg.FinishedTaskPollT = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 1
	}

	p := &Pool{
		source:       cfg.Source,
		executors:    newExecutorCache(cfg.ExecutorFactory, cfg.Source),
		classes:      newClassCache(cfg.Source),
		pollInterval: cfg.FinishedTaskPollT,
		taskSlots:    semaphore.NewWeighted(int64(cfg.WorkerCount)),
		stopCh:       make(chan struct{}),
		log:          cfg.Logger,
	}
	p.idleCond = sync.NewCond(&p.idleMu)

	p.workers = make([]*Worker, cfg.WorkerCount)
	for i := 0; i < cfg.WorkerCount; i++ {
		p.workers[i] = newWorker(i, p)
	}
	return p
}

// Start launches every worker goroutine plus the finished-task poller under
// one errgroup, so a goroutine that returns an unexpected error cancels
// groupCtx for the rest of the group instead of leaking silently.
func (p *Pool) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return errors.New("pool already started")
	}
	p.started = true

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	g, gctx := errgroup.WithContext(ctx)
	p.group = g
	p.groupCtx = gctx

	for _, w := range p.workers {
		w := w
		g.Go(func() error {
			w.Run()
			return nil
		})
	}

	g.Go(func() error {
		p.finishedTaskPoller()
		return nil
	})

	return nil
}

// Stop signals every worker and the poller to exit and waits for them.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.started || p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.mu.Unlock()

	close(p.stopCh)
	p.idleMu.Lock()
	p.idleCond.Broadcast() // release anyone parked waiting for the poller
	p.idleMu.Unlock()
	p.cancel()
	_ = p.group.Wait()
}

// acquireTaskSlot blocks until a task-execution slot is free (bounding
// concurrent executions to WorkerCount) or ctx is done.
func (p *Pool) acquireTaskSlot(ctx context.Context) error {
	return p.taskSlots.Acquire(ctx, 1)
}

// releaseTaskSlot returns a task-execution slot acquired via acquireTaskSlot.
func (p *Pool) releaseTaskSlot() {
	p.taskSlots.Release(1)
}

// WorkerCount returns the number of workers in the pool.
func (p *Pool) WorkerCount() int {
	return len(p.workers)
}

// awaitTurn blocks workerID until it is its turn to call requestTask: the
// poller returns immediately, everyone else waits here until the poller's
// next broadcast. Returns false if the pool stopped while waiting.
func (p *Pool) awaitTurn(workerID int) bool {
	if workerID == designatedPollerID {
		return true
	}
	p.idleMu.Lock()
	defer p.idleMu.Unlock()
	select {
	case <-p.stopCh:
		return false
	default:
	}
	p.idleCond.Wait()
	select {
	case <-p.stopCh:
		return false
	default:
		return true
	}
}

// handleIdle is called after requestTask returns the idle task. The
// designated poller sleeps and then broadcasts so anyone parked in
// awaitTurn retries too; everyone else already blocked in awaitTurn before
// reaching here, so a non-poller calling handleIdle only happens if
// requestTask itself raced a real dispatch into idle; such a worker returns
// at once and goes back to waiting in awaitTurn.
func (p *Pool) handleIdle(workerID int, seconds int) {
	if workerID != designatedPollerID {
		return
	}
	select {
	case <-p.stopCh:
		return
	case <-time.After(time.Duration(seconds) * time.Second):
	}
	p.idleMu.Lock()
	p.idleCond.Broadcast()
	p.idleMu.Unlock()
}

// reconnectSleep backs a worker off after a transport failure before it
// retries requestTask, per SPEC_FULL.md §4.5's reconnection policy.
func (p *Pool) reconnectSleep() {
	select {
	case <-p.stopCh:
	case <-time.After(reconnectInterval):
	}
}

// finishedTaskPoller asks the source which active tasks have been finished
// server-side (cancelled, superseded, or the job itself gone) and flips the
// corresponding worker's cooperative cancel flag.
func (p *Pool) finishedTaskPoller() {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.pollFinishedOnce()
		}
	}
}

func (p *Pool) pollFinishedOnce() {
	var jobIDs []types.JobID
	var taskIDs []types.TaskID
	var slots []*workerSlot

	for _, w := range p.workers {
		jobID, taskID, active := w.slot.snapshot()
		if !active {
			continue
		}
		jobIDs = append(jobIDs, jobID)
		taskIDs = append(taskIDs, taskID)
		slots = append(slots, w.slot)
	}
	if len(jobIDs) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	finished, err := p.source.GetFinishedTasks(ctx, jobIDs, taskIDs)
	cancel()
	if err != nil {
		p.log.Warn("getFinishedTasks failed", "error", err)
		return
	}

	for i, done := range finished {
		if done {
			slots[i].markCancelled()
		}
	}
}
