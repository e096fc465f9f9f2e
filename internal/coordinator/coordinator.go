// Package coordinator implements the Job Coordinator (C5), the heart of the
// system: it composes the Artifact Registry (C1), Task Scheduler (C2), the
// job table (C3) and the Status Event Log (C4) behind the public operation
// contract that both the gRPC transport (C7) and the worker runtime (C6)
// call through.
//
// Grounded on the teacher's internal/controller/controller.go, which already
// owns a job manager, dispatches work to a pool, and drives a WAL/snapshot
// recovery cycle; rewritten here operation-by-operation against the job
// lifecycle (createJob/submitJob/cancelJob/requestTask/submitTaskResults/...)
// instead of the teacher's generic retry-queue semantics.
package coordinator

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/anvil-run/anvil/internal/apierrors"
	"github.com/anvil-run/anvil/internal/events"
	"github.com/anvil-run/anvil/internal/metrics"
	"github.com/anvil-run/anvil/internal/registry"
	"github.com/anvil-run/anvil/internal/scheduler"
	"github.com/anvil-run/anvil/internal/snapshot"
	"github.com/anvil-run/anvil/internal/storage/wal"
	"github.com/anvil-run/anvil/pkg/types"
)

// idleTask is the reserved descriptor returned by requestTask when the
// scheduler has nothing queued.
var idleTask = types.TaskDescription{JobID: types.NilJobID, TaskID: types.IdleTaskID}

// Config controls where a Coordinator keeps job working directories and
// finished-job archives on the local filesystem, plus its optional
// crash-recovery log and snapshot store.
type Config struct {
	WorkingDirBase string
	OutputDir      string
	IdleSeconds    int
	Logger         *slog.Logger
	Metrics        *metrics.Collector

	// WAL and Snapshot are both optional. When WAL is nil, the coordinator
	// runs purely in-memory (fine for a demo or test); when set, every
	// lifecycle transition is appended, best effort, right after it takes
	// effect in memory (see appendWAL).
	WAL      *wal.WAL
	Snapshot *snapshot.Manager
}

// Coordinator is the Job Coordinator (C5).
type Coordinator struct {
	mu   sync.RWMutex
	jobs map[types.JobID]*ScheduledJob

	scheduler *scheduler.Scheduler
	registry  *registry.Registry
	events    *events.Log

	classFactories map[string]ClassFactory

	idleMu      sync.RWMutex
	idleSeconds int

	workingDirBase string
	outputDir      string

	log     *slog.Logger
	metrics *metrics.Collector

	wal  *wal.WAL
	snap *snapshot.Manager
}

// New constructs a Coordinator around fresh C1/C2/C4 subsystems.
func New(cfg Config) *Coordinator {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.IdleSeconds <= 0 {
		cfg.IdleSeconds = 5
	}
	return &Coordinator{
		jobs:           make(map[types.JobID]*ScheduledJob),
		scheduler:      scheduler.New(),
		registry:       registry.New(),
		events:         events.New(),
		classFactories: make(map[string]ClassFactory),
		idleSeconds:    cfg.IdleSeconds,
		workingDirBase: cfg.WorkingDirBase,
		outputDir:      cfg.OutputDir,
		log:            cfg.Logger,
		metrics:        cfg.Metrics,
		wal:            cfg.WAL,
		snap:           cfg.Snapshot,
	}
}

// appendWAL is a best-effort crash-recovery write: failures are logged, not
// propagated, since the in-memory transition this backs has usually already
// been decided by the time it's called (matching the teacher's own
// dispatch-loop WAL discipline of logging append failures rather than
// aborting the operation).
func (c *Coordinator) appendWAL(eventType wal.EventType, jobID types.JobID, taskID types.TaskID, payload []byte) {
	if c.wal == nil {
		return
	}
	if err := c.wal.Append(eventType, jobID, taskID, payload); err != nil {
		c.log.Warn("wal append failed", "event", eventType, "job", jobID, "error", err)
	}
}

// Recover restores job-table metadata from the latest snapshot plus any WAL
// events appended after it. Each recovered job keeps its id and description
// and gets a fresh, empty artifact snapshot; a snapshot record keeps its
// saved state, and a job known only from its WAL creation record comes back
// PENDING. Jobs whose WAL records end in a cancel or completion are dropped.
// Go has no generic way to reconstruct an arbitrary Job's live in-memory
// state from bytes alone (that is inherently specific to each registered
// class), so no Job value, task executor or queued task is rebuilt.
func (c *Coordinator) Recover() error {
	if c.snap == nil || c.wal == nil {
		return nil
	}
	data, err := c.snap.Load()
	if err != nil {
		return fmt.Errorf("anvil: load snapshot: %w", err)
	}

	c.mu.Lock()
	for id, rec := range data.Jobs {
		c.jobs[id] = &ScheduledJob{ID: id, Description: rec.Description, State: rec.State, Snapshot: c.registry.NewChildSnapshot()}
	}
	c.mu.Unlock()

	return c.wal.Replay(func(ev *wal.Event) error {
		c.mu.Lock()
		defer c.mu.Unlock()
		switch ev.Type {
		case wal.EventCreateJob:
			if _, ok := c.jobs[ev.JobID]; !ok {
				c.jobs[ev.JobID] = &ScheduledJob{ID: ev.JobID, Description: string(ev.Payload), State: types.JobPending, Snapshot: c.registry.NewChildSnapshot()}
			}
		case wal.EventCancel, wal.EventComplete:
			if sj, ok := c.jobs[ev.JobID]; ok {
				c.registry.Release(sj.Snapshot)
			}
			delete(c.jobs, ev.JobID)
		}
		return nil
	})
}

// RegisterClass binds a class name to the factory used to reconstruct a Job
// from its class bytes and a submitted payload. See ClassFactory's doc
// comment for why Go needs this explicit registration step.
func (c *Coordinator) RegisterClass(name string, factory ClassFactory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.classFactories[name] = factory
}

// CreateJob creates a new PENDING job with a fresh artifact snapshot and
// emits a NEW status event.
func (c *Coordinator) CreateJob(description string) (types.JobID, error) {
	id := types.NewJobID()
	snap := c.registry.NewChildSnapshot()
	workDir := filepath.Join(c.workingDirBase, id.String())
	if c.workingDirBase != "" {
		if err := os.MkdirAll(workDir, 0o755); err != nil {
			c.registry.Release(snap)
			return types.NilJobID, fmt.Errorf("anvil: create working dir: %w", err)
		}
	}

	sj := newScheduledJob(id, description, snap, workDir)

	c.mu.Lock()
	c.jobs[id] = sj
	c.mu.Unlock()

	c.scheduler.SetPriority(id, scheduler.DefaultPriority)
	c.appendWAL(wal.EventCreateJob, id, types.IdleTaskID, []byte(description))
	c.publish(sj, types.JobPending, 0, true, "created")
	if c.metrics != nil {
		c.metrics.JobsCreated.Inc()
	}
	return id, nil
}

// SetJobClassDefinition installs a named class artifact into jobId's
// snapshot overlay. Fails ErrInvalidState once the job is past PENDING.
func (c *Coordinator) SetJobClassDefinition(jobID types.JobID, name string, bytes []byte) error {
	sj, err := c.lookup(jobID)
	if err != nil {
		return err
	}
	var opErr error
	sj.withLock(func() {
		if sj.State != types.JobPending {
			opErr = apierrors.ErrInvalidState
			return
		}
		artifact := types.NewClassArtifact(name, bytes)
		opErr = c.registry.ChildPut(sj.Snapshot, artifact)
	})
	return opErr
}

// SubmitJob deserializes className's factory over serializedJob, caches the
// job's task executor, transitions PENDING->RUNNING and tries to enqueue one
// task. className must already be registered (RegisterClass). When the
// job's snapshot resolves className (root or override), those bytes are
// passed to the factory; otherwise the factory receives nil class bytes.
func (c *Coordinator) SubmitJob(jobID types.JobID, className string, serializedJob []byte) error {
	sj, err := c.lookup(jobID)
	if err != nil {
		return err
	}

	c.mu.RLock()
	factory, hasFactory := c.classFactories[className]
	c.mu.RUnlock()

	if !hasFactory {
		c.cancelInternal(sj, "missing class "+className)
		return apierrors.ErrUnknownClass
	}
	var classBytes []byte
	if digest, err := c.registry.ChildGetDigest(sj.Snapshot, className); err == nil {
		classBytes, err = c.registry.ChildGetBytes(sj.Snapshot, digest)
		if err != nil {
			c.cancelInternal(sj, "missing class bytes for "+className)
			return apierrors.ErrMissingArtifact
		}
	}

	job, err := factory(classBytes, serializedJob, sj.WorkingDir)
	if err != nil {
		c.cancelInternal(sj, "deserialize failed: "+err.Error())
		return fmt.Errorf("%w: %v", apierrors.ErrExecutionFailed, err)
	}
	if err := job.Initialize(); err != nil {
		c.cancelInternal(sj, "initialize failed: "+err.Error())
		return fmt.Errorf("%w: %v", apierrors.ErrExecutionFailed, err)
	}
	executor, err := job.TaskExecutor()
	if err != nil {
		c.cancelInternal(sj, "taskExecutor failed: "+err.Error())
		return fmt.Errorf("%w: %v", apierrors.ErrExecutionFailed, err)
	}

	var produceErr error
	sj.withLock(func() {
		sj.Job = job
		sj.cachedExecutor = executor
		sj.State = types.JobRunning
		produceErr = c.produceNextTaskLocked(sj)
	})
	if produceErr != nil {
		c.cancelInternal(sj, "produceNextTask failed: "+produceErr.Error())
		return fmt.Errorf("%w: %v", apierrors.ErrExecutionFailed, produceErr)
	}

	c.appendWAL(wal.EventSubmit, jobID, types.IdleTaskID, []byte(className))
	c.publish(sj, types.JobRunning, 0, true, "running")
	if c.metrics != nil {
		c.metrics.JobsRunning.Inc()
	}
	return nil
}

// SubmitJobWithDescription is the convenience overload: createJob + (no
// class overrides) + submit, in one call.
func (c *Coordinator) SubmitJobWithDescription(description, className string, serializedJob []byte) (types.JobID, error) {
	id, err := c.CreateJob(description)
	if err != nil {
		return types.NilJobID, err
	}
	if err := c.SubmitJob(id, className, serializedJob); err != nil {
		return id, err
	}
	return id, nil
}

// produceNextTaskLocked asks sj's Job for one more task and, if it produces
// one, stamps it with a fresh random non-zero taskId and enqueues it on the
// scheduler. Caller must hold sj.mu.
func (c *Coordinator) produceNextTaskLocked(sj *ScheduledJob) error {
	if sj.Job == nil || sj.State != types.JobRunning {
		return nil
	}
	payload, ok, err := sj.Job.ProduceNextTask()
	if err != nil {
		return err
	}
	if !ok {
		sj.Stalled = true
		return nil
	}
	sj.Stalled = false

	var taskID types.TaskID
	for {
		taskID = types.TaskID(rand.Int32())
		if taskID == types.IdleTaskID {
			continue
		}
		if !c.scheduler.Contains(sj.ID, taskID) {
			break
		}
	}
	c.scheduler.Add(types.TaskDescription{JobID: sj.ID, TaskID: taskID, Payload: payload})
	c.appendWAL(wal.EventDispatch, sj.ID, taskID, payload)
	return nil
}

// CancelJob transitions jobId to CANCELLED, drops its queued tasks and
// releases its snapshot. Idempotent: cancelling an already-terminal job is
// a no-op.
func (c *Coordinator) CancelJob(jobID types.JobID) error {
	c.mu.RLock()
	sj, ok := c.jobs[jobID]
	c.mu.RUnlock()
	if !ok {
		return nil
	}
	c.cancelInternal(sj, "cancelled")
	return nil
}

func (c *Coordinator) cancelInternal(sj *ScheduledJob, reason string) {
	var alreadyTerminal, wasRunning bool
	sj.withLock(func() {
		if sj.State == types.JobCancelled || sj.State == types.JobComplete {
			alreadyTerminal = true
			return
		}
		wasRunning = sj.State == types.JobRunning
		sj.State = types.JobCancelled
	})
	if alreadyTerminal {
		return
	}
	c.scheduler.RemoveJob(sj.ID)
	c.registry.Release(sj.Snapshot)
	c.appendWAL(wal.EventCancel, sj.ID, types.IdleTaskID, []byte(reason))
	c.publish(sj, types.JobCancelled, 1, false, reason)
	c.mu.Lock()
	delete(c.jobs, sj.ID)
	c.mu.Unlock()
	if c.metrics != nil {
		c.metrics.JobsCancelled.Inc()
		if wasRunning {
			c.metrics.JobsRunning.Dec()
		}
	}
}

// GetTaskExecutor returns jobId's cached executor bytes. Valid once the job
// has reached RUNNING or COMPLETE.
func (c *Coordinator) GetTaskExecutor(jobID types.JobID) ([]byte, error) {
	sj, err := c.lookup(jobID)
	if err != nil {
		return nil, err
	}
	var out []byte
	sj.withLock(func() { out = sj.cachedExecutor })
	if out == nil {
		return nil, apierrors.ErrUnknownClass
	}
	return out, nil
}

// GetClassDigest resolves a class name through jobId's snapshot.
func (c *Coordinator) GetClassDigest(name string, jobID types.JobID) (types.Digest, error) {
	sj, err := c.lookup(jobID)
	if err != nil {
		return types.Digest{}, err
	}
	return c.registry.ChildGetDigest(sj.Snapshot, name)
}

// GetClassBytes resolves a class digest through jobId's snapshot.
func (c *Coordinator) GetClassBytes(digest types.Digest, jobID types.JobID) ([]byte, error) {
	sj, err := c.lookup(jobID)
	if err != nil {
		return nil, err
	}
	return c.registry.ChildGetBytes(sj.Snapshot, digest)
}

// RequestTask pops the next task from the scheduler. If one is found, it
// eagerly asks the owning job to refill before returning — keeping the
// scheduler's queue from running dry between worker requests. If none is
// queued, it returns the reserved idle task.
func (c *Coordinator) RequestTask() types.TaskDescription {
	task, ok := c.scheduler.PickNext()
	if !ok {
		idle := idleTask
		c.idleMu.RLock()
		idle.Payload = []byte(fmt.Sprintf("%d", c.idleSeconds))
		c.idleMu.RUnlock()
		return idle
	}

	c.mu.RLock()
	sj, ok := c.jobs[task.JobID]
	c.mu.RUnlock()
	if ok {
		sj.withLock(func() {
			if err := c.produceNextTaskLocked(sj); err != nil {
				c.log.Warn("eager refill failed", "job", sj.ID, "error", err)
			}
		})
	}
	return task
}

// SubmitTaskResults removes (jobId, taskId) from the scheduler and, if it
// was still owed, asynchronously delivers the result to the job. A result
// for a task that is no longer present (already delivered, or its job
// cancelled or finalized) is silently dropped.
func (c *Coordinator) SubmitTaskResults(jobID types.JobID, taskID types.TaskID, result []byte) {
	_, present := c.scheduler.Remove(jobID, taskID)
	if !present {
		return
	}
	c.appendWAL(wal.EventResult, jobID, taskID, result)

	c.mu.RLock()
	sj, ok := c.jobs[jobID]
	c.mu.RUnlock()
	if !ok {
		return
	}
	go c.finishSubmitResults(sj, taskID, result)
}

func (c *Coordinator) finishSubmitResults(sj *ScheduledJob, taskID types.TaskID, result []byte) {
	var (
		progress   float64
		acceptErr  error
		complete   bool
		refillErr  error
		cancelled  bool
	)
	sj.withLock(func() {
		if sj.State != types.JobRunning || sj.Job == nil {
			cancelled = true
			return
		}
		progress, acceptErr = sj.Job.AcceptResults(taskID, result)
		if acceptErr != nil {
			return
		}
		complete = sj.Job.IsComplete()
		if !complete && sj.Stalled {
			refillErr = c.produceNextTaskLocked(sj)
		}
	})
	if cancelled {
		return
	}
	if acceptErr != nil {
		c.cancelInternal(sj, "acceptResults failed: "+acceptErr.Error())
		return
	}
	if refillErr != nil {
		c.log.Warn("stalled refill failed", "job", sj.ID, "error", refillErr)
	}
	if complete {
		c.finalize(sj)
		return
	}
	c.publish(sj, types.JobRunning, progress, false, "")
}

// finalize runs a job's Finish hook, archives its working directory and
// removes it from the job table.
func (c *Coordinator) finalize(sj *ScheduledJob) {
	var finishErr error
	sj.withLock(func() {
		sj.State = types.JobComplete
		if sj.Job != nil {
			finishErr = sj.Job.Finish()
		}
	})
	if finishErr != nil {
		c.log.Error("job finish hook failed", "job", sj.ID, "error", finishErr)
	}
	if sj.WorkingDir != "" && c.outputDir != "" {
		if err := c.archiveWorkingDir(sj); err != nil {
			c.log.Error("archive working dir failed", "job", sj.ID, "error", err)
		}
	}
	c.scheduler.RemoveJob(sj.ID)
	c.registry.Release(sj.Snapshot)
	c.appendWAL(wal.EventComplete, sj.ID, types.IdleTaskID, nil)

	c.mu.Lock()
	delete(c.jobs, sj.ID)
	c.mu.Unlock()

	c.publish(sj, types.JobComplete, 1, false, "complete")
	if c.metrics != nil {
		c.metrics.JobsCompleted.Inc()
		c.metrics.JobsRunning.Dec()
	}
}

func (c *Coordinator) archiveWorkingDir(sj *ScheduledJob) error {
	if err := os.MkdirAll(c.outputDir, 0o755); err != nil {
		return err
	}
	zipPath := filepath.Join(c.outputDir, sj.ID.String()+".zip")
	f, err := os.Create(zipPath)
	if err != nil {
		return err
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	defer zw.Close()

	return filepath.Walk(sj.WorkingDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		rel, err := filepath.Rel(sj.WorkingDir, path)
		if err != nil {
			return err
		}
		w, err := zw.Create(rel)
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(w, src)
		return err
	})
}

// ReportException appends a failure note to jobId's log file. A zero taskId
// means the failure happened during deserialization/initialization (job
// level); a non-zero taskId means it happened during task execution. This
// branches strictly on taskId == 0 (see SPEC_FULL.md §9 on the source's
// swapped branches) and never cancels the job.
func (c *Coordinator) ReportException(jobID types.JobID, taskID types.TaskID, exception string) {
	sj, err := c.lookup(jobID)
	if err != nil {
		c.log.Warn("reportException for unknown job", "job", jobID)
		return
	}

	var line string
	if taskID == types.IdleTaskID {
		line = fmt.Sprintf("[%s] job-level exception: %s\n", time.Now().UTC().Format(time.RFC3339), exception)
	} else {
		line = fmt.Sprintf("[%s] task %d exception: %s\n", time.Now().UTC().Format(time.RFC3339), taskID, exception)
	}

	if sj.WorkingDir == "" {
		return
	}
	if err := os.MkdirAll(sj.WorkingDir, 0o755); err != nil {
		c.log.Warn("reportException: mkdir failed", "job", jobID, "error", err)
		return
	}
	f, err := os.OpenFile(filepath.Join(sj.WorkingDir, "job.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		c.log.Warn("reportException: open log failed", "job", jobID, "error", err)
		return
	}
	defer f.Close()
	_, _ = f.WriteString(line)
}

// GetFinishedTasks reports, for each (jobIds[i], taskIds[i]) pair, whether
// that task is no longer owed work: the scheduler no longer has it queued
// and either the job is gone or it is past RUNNING.
func (c *Coordinator) GetFinishedTasks(jobIDs []types.JobID, taskIDs []types.TaskID) ([]bool, error) {
	if len(jobIDs) != len(taskIDs) {
		return nil, fmt.Errorf("anvil: jobIds and taskIds must be equal length")
	}
	out := make([]bool, len(jobIDs))
	for i := range jobIDs {
		if c.scheduler.Contains(jobIDs[i], taskIDs[i]) {
			out[i] = false
			continue
		}
		c.mu.RLock()
		sj, ok := c.jobs[jobIDs[i]]
		c.mu.RUnlock()
		out[i] = !ok || sj.State != types.JobRunning
	}
	return out, nil
}

// SetIdleTime replaces the number of seconds reported in the idle task
// payload.
func (c *Coordinator) SetIdleTime(seconds int) error {
	if seconds < 0 {
		return fmt.Errorf("anvil: idle seconds must be non-negative")
	}
	c.idleMu.Lock()
	c.idleSeconds = seconds
	c.idleMu.Unlock()
	return nil
}

// SetJobPriority delegates to the scheduler.
func (c *Coordinator) SetJobPriority(jobID types.JobID, priority int) error {
	if _, err := c.lookup(jobID); err != nil {
		return err
	}
	c.scheduler.SetPriority(jobID, priority)
	return nil
}

// WaitForStatusChange blocks (up to timeoutMs; negative means indefinite,
// zero means return immediately) for the first event with eventId greater
// than lastEventID, across all jobs.
func (c *Coordinator) WaitForStatusChange(ctx context.Context, lastEventID int64, timeoutMs int) (*types.JobStatusEvent, error) {
	return c.waitForStatusChange(ctx, types.NilJobID, false, lastEventID, timeoutMs)
}

// WaitForStatusChangeJob is WaitForStatusChange filtered to one job.
// Fails ErrUnknownJob only if that job never existed in this coordinator's
// lifetime (the status index retains terminal jobs' last event).
func (c *Coordinator) WaitForStatusChangeJob(ctx context.Context, jobID types.JobID, lastEventID int64, timeoutMs int) (*types.JobStatusEvent, error) {
	if _, ok := c.events.Latest(jobID); !ok {
		if _, err := c.lookup(jobID); err != nil {
			return nil, err
		}
	}
	return c.waitForStatusChange(ctx, jobID, true, lastEventID, timeoutMs)
}

func (c *Coordinator) waitForStatusChange(ctx context.Context, jobID types.JobID, filtered bool, lastEventID int64, timeoutMs int) (*types.JobStatusEvent, error) {
	if timeoutMs == 0 {
		if !filtered {
			ev, ok := c.events.LatestAny()
			if !ok || ev.EventID <= lastEventID {
				return nil, nil
			}
			return &ev, nil
		}
		ev, ok := c.events.Latest(jobID)
		if !ok {
			return nil, nil
		}
		if ev.EventID <= lastEventID {
			return nil, nil
		}
		return &ev, nil
	}

	waitCtx := ctx
	var cancel context.CancelFunc
	if timeoutMs > 0 {
		waitCtx, cancel = context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
		defer cancel()
	}

	if filtered {
		ev, ok := c.events.Wait(waitCtx, jobID, lastEventID)
		if !ok {
			return nil, nil
		}
		return &ev, nil
	}
	ev, ok := c.events.WaitAny(waitCtx, lastEventID)
	if !ok {
		return nil, nil
	}
	return &ev, nil
}

func (c *Coordinator) lookup(jobID types.JobID) (*ScheduledJob, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	sj, ok := c.jobs[jobID]
	if !ok {
		return nil, apierrors.ErrUnknownJob
	}
	return sj, nil
}

func (c *Coordinator) publish(sj *ScheduledJob, state types.JobState, progress float64, indeterminate bool, statusText string) {
	ev := c.events.Publish(sj.ID, sj.Description, state, progress, indeterminate, statusText)
	sj.withLock(func() { sj.LastStatus = ev })
}
