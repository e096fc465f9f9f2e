// Package scheduler implements the Task Scheduler (C2): the priority-serial
// picker that decides, among all jobs with queued tasks, which job's next
// task a requesting worker receives.
//
// Grounded on the teacher's internal/jobmanager package, which already keeps
// a job table behind a single sync.RWMutex with a secondary slice acting as
// an ordering index (internal/jobmanager/job_manager.go's jobs map + queue
// slice). Generalized here from "one job, one queue position" to "many jobs,
// each with its own pending-task queue, picked by priority then task age".
package scheduler

import (
	"sync"

	"github.com/anvil-run/anvil/pkg/types"
)

// DefaultPriority is the priority a job gets if setPriority is never called.
const DefaultPriority = 20

type taskKey struct {
	jobID  types.JobID
	taskID types.TaskID
}

// jobQueue is one job's pending-task FIFO plus its scheduling priority.
type jobQueue struct {
	priority int
	pending  []types.TaskDescription
}

// Scheduler picks the next task to dispatch across every job with queued
// work, honoring job priority (higher first) and, within equal priority,
// the order tasks were added (oldest first) — a priority-serial policy, not
// a round robin: a single high-priority job can monopolize dispatch as long
// as it keeps producing tasks.
type Scheduler struct {
	mu      sync.Mutex
	jobs    map[types.JobID]*jobQueue
	order   []types.JobID // insertion order of jobs, for priority-tie FIFO
	present map[taskKey]struct{}
}

// New constructs an empty Scheduler.
func New() *Scheduler {
	return &Scheduler{
		jobs:    make(map[types.JobID]*jobQueue),
		present: make(map[taskKey]struct{}),
	}
}

func (s *Scheduler) jobQueueLocked(jobID types.JobID) *jobQueue {
	jq, ok := s.jobs[jobID]
	if !ok {
		jq = &jobQueue{priority: DefaultPriority}
		s.jobs[jobID] = jq
		s.order = append(s.order, jobID)
	}
	return jq
}

// Add enqueues a single task, creating the job's queue (at DefaultPriority)
// if this is its first task.
func (s *Scheduler) Add(task types.TaskDescription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	jq := s.jobQueueLocked(task.JobID)
	jq.pending = append(jq.pending, task)
	s.present[taskKey{task.JobID, task.TaskID}] = struct{}{}
}

// Contains reports whether (jobID, taskID) is still owed: added and not yet
// dropped by Remove or RemoveJob. A task handed out by PickNext stays
// present until then.
func (s *Scheduler) Contains(jobID types.JobID, taskID types.TaskID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.present[taskKey{jobID, taskID}]
	return ok
}

// Remove drops (jobID, taskID) from the scheduler and returns it, or
// (zero, false) if it was not present (already removed, or never added). A
// task that PickNext already handed out comes back with its ids only; its
// payload is not kept once it leaves the queue.
func (s *Scheduler) Remove(jobID types.JobID, taskID types.TaskID) (types.TaskDescription, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := taskKey{jobID, taskID}
	if _, ok := s.present[key]; !ok {
		return types.TaskDescription{}, false
	}
	jq, ok := s.jobs[jobID]
	if !ok {
		delete(s.present, key)
		return types.TaskDescription{}, false
	}
	for i, t := range jq.pending {
		if t.TaskID == taskID {
			jq.pending = append(jq.pending[:i], jq.pending[i+1:]...)
			delete(s.present, key)
			return t, true
		}
	}
	delete(s.present, key)
	return types.TaskDescription{JobID: jobID, TaskID: taskID}, true
}

// PickNext takes the highest-priority, oldest-available queued task across
// all tracked jobs off its job's queue and returns it, or (zero, false) if
// every job's queue is currently empty. The task stays present (see
// Contains) until Remove or RemoveJob drops it; it is handed out only once.
func (s *Scheduler) PickNext() (types.TaskDescription, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var bestJob types.JobID
	var bestQueue *jobQueue
	for _, jobID := range s.order {
		jq, ok := s.jobs[jobID]
		if !ok || len(jq.pending) == 0 {
			continue
		}
		if bestQueue == nil || jq.priority > bestQueue.priority {
			bestJob, bestQueue = jobID, jq
		}
	}
	if bestQueue == nil {
		return types.TaskDescription{}, false
	}
	task := bestQueue.pending[0]
	bestQueue.pending = bestQueue.pending[1:]
	return task, true
}

// SetPriority updates jobID's scheduling priority, creating its (empty)
// queue if it has none yet.
func (s *Scheduler) SetPriority(jobID types.JobID, priority int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobQueueLocked(jobID).priority = priority
}

// RemoveJob drops every queued or handed-out task for jobID.
func (s *Scheduler) RemoveJob(jobID types.JobID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.present {
		if k.jobID == jobID {
			delete(s.present, k)
		}
	}
	delete(s.jobs, jobID)
	for i, id := range s.order {
		if id == jobID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}
