package wal

import "github.com/anvil-run/anvil/pkg/types"

// ============================================================================
// WAL Type Definitions
// Responsibility: Define core data structures for WAL
// ============================================================================

// EventType defines WAL event types, one per coordinator state transition
// that must survive a crash.
type EventType string

const (
	EventCreateJob  EventType = "CREATE_JOB"  // createJob: ScheduledJob inserted into the job table
	EventClassDef   EventType = "CLASS_DEF"   // setJobClassDefinition: class artifact overlay write
	EventSubmit     EventType = "SUBMIT"      // submitJob: PENDING -> RUNNING
	EventDispatch   EventType = "DISPATCH"    // a task was stamped and enqueued on the scheduler
	EventResult     EventType = "RESULT"      // submitTaskResults accepted for a task
	EventCancel     EventType = "CANCEL"      // cancelJob
	EventComplete   EventType = "COMPLETE"    // job reached COMPLETE and was finalized
)

// Event is one WAL record.
type Event struct {
	Seq       uint64        `json:"seq"`
	Type      EventType     `json:"type"`
	JobID     types.JobID   `json:"job_id"`
	TaskID    types.TaskID  `json:"task_id,omitempty"`
	Payload   []byte        `json:"payload,omitempty"`
	Timestamp int64         `json:"timestamp"`
	Checksum  uint32        `json:"checksum"`
}

// EventHandler processes one replayed event during recovery.
type EventHandler func(event *Event) error
