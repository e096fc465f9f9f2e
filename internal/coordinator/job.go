package coordinator

import (
	"io"
	"sync"

	"github.com/anvil-run/anvil/internal/registry"
	"github.com/anvil-run/anvil/pkg/types"
)

// Job is the capability every submitted job object must implement. It is
// the Go analog of the opaque user object the teacher's controller treats
// as a plain jobID string — here it carries real behavior, since the
// Coordinator has to drive it through its own lifecycle.
type Job interface {
	// Initialize runs once, immediately after deserialization, before the
	// first ProduceNextTask call.
	Initialize() error

	// ProduceNextTask returns the payload for one more task, or ok=false
	// if the job has no task ready right now (it may still produce more
	// later, once outstanding results come back).
	ProduceNextTask() (payload []byte, ok bool, err error)

	// AcceptResults delivers one task's results back to the job and
	// reports overall progress in [0,1].
	AcceptResults(taskID types.TaskID, result []byte) (progress float64, err error)

	// IsComplete reports whether the job has no more work, ever.
	IsComplete() bool

	// Finish runs once, after IsComplete first returns true.
	Finish() error

	// SaveState/RestoreState checkpoint job-internal state across a
	// coordinator restart (crash recovery via the WAL/snapshot layer).
	SaveState(sink io.Writer) error
	RestoreState(source io.Reader) error

	// TaskExecutor returns the serialized executor artifact exactly once;
	// the Coordinator caches the result for the job's lifetime.
	TaskExecutor() ([]byte, error)
}

// ClassFactory constructs a Job from its registered class bytes (the
// artifact installed via setJobClassDefinition/PutGlobal), the
// caller-supplied serialized job payload, and the job's working directory
// (SPEC_FULL.md's "host-service interface": the one path a running job may
// write files into, later zipped to <outputDir>/<jobId>.zip at finalize).
// Go has no dynamic bytecode classloader, so where the original design lets
// submitJob infer the job's class from the deserialized object itself, this
// module requires the class name up front and resolves it through a small
// in-process factory table (see Coordinator.RegisterClass) — documented in
// DESIGN.md as a deliberate Go-native substitute for runtime class loading.
type ClassFactory func(classBytes []byte, jobPayload []byte, workingDir string) (Job, error)

// ScheduledJob is the Coordinator's record for one submitted job: identity,
// lifecycle state, its artifact snapshot handle, the live Job object once
// submitted, its cached executor bytes, and the single-flight guard over
// produceNextTask.
type ScheduledJob struct {
	// mu guards every field below and is held for the full duration of
	// any produceNextTask call made on behalf of this job, by whichever
	// caller (requestTask's eager refill or submitTaskResults' stalled
	// retry) gets there first. This is the hard enforced invariant named
	// in SPEC_FULL.md: at most one outstanding produceNextTask per job.
	mu sync.Mutex

	ID          types.JobID
	Description string
	State       types.JobState

	Snapshot registry.SnapshotHandle
	Job      Job

	cachedExecutor []byte
	WorkingDir     string

	// Stalled is set when the last produceNextTask call returned no task;
	// the next AcceptResults completion retries refill under mu.
	Stalled bool

	LastStatus types.JobStatusEvent
}

func newScheduledJob(id types.JobID, desc string, snap registry.SnapshotHandle, workingDir string) *ScheduledJob {
	return &ScheduledJob{
		ID:          id,
		Description: desc,
		State:       types.JobPending,
		Snapshot:    snap,
		WorkingDir:  workingDir,
	}
}

// withLock serializes access to the ScheduledJob, including any
// produceNextTask call made inside fn.
func (sj *ScheduledJob) withLock(fn func()) {
	sj.mu.Lock()
	defer sj.mu.Unlock()
	fn()
}
