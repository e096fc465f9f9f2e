package worker

import "context"

// TaskExecutor runs one task's payload and returns its result bytes. It is
// produced per job by an ExecutorFactory from the bytes the coordinator
// hands back from GetTaskExecutor — Go's analogue of deserializing a
// server-supplied task-executor object.
type TaskExecutor interface {
	Execute(ctx context.Context, payload []byte, progress ProgressReporter) ([]byte, error)
}

// ExecutorFactory builds a TaskExecutor from the executor bytes cached for a
// job, mirroring coordinator.ClassFactory on the worker side of the wire.
type ExecutorFactory func(executorBytes []byte) (TaskExecutor, error)

// ProgressReporter lets a running TaskExecutor report fractional progress
// and observe a server-side cancellation flipped by the finished-task
// poller. Checking Cancelled() is the only way a long-running executor
// notices it's been cancelled — there is no forcible interruption.
type ProgressReporter interface {
	ReportProgress(fraction float64)
	Cancelled() bool
}
