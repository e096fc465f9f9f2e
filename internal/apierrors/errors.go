// Package apierrors defines the sentinel errors returned across the
// coordinator, registry, scheduler and worker packages. Centralizing them
// here lets callers use errors.Is regardless of which subsystem produced the
// failure.
package apierrors

import "errors"

var (
	// ErrUnknownJob is returned when an operation names a jobId the
	// coordinator has no record of (never submitted, or already reaped).
	ErrUnknownJob = errors.New("anvil: unknown job")

	// ErrInvalidState is returned when an operation is attempted against a
	// job whose current state forbids it (e.g. setting a class definition on
	// a job that is no longer PENDING).
	ErrInvalidState = errors.New("anvil: invalid job state for operation")

	// ErrUnknownClass is returned when a task executor or class digest is
	// requested for a job that has no class definition attached, neither
	// its own nor the root fallback.
	ErrUnknownClass = errors.New("anvil: unknown class definition")

	// ErrMissingArtifact is returned when a digest is looked up but no
	// artifact bytes are present in the registry (root or snapshot).
	ErrMissingArtifact = errors.New("anvil: artifact bytes not present")

	// ErrExecutionFailed wraps an error returned by a job's class factory,
	// Initialize, TaskExecutor or first ProduceNextTask call during SubmitJob.
	ErrExecutionFailed = errors.New("anvil: task execution failed")

	// ErrDelegationFailed names a failed proxied call to another
	// coordinator. No code in this module returns it.
	ErrDelegationFailed = errors.New("anvil: job delegation failed")

	// ErrTransportFailed is returned by the gRPC transport layer on a
	// connection-level failure (dial, auth, or mid-stream disconnect).
	ErrTransportFailed = errors.New("anvil: transport failure")

	// ErrProtocolMismatch is returned when a worker and coordinator
	// negotiate incompatible wire protocol versions.
	ErrProtocolMismatch = errors.New("anvil: protocol version mismatch")

	// ErrSchedulerClosed names a scheduler that has been shut down. The
	// Scheduler has no Stop method and never returns it.
	ErrSchedulerClosed = errors.New("anvil: scheduler closed")

	// ErrNoTaskAvailable names the case where no task can be handed out.
	// Scheduler.PickNext reports that case with a false result instead.
	ErrNoTaskAvailable = errors.New("anvil: no task currently available")
)
