// ============================================================================
// Anvil Core Type Definitions
// ============================================================================
//
// Package: pkg/types
// Purpose: Core domain models shared by every subsystem (registry, scheduler,
// coordinator, worker runtime, transport)
//
// Design Principles:
//   1. Domain-Driven Design (DDD) - Business concepts as types
//   2. Type Safety - Custom types prevent primitive obsession
//   3. JSON Serialization - Full serialization support for WAL/snapshot/wire
//
// Core Types:
//   - JobID: 128-bit job identifier (UUID v4)
//   - TaskID: per-job task identifier, zero reserved as the idle sentinel
//   - Digest: 16-byte MD5 content digest
//   - ClassArtifact: an immutable named byte artifact plus its digest
//   - TaskDescription: one unit of dispatched work
//   - JobState / JobStatusEvent: lifecycle and status-stream types
//
// ============================================================================

// Package types defines core domain models for the job coordination system.
package types

import (
	"crypto/md5"
	"encoding/hex"

	"github.com/google/uuid"
)

// JobID uniquely identifies a job. The zero value (uuid.Nil) is never a real
// job; it is reused as the jobId of the idle task descriptor.
type JobID = uuid.UUID

// NilJobID is the reserved sentinel used by the idle task.
var NilJobID = uuid.Nil

// NewJobID generates a fresh random (v4) job identifier.
func NewJobID() JobID {
	return uuid.New()
}

// TaskID identifies a task within its job. Zero is reserved for the idle
// task; every real task id is non-zero.
type TaskID int32

// IdleTaskID is the distinguished task id carried by the idle task.
const IdleTaskID TaskID = 0

// Digest is a 16-byte MD5 content digest.
type Digest [16]byte

// DigestOf computes the MD5 digest of bytes. digestAlgorithm is fixed to MD5
// for wire compatibility (see configuration keys).
func DigestOf(b []byte) Digest {
	return md5.Sum(b)
}

// String renders a digest as lowercase hex, for cache keys and logging.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// ClassArtifact is an immutable, user-supplied byte artifact identified by
// name and content digest. Invariant: Digest == DigestOf(Bytes).
type ClassArtifact struct {
	Name   string `json:"name"`
	Bytes  []byte `json:"bytes"`
	Digest Digest `json:"digest"`
}

// NewClassArtifact builds an artifact and computes its digest.
func NewClassArtifact(name string, bytes []byte) ClassArtifact {
	data := append([]byte(nil), bytes...)
	return ClassArtifact{Name: name, Bytes: data, Digest: DigestOf(data)}
}

// TaskDescription is one unit of dispatched work: created when the
// coordinator stamps (jobId, taskId) onto a task payload, destroyed when the
// scheduler removes it after result submission (or when its job is
// cancelled or finalized).
type TaskDescription struct {
	JobID   JobID  `json:"job_id"`
	TaskID  TaskID `json:"task_id"`
	Payload []byte `json:"payload"`
}

// IsIdle reports whether this is the reserved idle task descriptor.
func (t TaskDescription) IsIdle() bool {
	return t.JobID == NilJobID && t.TaskID == IdleTaskID
}

// JobState is the lifecycle state of a scheduled job.
type JobState string

const (
	JobPending   JobState = "PENDING"
	JobRunning   JobState = "RUNNING"
	JobComplete  JobState = "COMPLETE"
	JobCancelled JobState = "CANCELLED"
)

// JobStatusEvent is a point-in-time status publication. Events are published
// strictly in EventID order; at most one event per job is retained in the
// status index (the latest).
type JobStatusEvent struct {
	EventID       int64    `json:"event_id"`
	JobID         JobID    `json:"job_id"`
	Description   string   `json:"description"`
	State         JobState `json:"state"`
	Progress      float64  `json:"progress"`
	Indeterminate bool     `json:"indeterminate"`
	StatusText    string   `json:"status_text"`
}
