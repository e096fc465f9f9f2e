// ============================================================================
// Anvil Worker Job Source
// ============================================================================
//
// Package: internal/worker
// File: source.go
// Purpose: Abstracts the coordinator RPC surface the worker calls, so the
// same Pool/Worker code runs a single-process demo over a direct Go call or
// a distributed deployment over gRPC (grpc_source.go).
//
// ============================================================================

package worker

import (
	"context"

	"github.com/anvil-run/anvil/pkg/types"
)

// Source is the worker's view of the Job Coordinator's operation contract
// (SPEC_FULL.md §4.3/§4.5): request work, report outcomes, resolve classes.
type Source interface {
	RequestTask(ctx context.Context) (types.TaskDescription, error)
	SubmitTaskResults(ctx context.Context, jobID types.JobID, taskID types.TaskID, result []byte) error
	ReportException(ctx context.Context, jobID types.JobID, taskID types.TaskID, exception string) error
	GetFinishedTasks(ctx context.Context, jobIDs []types.JobID, taskIDs []types.TaskID) ([]bool, error)
	GetTaskExecutor(ctx context.Context, jobID types.JobID) ([]byte, error)
	GetClassDigest(ctx context.Context, name string, jobID types.JobID) (types.Digest, error)
	GetClassBytes(ctx context.Context, digest types.Digest, jobID types.JobID) ([]byte, error)
}

// coordinatorOps is the subset of *coordinator.Coordinator that LocalSource
// needs. Declared locally (rather than importing the coordinator package
// directly into an exported field) so the worker package stays usable
// against any in-process object satisfying the same operations.
type coordinatorOps interface {
	RequestTask() types.TaskDescription
	SubmitTaskResults(jobID types.JobID, taskID types.TaskID, result []byte)
	ReportException(jobID types.JobID, taskID types.TaskID, exception string)
	GetFinishedTasks(jobIDs []types.JobID, taskIDs []types.TaskID) ([]bool, error)
	GetTaskExecutor(jobID types.JobID) ([]byte, error)
	GetClassDigest(name string, jobID types.JobID) (types.Digest, error)
	GetClassBytes(digest types.Digest, jobID types.JobID) ([]byte, error)
}

// LocalSource adapts an in-process Coordinator to the Source interface, for
// single-binary demos and tests where worker and coordinator share an
// address space and no transport is involved.
type LocalSource struct {
	coord coordinatorOps
}

// NewLocalSource wraps coord for in-process use.
func NewLocalSource(coord coordinatorOps) *LocalSource {
	return &LocalSource{coord: coord}
}

func (s *LocalSource) RequestTask(ctx context.Context) (types.TaskDescription, error) {
	return s.coord.RequestTask(), nil
}

func (s *LocalSource) SubmitTaskResults(ctx context.Context, jobID types.JobID, taskID types.TaskID, result []byte) error {
	s.coord.SubmitTaskResults(jobID, taskID, result)
	return nil
}

func (s *LocalSource) ReportException(ctx context.Context, jobID types.JobID, taskID types.TaskID, exception string) error {
	s.coord.ReportException(jobID, taskID, exception)
	return nil
}

func (s *LocalSource) GetFinishedTasks(ctx context.Context, jobIDs []types.JobID, taskIDs []types.TaskID) ([]bool, error) {
	return s.coord.GetFinishedTasks(jobIDs, taskIDs)
}

func (s *LocalSource) GetTaskExecutor(ctx context.Context, jobID types.JobID) ([]byte, error) {
	return s.coord.GetTaskExecutor(jobID)
}

func (s *LocalSource) GetClassDigest(ctx context.Context, name string, jobID types.JobID) (types.Digest, error) {
	return s.coord.GetClassDigest(name, jobID)
}

func (s *LocalSource) GetClassBytes(ctx context.Context, digest types.Digest, jobID types.JobID) ([]byte, error) {
	return s.coord.GetClassBytes(digest, jobID)
}
