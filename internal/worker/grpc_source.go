// ============================================================================
// Anvil Worker gRPC Source
// ============================================================================
//
// Package: internal/worker
// File: grpc_source.go
// Purpose: Implements Source over a remote Job Coordinator via gRPC, for a
// worker running in its own process/host from the coordinator.
//
// ============================================================================

package worker

import (
	"context"
	"fmt"

	pb "github.com/anvil-run/anvil/api/proto/v1"
	"github.com/anvil-run/anvil/pkg/types"
	"google.golang.org/grpc"
)

// GrpcSource is a Source backed by a remote AnvilService over gRPC.
type GrpcSource struct {
	client pb.AnvilServiceClient
}

// NewGrpcSource wraps an established gRPC connection.
func NewGrpcSource(conn grpc.ClientConnInterface) *GrpcSource {
	return &GrpcSource{client: pb.NewAnvilServiceClient(conn)}
}

func (s *GrpcSource) RequestTask(ctx context.Context) (types.TaskDescription, error) {
	resp, err := s.client.RequestTask(ctx, &pb.Empty{})
	if err != nil {
		return types.TaskDescription{}, fmt.Errorf("rpc requestTask: %w", err)
	}
	jobID, err := parseJobID(resp.JobId)
	if err != nil {
		return types.TaskDescription{}, err
	}
	return types.TaskDescription{
		JobID:   jobID,
		TaskID:  types.TaskID(resp.TaskId),
		Payload: resp.Payload,
	}, nil
}

func (s *GrpcSource) SubmitTaskResults(ctx context.Context, jobID types.JobID, taskID types.TaskID, result []byte) error {
	_, err := s.client.SubmitTaskResults(ctx, &pb.SubmitTaskResultsRequest{
		JobId:  jobID[:],
		TaskId: int32(taskID),
		Result: result,
	})
	if err != nil {
		return fmt.Errorf("rpc submitTaskResults: %w", err)
	}
	return nil
}

func (s *GrpcSource) ReportException(ctx context.Context, jobID types.JobID, taskID types.TaskID, exception string) error {
	_, err := s.client.ReportException(ctx, &pb.ReportExceptionRequest{
		JobId:     jobID[:],
		TaskId:    int32(taskID),
		Exception: exception,
	})
	if err != nil {
		return fmt.Errorf("rpc reportException: %w", err)
	}
	return nil
}

func (s *GrpcSource) GetFinishedTasks(ctx context.Context, jobIDs []types.JobID, taskIDs []types.TaskID) ([]bool, error) {
	req := &pb.GetFinishedTasksRequest{
		JobIds:  make([][]byte, len(jobIDs)),
		TaskIds: make([]int32, len(taskIDs)),
	}
	for i, id := range jobIDs {
		req.JobIds[i] = append([]byte(nil), id[:]...)
	}
	for i, id := range taskIDs {
		req.TaskIds[i] = int32(id)
	}
	resp, err := s.client.GetFinishedTasks(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("rpc getFinishedTasks: %w", err)
	}
	return resp.Finished, nil
}

func (s *GrpcSource) GetTaskExecutor(ctx context.Context, jobID types.JobID) ([]byte, error) {
	resp, err := s.client.GetTaskExecutor(ctx, &pb.GetTaskExecutorRequest{JobId: jobID[:]})
	if err != nil {
		return nil, fmt.Errorf("rpc getTaskExecutor: %w", err)
	}
	return resp.ExecutorBytes, nil
}

func (s *GrpcSource) GetClassDigest(ctx context.Context, name string, jobID types.JobID) (types.Digest, error) {
	resp, err := s.client.GetClassDigest(ctx, &pb.GetClassDigestRequest{Name: name, JobId: jobID[:]})
	if err != nil {
		return types.Digest{}, fmt.Errorf("rpc getClassDigest: %w", err)
	}
	return parseDigest(resp.Digest)
}

func (s *GrpcSource) GetClassBytes(ctx context.Context, digest types.Digest, jobID types.JobID) ([]byte, error) {
	resp, err := s.client.GetClassBytes(ctx, &pb.GetClassBytesRequest{Digest: digest[:], JobId: jobID[:]})
	if err != nil {
		return nil, fmt.Errorf("rpc getClassBytes: %w", err)
	}
	return resp.ClassBytes, nil
}

func parseJobID(b []byte) (types.JobID, error) {
	var id types.JobID
	if len(b) != len(id) {
		return types.NilJobID, fmt.Errorf("malformed job id on wire: got %d bytes, want %d", len(b), len(id))
	}
	copy(id[:], b)
	return id, nil
}

func parseDigest(b []byte) (types.Digest, error) {
	var d types.Digest
	if len(b) != len(d) {
		return d, fmt.Errorf("malformed digest on wire: got %d bytes, want %d", len(b), len(d))
	}
	copy(d[:], b)
	return d, nil
}
