// ============================================================================
// Anvil gRPC Server
// ============================================================================
//
// Package: internal/server
// File: server.go
// Purpose: Adapts the in-process Job Coordinator to AnvilServiceServer,
// translating wire messages to/from the coordinator's native types.
//
// ============================================================================

package server

import (
	"context"
	"fmt"

	pb "github.com/anvil-run/anvil/api/proto/v1"
	"github.com/anvil-run/anvil/internal/coordinator"
	"github.com/anvil-run/anvil/pkg/types"
)

// Server implements pb.AnvilServiceServer over a *coordinator.Coordinator.
type Server struct {
	coord *coordinator.Coordinator
}

// NewServer builds a Server bound to coord.
func NewServer(coord *coordinator.Coordinator) *Server {
	return &Server{coord: coord}
}

func (s *Server) CreateJob(ctx context.Context, req *pb.CreateJobRequest) (*pb.CreateJobResponse, error) {
	id, err := s.coord.CreateJob(req.Description)
	if err != nil {
		return nil, fmt.Errorf("createJob: %w", err)
	}
	return &pb.CreateJobResponse{JobId: id[:]}, nil
}

func (s *Server) SetJobClassDefinition(ctx context.Context, req *pb.SetJobClassDefinitionRequest) (*pb.Empty, error) {
	id, err := parseJobID(req.JobId)
	if err != nil {
		return nil, err
	}
	if err := s.coord.SetJobClassDefinition(id, req.Name, req.Bytes); err != nil {
		return nil, fmt.Errorf("setJobClassDefinition: %w", err)
	}
	return &pb.Empty{}, nil
}

func (s *Server) SubmitJob(ctx context.Context, req *pb.SubmitJobRequest) (*pb.Empty, error) {
	id, err := parseJobID(req.JobId)
	if err != nil {
		return nil, err
	}
	if err := s.coord.SubmitJob(id, req.ClassName, req.SerializedJob); err != nil {
		return nil, fmt.Errorf("submitJob: %w", err)
	}
	return &pb.Empty{}, nil
}

func (s *Server) RequestTask(ctx context.Context, req *pb.Empty) (*pb.TaskDescription, error) {
	task := s.coord.RequestTask()
	return &pb.TaskDescription{
		JobId:   task.JobID[:],
		TaskId:  int32(task.TaskID),
		Payload: task.Payload,
	}, nil
}

func (s *Server) SubmitTaskResults(ctx context.Context, req *pb.SubmitTaskResultsRequest) (*pb.Empty, error) {
	id, err := parseJobID(req.JobId)
	if err != nil {
		return nil, err
	}
	s.coord.SubmitTaskResults(id, types.TaskID(req.TaskId), req.Result)
	return &pb.Empty{}, nil
}

func (s *Server) ReportException(ctx context.Context, req *pb.ReportExceptionRequest) (*pb.Empty, error) {
	id, err := parseJobID(req.JobId)
	if err != nil {
		return nil, err
	}
	s.coord.ReportException(id, types.TaskID(req.TaskId), req.Exception)
	return &pb.Empty{}, nil
}

func (s *Server) GetFinishedTasks(ctx context.Context, req *pb.GetFinishedTasksRequest) (*pb.GetFinishedTasksResponse, error) {
	if len(req.JobIds) != len(req.TaskIds) {
		return nil, fmt.Errorf("getFinishedTasks: job_ids and task_ids length mismatch")
	}
	jobIDs := make([]types.JobID, len(req.JobIds))
	taskIDs := make([]types.TaskID, len(req.TaskIds))
	for i, b := range req.JobIds {
		id, err := parseJobID(b)
		if err != nil {
			return nil, err
		}
		jobIDs[i] = id
		taskIDs[i] = types.TaskID(req.TaskIds[i])
	}
	finished, err := s.coord.GetFinishedTasks(jobIDs, taskIDs)
	if err != nil {
		return nil, fmt.Errorf("getFinishedTasks: %w", err)
	}
	return &pb.GetFinishedTasksResponse{Finished: finished}, nil
}

func (s *Server) GetTaskExecutor(ctx context.Context, req *pb.GetTaskExecutorRequest) (*pb.GetTaskExecutorResponse, error) {
	id, err := parseJobID(req.JobId)
	if err != nil {
		return nil, err
	}
	raw, err := s.coord.GetTaskExecutor(id)
	if err != nil {
		return nil, fmt.Errorf("getTaskExecutor: %w", err)
	}
	return &pb.GetTaskExecutorResponse{ExecutorBytes: raw}, nil
}

func (s *Server) GetClassDigest(ctx context.Context, req *pb.GetClassDigestRequest) (*pb.GetClassDigestResponse, error) {
	id, err := parseJobID(req.JobId)
	if err != nil {
		return nil, err
	}
	digest, err := s.coord.GetClassDigest(req.Name, id)
	if err != nil {
		return nil, fmt.Errorf("getClassDigest: %w", err)
	}
	return &pb.GetClassDigestResponse{Digest: digest[:]}, nil
}

func (s *Server) GetClassBytes(ctx context.Context, req *pb.GetClassBytesRequest) (*pb.GetClassBytesResponse, error) {
	digest, err := parseDigest(req.Digest)
	if err != nil {
		return nil, err
	}
	id, err := parseJobID(req.JobId)
	if err != nil {
		return nil, err
	}
	raw, err := s.coord.GetClassBytes(digest, id)
	if err != nil {
		return nil, fmt.Errorf("getClassBytes: %w", err)
	}
	return &pb.GetClassBytesResponse{ClassBytes: raw}, nil
}

func (s *Server) CancelJob(ctx context.Context, req *pb.CancelJobRequest) (*pb.Empty, error) {
	id, err := parseJobID(req.JobId)
	if err != nil {
		return nil, err
	}
	if err := s.coord.CancelJob(id); err != nil {
		return nil, fmt.Errorf("cancelJob: %w", err)
	}
	return &pb.Empty{}, nil
}

func (s *Server) WaitForStatusChange(ctx context.Context, req *pb.WaitForStatusChangeRequest) (*pb.WaitForStatusChangeResponse, error) {
	var (
		event *types.JobStatusEvent
		err   error
	)
	if len(req.JobId) == 0 {
		event, err = s.coord.WaitForStatusChange(ctx, req.LastEventId, int(req.TimeoutMs))
	} else {
		id, idErr := parseJobID(req.JobId)
		if idErr != nil {
			return nil, idErr
		}
		event, err = s.coord.WaitForStatusChangeJob(ctx, id, req.LastEventId, int(req.TimeoutMs))
	}
	if err != nil {
		return nil, fmt.Errorf("waitForStatusChange: %w", err)
	}
	if event == nil {
		return &pb.WaitForStatusChangeResponse{Found: false}, nil
	}
	return &pb.WaitForStatusChangeResponse{
		Found: true,
		Event: &pb.JobStatusEvent{
			EventId:       event.EventID,
			JobId:         event.JobID[:],
			Description:   event.Description,
			State:         string(event.State),
			Progress:      event.Progress,
			Indeterminate: event.Indeterminate,
			StatusText:    event.StatusText,
		},
	}, nil
}

func (s *Server) SetIdleTime(ctx context.Context, req *pb.SetIdleTimeRequest) (*pb.Empty, error) {
	if err := s.coord.SetIdleTime(int(req.Seconds)); err != nil {
		return nil, fmt.Errorf("setIdleTime: %w", err)
	}
	return &pb.Empty{}, nil
}

func (s *Server) SetJobPriority(ctx context.Context, req *pb.SetJobPriorityRequest) (*pb.Empty, error) {
	id, err := parseJobID(req.JobId)
	if err != nil {
		return nil, err
	}
	if err := s.coord.SetJobPriority(id, int(req.Priority)); err != nil {
		return nil, fmt.Errorf("setJobPriority: %w", err)
	}
	return &pb.Empty{}, nil
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
