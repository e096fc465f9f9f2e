package server

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pb "github.com/anvil-run/anvil/api/proto/v1"
	"github.com/anvil-run/anvil/internal/apierrors"
	"github.com/anvil-run/anvil/internal/coordinator"
	"github.com/anvil-run/anvil/internal/demojob"
	"github.com/anvil-run/anvil/pkg/types"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	coord := coordinator.New(coordinator.Config{
		WorkingDirBase: t.TempDir(),
		OutputDir:      t.TempDir(),
		IdleSeconds:    1,
	})
	coord.RegisterClass(demojob.ClassName, demojob.NewFactory())
	return NewServer(coord)
}

func TestServer_CreateAndSubmitJob(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	created, err := srv.CreateJob(ctx, &pb.CreateJobRequest{Description: "test job"})
	require.NoError(t, err)
	require.Len(t, created.JobId, 16)

	spec, err := json.Marshal(demojob.Spec{TaskCount: 2})
	require.NoError(t, err)

	_, err = srv.SubmitJob(ctx, &pb.SubmitJobRequest{
		JobId:         created.JobId,
		ClassName:     demojob.ClassName,
		SerializedJob: spec,
	})
	require.NoError(t, err)
}

func TestServer_SubmitJob_UnknownJobFails(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	_, err := srv.SubmitJob(ctx, &pb.SubmitJobRequest{
		JobId:     make([]byte, 16),
		ClassName: demojob.ClassName,
	})
	assert.Error(t, err)
}

func TestServer_SubmitJob_MalformedJobIDFails(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	_, err := srv.SubmitJob(ctx, &pb.SubmitJobRequest{
		JobId:     []byte{1, 2, 3},
		ClassName: demojob.ClassName,
	})
	assert.Error(t, err)
}

func TestServer_RequestTaskAndSubmitResults(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	created, err := srv.CreateJob(ctx, &pb.CreateJobRequest{Description: "fan out"})
	require.NoError(t, err)

	spec, err := json.Marshal(demojob.Spec{Operands: []int{7}})
	require.NoError(t, err)
	_, err = srv.SubmitJob(ctx, &pb.SubmitJobRequest{
		JobId:         created.JobId,
		ClassName:     demojob.ClassName,
		SerializedJob: spec,
	})
	require.NoError(t, err)

	task, err := srv.RequestTask(ctx, &pb.Empty{})
	require.NoError(t, err)
	require.Equal(t, created.JobId, task.JobId)
	require.NotZero(t, task.TaskId)

	executorResp, err := srv.GetTaskExecutor(ctx, &pb.GetTaskExecutorRequest{JobId: task.JobId})
	require.NoError(t, err)
	assert.Equal(t, []byte(demojob.ClassName), executorResp.ExecutorBytes)

	_, err = srv.SubmitTaskResults(ctx, &pb.SubmitTaskResultsRequest{
		JobId:  task.JobId,
		TaskId: task.TaskId,
		Result: []byte{0, 0, 0, 0, 0, 0, 0, 14},
	})
	require.NoError(t, err)
}

func TestServer_ReportException(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	created, err := srv.CreateJob(ctx, &pb.CreateJobRequest{Description: "will fail"})
	require.NoError(t, err)

	spec, _ := json.Marshal(demojob.Spec{Operands: []int{1}})
	_, err = srv.SubmitJob(ctx, &pb.SubmitJobRequest{
		JobId:         created.JobId,
		ClassName:     demojob.ClassName,
		SerializedJob: spec,
	})
	require.NoError(t, err)

	task, err := srv.RequestTask(ctx, &pb.Empty{})
	require.NoError(t, err)

	_, err = srv.ReportException(ctx, &pb.ReportExceptionRequest{
		JobId:     task.JobId,
		TaskId:    task.TaskId,
		Exception: "executor panicked",
	})
	assert.NoError(t, err)
}

func TestServer_CancelJob(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	created, err := srv.CreateJob(ctx, &pb.CreateJobRequest{Description: "to cancel"})
	require.NoError(t, err)

	_, err = srv.CancelJob(ctx, &pb.CancelJobRequest{JobId: created.JobId})
	assert.NoError(t, err)
}

func TestServer_GetFinishedTasks_LengthMismatch(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	_, err := srv.GetFinishedTasks(ctx, &pb.GetFinishedTasksRequest{
		JobIds:  [][]byte{make([]byte, 16)},
		TaskIds: []int32{1, 2},
	})
	assert.Error(t, err)
}

func TestServer_WaitForStatusChange_AnyJob(t *testing.T) {
	srv := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := srv.CreateJob(ctx, &pb.CreateJobRequest{Description: "observed"})
	require.NoError(t, err)

	resp, err := srv.WaitForStatusChange(ctx, &pb.WaitForStatusChangeRequest{
		LastEventId: -1,
		TimeoutMs:   500,
	})
	require.NoError(t, err)
	assert.True(t, resp.Found)
	assert.Equal(t, string(types.JobPending), resp.Event.State)
}

func TestServer_WaitForStatusChange_SpecificJobNotFound(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	_, err := srv.WaitForStatusChange(ctx, &pb.WaitForStatusChangeRequest{
		JobId:       make([]byte, 16),
		LastEventId: -1,
		TimeoutMs:   0,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apierrors.ErrUnknownJob)
}

func TestServer_SetIdleTimeAndPriority(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	_, err := srv.SetIdleTime(ctx, &pb.SetIdleTimeRequest{Seconds: 3})
	assert.NoError(t, err)

	created, err := srv.CreateJob(ctx, &pb.CreateJobRequest{Description: "priority"})
	require.NoError(t, err)

	_, err = srv.SetJobPriority(ctx, &pb.SetJobPriorityRequest{JobId: created.JobId, Priority: 5})
	assert.NoError(t, err)
}

func TestParseJobID_RejectsWrongLength(t *testing.T) {
	_, err := parseJobID([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestParseDigest_RejectsWrongLength(t *testing.T) {
	_, err := parseDigest([]byte{1, 2, 3})
	assert.Error(t, err)
}
