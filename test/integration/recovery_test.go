// ============================================================================
// Anvil Recovery Test Suite
// ============================================================================
//
// Package: test/integration
// file: recovery_test.go
// functionality: end-to-end job lifecycle and crash-recovery tests
//
// test objectives:
//   verify the coordinator/worker pipeline under normal operation:
//   1. jobs successfully created and submitted
//   2. a worker pool fans each job out into tasks and executes them
//   3. job status transitions to COMPLETE
//   4. a fresh coordinator recovers the job table from WAL + snapshot
//
// ============================================================================

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/anvil-run/anvil/internal/apierrors"
	"github.com/anvil-run/anvil/internal/coordinator"
	"github.com/anvil-run/anvil/internal/demojob"
	"github.com/anvil-run/anvil/internal/metrics"
	"github.com/anvil-run/anvil/internal/snapshot"
	"github.com/anvil-run/anvil/internal/storage/wal"
	"github.com/anvil-run/anvil/internal/worker"
	"github.com/anvil-run/anvil/pkg/types"
)

// submitDemoJobs creates count demo counting jobs against coord and returns
// their ids.
func submitDemoJobs(t *testing.T, coord *coordinator.Coordinator, count int) []types.JobID {
	t.Helper()
	ids := make([]types.JobID, 0, count)
	for i := 0; i < count; i++ {
		spec := demojob.Spec{TaskCount: 2}
		payload, err := json.Marshal(spec)
		require.NoError(t, err)

		id, err := coord.CreateJob(fmt.Sprintf("recovery-job-%d", i))
		require.NoError(t, err)
		require.NoError(t, coord.SubmitJob(id, demojob.ClassName, payload))
		ids = append(ids, id)
	}
	return ids
}

// waitForTerminal polls jobId's latest status event until it reaches
// COMPLETE or CANCELLED, or the deadline elapses.
func waitForTerminal(t *testing.T, coord *coordinator.Coordinator, jobID types.JobID, deadline time.Duration) types.JobState {
	t.Helper()
	end := time.Now().Add(deadline)
	for time.Now().Before(end) {
		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		ev, err := coord.WaitForStatusChangeJob(ctx, jobID, -1, 200)
		cancel()
		require.NoError(t, err)
		if ev != nil && (ev.State == types.JobComplete || ev.State == types.JobCancelled) {
			return ev.State
		}
		time.Sleep(20 * time.Millisecond)
	}
	return types.JobRunning
}

func newRecoveryCoordinator(t *testing.T, walDir, snapDir string) *coordinator.Coordinator {
	t.Helper()
	walInstance, err := wal.NewWAL(filepath.Join(walDir, "wal.log"), true, 64, 0)
	require.NoError(t, err)
	snapManager := snapshot.NewManager(filepath.Join(snapDir, "snapshot.json"))

	coord := coordinator.New(coordinator.Config{
		WorkingDirBase: t.TempDir(),
		OutputDir:      t.TempDir(),
		IdleSeconds:    1,
		Metrics:        metrics.NewCollector(),
		WAL:            walInstance,
		Snapshot:       snapManager,
	})
	coord.RegisterClass(demojob.ClassName, demojob.NewFactory())
	return coord
}

func TestEndToEndRecovery(t *testing.T) {
	walDir := t.TempDir()
	snapDir := t.TempDir()

	coord := newRecoveryCoordinator(t, walDir, snapDir)

	pool := worker.NewPool(worker.Config{
		WorkerCount:       4,
		FinishedTaskPollT: 50 * time.Millisecond,
		Source:            worker.NewLocalSource(coord),
		ExecutorFactory:   demojob.ExecutorFactory,
	})
	require.NoError(t, pool.Start())

	const jobCount = 20
	ids := submitDemoJobs(t, coord, jobCount)

	completed := 0
	for _, id := range ids {
		if waitForTerminal(t, coord, id, 5*time.Second) == types.JobComplete {
			completed++
		}
	}
	pool.Stop()

	t.Logf("completed %d/%d jobs", completed, jobCount)
	require.GreaterOrEqual(t, completed, jobCount, "all demo jobs should complete without induced failures")
}

// TestRecoverRebuildsJobTable exercises Coordinator.Recover: a coordinator
// crashes mid-flight (its job table is simply discarded, matching an
// unclean process exit) and a fresh coordinator over the same WAL/snapshot
// directories rebuilds a job table entry for every job that was created.
func TestRecoverRebuildsJobTable(t *testing.T) {
	walDir := t.TempDir()
	snapDir := t.TempDir()

	coord1 := newRecoveryCoordinator(t, walDir, snapDir)
	ids := submitDemoJobs(t, coord1, 5)

	coord2 := newRecoveryCoordinator(t, walDir, snapDir)
	require.NoError(t, coord2.Recover())

	for _, id := range ids {
		_, err := coord2.GetClassDigest(demojob.ClassName, id)
		require.NotErrorIs(t, err, apierrors.ErrUnknownJob, "recovered job %s should be present in the rebuilt job table", id)
	}
}
