// ============================================================================
// Anvil Performance Test Suite
// ============================================================================
//
// Package: test/integration
// File: performance_test.go
// Functionality: System-level throughput and crash-recovery performance tests
//
// TestSystemThroughput:
//   submit a batch of demo jobs against an 8-worker pool, measure completion
//   time and throughput.
//
// TestRecoveryPerformance:
//   submit a batch of jobs, discard the coordinator (simulating a crash),
//   and measure how long a fresh coordinator takes to rebuild its job table
//   from WAL + snapshot.
//
// ============================================================================

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/anvil-run/anvil/internal/coordinator"
	"github.com/anvil-run/anvil/internal/demojob"
	"github.com/anvil-run/anvil/internal/worker"
	"github.com/anvil-run/anvil/pkg/types"
)

// TestSystemThroughput tests coordinator+worker throughput under load.
func TestSystemThroughput(t *testing.T) {
	coord := newRecoveryCoordinator(t, t.TempDir(), t.TempDir())

	pool := worker.NewPool(worker.Config{
		WorkerCount:       8,
		FinishedTaskPollT: 100 * time.Millisecond,
		Source:            worker.NewLocalSource(coord),
		ExecutorFactory:   demojob.ExecutorFactory,
	})
	if err := pool.Start(); err != nil {
		t.Fatalf("failed to start worker pool: %v", err)
	}
	defer pool.Stop()

	const totalJobs = 200
	startTime := time.Now()
	ids := submitDemoJobs(t, coord, totalJobs)

	completed := 0
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		remaining := ids[:0]
		for _, id := range ids {
			state := pollOnce(t, coord, id)
			if state == types.JobComplete {
				completed++
				continue
			}
			remaining = append(remaining, id)
		}
		ids = remaining
		if len(ids) == 0 {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	elapsedTime := time.Since(startTime)
	throughput := float64(completed) / elapsedTime.Seconds()

	t.Logf("=== Performance Test Results ===")
	t.Logf("Total jobs: %d", totalJobs)
	t.Logf("Completed: %d", completed)
	t.Logf("Elapsed time: %v", elapsedTime)
	t.Logf("Throughput: %.2f jobs/second", throughput)
	t.Logf("================================")

	const expectedThroughput = 5.0
	if throughput < expectedThroughput {
		t.Errorf("throughput %.2f jobs/s is below target of %.2f jobs/s", throughput, expectedThroughput)
	}

	const minCompletionRate = 95
	if completed < totalJobs*minCompletionRate/100 {
		t.Errorf("completion rate too low: %d/%d", completed, totalJobs)
	}
}

// pollOnce returns jobId's current state without blocking for a new event.
func pollOnce(t *testing.T, coord *coordinator.Coordinator, jobID types.JobID) types.JobState {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	ev, err := coord.WaitForStatusChangeJob(ctx, jobID, -1, 0)
	if err != nil || ev == nil {
		return types.JobPending
	}
	return ev.State
}

// TestRecoveryPerformance measures how long it takes a fresh coordinator to
// rebuild its job table from a prior coordinator's WAL and snapshot.
func TestRecoveryPerformance(t *testing.T) {
	walDir := t.TempDir()
	snapDir := t.TempDir()

	coord1 := newRecoveryCoordinator(t, walDir, snapDir)
	for i := 0; i < 500; i++ {
		spec := demojob.Spec{TaskCount: 1}
		payload, err := json.Marshal(spec)
		if err != nil {
			t.Fatalf("marshal spec: %v", err)
		}
		id, err := coord1.CreateJob(fmt.Sprintf("load-job-%d", i))
		if err != nil {
			t.Fatalf("create job: %v", err)
		}
		if err := coord1.SubmitJob(id, demojob.ClassName, payload); err != nil {
			t.Fatalf("submit job: %v", err)
		}
	}

	t.Log("simulating crash: discarding coordinator without a clean shutdown")
	startTime := time.Now()

	coord2 := newRecoveryCoordinator(t, walDir, snapDir)
	if err := coord2.Recover(); err != nil {
		t.Fatalf("recover: %v", err)
	}
	recoveryTime := time.Since(startTime)

	t.Logf("=== Recovery Performance ===")
	t.Logf("Recovery time: %v", recoveryTime)
	t.Logf("===========================")

	if recoveryTime > 3*time.Second {
		t.Errorf("recovery time %v exceeds 3s target", recoveryTime)
	}
}
