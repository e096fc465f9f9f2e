// ============================================================================
// Anvil Counter Job Scenario Test
// ============================================================================
//
// Package: test/integration
// file: counter_job_test.go
// functionality: exercises SPEC_FULL.md §8's canonical "counter job" scenario
// end to end: N=10 tasks labelled 0..9, an executor that returns task+1, a
// final sum of 55, and a zip archive at <outputDir>/<jobId>.zip containing
// output.txt with that sum.
//
// ============================================================================

package integration

import (
	"archive/zip"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/anvil-run/anvil/internal/coordinator"
	"github.com/anvil-run/anvil/internal/demojob"
	"github.com/anvil-run/anvil/internal/worker"
	"github.com/anvil-run/anvil/pkg/types"
)

func TestCounterJobScenario_SingleWorkerSumsToFiftyFive(t *testing.T) {
	outputDir := t.TempDir()

	coord := coordinator.New(coordinator.Config{
		WorkingDirBase: t.TempDir(),
		OutputDir:      outputDir,
		IdleSeconds:    1,
	})
	coord.RegisterClass(demojob.ClassName, demojob.NewFactory())

	pool := worker.NewPool(worker.Config{
		WorkerCount:       1,
		FinishedTaskPollT: 50 * time.Millisecond,
		Source:            worker.NewLocalSource(coord),
		ExecutorFactory:   demojob.ExecutorFactory,
	})
	require.NoError(t, pool.Start())
	defer pool.Stop()

	spec, err := demojob.ParseOperandArg("")
	require.NoError(t, err)
	require.Equal(t, 10, spec.TaskCount)

	payload, err := json.Marshal(spec)
	require.NoError(t, err)

	id, err := coord.CreateJob("counter job scenario")
	require.NoError(t, err)
	require.NoError(t, coord.SubmitJob(id, demojob.ClassName, payload))

	state := waitForTerminal(t, coord, id, 5*time.Second)
	require.Equal(t, types.JobComplete, state)

	final, err := coord.WaitForStatusChangeJob(context.Background(), id, -1, 0)
	require.NoError(t, err)
	require.NotNil(t, final)
	require.Equal(t, types.JobComplete, final.State)
	require.Equal(t, float64(1), final.Progress)

	zipPath := filepath.Join(outputDir, id.String()+".zip")
	zr, err := zip.OpenReader(zipPath)
	require.NoError(t, err, "finalize should have archived the job's working dir to %s", zipPath)
	defer zr.Close()

	var outputFile *zip.File
	for _, f := range zr.File {
		if f.Name == "output.txt" {
			outputFile = f
			break
		}
	}
	require.NotNil(t, outputFile, "zip archive should contain output.txt")

	rc, err := outputFile.Open()
	require.NoError(t, err)
	defer rc.Close()
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "55\n", string(content))
}
