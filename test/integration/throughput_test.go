package integration

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/anvil-run/anvil/internal/coordinator"
	"github.com/anvil-run/anvil/internal/demojob"
	"github.com/anvil-run/anvil/internal/worker"
)

func BenchmarkThroughput(b *testing.B) {
	coord := coordinator.New(coordinator.Config{
		WorkingDirBase: b.TempDir(),
		OutputDir:      b.TempDir(),
		IdleSeconds:    1,
	})
	coord.RegisterClass(demojob.ClassName, demojob.NewFactory())

	pool := worker.NewPool(worker.Config{
		WorkerCount:       8,
		FinishedTaskPollT: 200 * time.Millisecond,
		Source:            worker.NewLocalSource(coord),
		ExecutorFactory:   demojob.ExecutorFactory,
	})
	require.NoError(b, pool.Start())
	defer pool.Stop()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		spec := demojob.Spec{TaskCount: 2}
		payload, err := json.Marshal(spec)
		require.NoError(b, err)

		id, err := coord.CreateJob(fmt.Sprintf("bench-job-%d", i))
		require.NoError(b, err)
		require.NoError(b, coord.SubmitJob(id, demojob.ClassName, payload))
	}
	b.StopTimer()
}
