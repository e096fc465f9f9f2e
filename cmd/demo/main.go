// ============================================================================
// Anvil Demo - single-process coordinator + worker pool
// ============================================================================
//
// Usage: go run ./cmd/demo <start|recover>
//
// "start" submits a handful of demo counting jobs against a fresh
// coordinator and lets an in-process worker pool process them, printing
// status as it goes. "recover" re-opens the same WAL/snapshot directories
// used by a prior "start" run and reports what Recover() rebuilt.
//
// ============================================================================

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anvil-run/anvil/internal/coordinator"
	"github.com/anvil-run/anvil/internal/demojob"
	"github.com/anvil-run/anvil/internal/metrics"
	"github.com/anvil-run/anvil/internal/snapshot"
	"github.com/anvil-run/anvil/internal/storage/wal"
	"github.com/anvil-run/anvil/internal/worker"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: go run ./cmd/demo <start|recover>")
		os.Exit(1)
	}
	mode := os.Args[1]
	logger := slog.Default()

	const walDir = "demo-data/wal"
	const snapDir = "demo-data/snapshots"
	const outDir = "demo-data/jobs"

	walInstance, err := wal.NewWAL(walDir, true, 256, 0)
	if err != nil {
		logger.Error("open WAL", "error", err)
		os.Exit(1)
	}
	snapManager := snapshot.NewManager(snapDir)

	coord := coordinator.New(coordinator.Config{
		WorkingDirBase: outDir,
		OutputDir:      outDir,
		IdleSeconds:    5,
		Logger:         logger,
		Metrics:        metrics.NewCollector(),
		WAL:            walInstance,
		Snapshot:       snapManager,
	})
	coord.RegisterClass(demojob.ClassName, demojob.NewFactory())

	if mode == "recover" {
		if err := coord.Recover(); err != nil {
			logger.Error("recover", "error", err)
			os.Exit(1)
		}
		fmt.Println("recovery complete; job table rebuilt from snapshot + WAL replay")
		return
	}

	pool := worker.NewPool(worker.Config{
		WorkerCount:       4,
		FinishedTaskPollT: 2 * time.Second,
		Source:            worker.NewLocalSource(coord),
		ExecutorFactory:   demojob.ExecutorFactory,
		Logger:            logger,
	})
	if err := pool.Start(); err != nil {
		logger.Error("start worker pool", "error", err)
		os.Exit(1)
	}
	defer pool.Stop()

	for i := 0; i < 5; i++ {
		spec, _ := demojob.ParseOperandArg("")
		payload, _ := json.Marshal(spec)

		id, err := coord.CreateJob(fmt.Sprintf("demo job %d", i))
		if err != nil {
			logger.Error("createJob", "error", err)
			continue
		}
		if err := coord.SubmitJob(id, demojob.ClassName, payload); err != nil {
			logger.Error("submitJob", "job", id, "error", err)
			continue
		}
		fmt.Printf("submitted job %s\n", id)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	select {
	case <-sigChan:
		fmt.Println("received shutdown signal")
	case <-ctx.Done():
		fmt.Println("demo window elapsed")
	}
}
