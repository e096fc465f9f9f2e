// ============================================================================
// Anvil CLI - Command Line Interface
// ============================================================================
//
// Package: internal/cli
// File: cli.go
// Purpose: Cobra command tree for the Job Coordinator and Worker Runtime
// binaries, plus a thin admin client for submitting demo jobs.
//
// Command Structure:
//   anvil
//   ├── serve                 # Start the Job Coordinator + gRPC server
//   ├── worker                # Start a Worker Runtime pool against a coordinator
//   ├── submit                # Submit a demojob to a running coordinator
//   └── status                # Poll a job's latest status event
//
// Configuration is a YAML file matching every key in SPEC_FULL.md §6. Of
// those keys only maxWorkers has a flag override (worker --workers); the
// other subcommand flags set values that are not in the YAML file.
//
// ============================================================================

package cli

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	pb "github.com/anvil-run/anvil/api/proto/v1"
	"github.com/anvil-run/anvil/internal/apierrors"
	"github.com/anvil-run/anvil/internal/coordinator"
	"github.com/anvil-run/anvil/internal/demojob"
	"github.com/anvil-run/anvil/internal/metrics"
	"github.com/anvil-run/anvil/internal/server"
	"github.com/anvil-run/anvil/internal/snapshot"
	"github.com/anvil-run/anvil/internal/storage/wal"
	"github.com/anvil-run/anvil/internal/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"gopkg.in/yaml.v3"
)

// Config is the full on-disk configuration, matching SPEC_FULL.md §6's
// enumerated key list.
type Config struct {
	OutputDirectory           string `yaml:"outputDirectory"`
	MaxWorkers                int    `yaml:"maxWorkers"`
	IdleSeconds               int    `yaml:"idleSeconds"`
	PollingIntervalSeconds    int    `yaml:"pollingIntervalSeconds"`
	FinishedTaskPollingMillis int    `yaml:"finishedTaskPollingMillis"`
	ReconnectIntervalMillis   int    `yaml:"reconnectIntervalMillis"`
	MaxCachedExecutors        int    `yaml:"maxCachedExecutors"`
	DefaultJobPriority        int    `yaml:"defaultJobPriority"`
	DigestAlgorithm           string `yaml:"digestAlgorithm"`

	WAL struct {
		Dir        string `yaml:"dir"`
		BufferSize int    `yaml:"bufferSize"`
	} `yaml:"wal"`

	Snapshot struct {
		Dir string `yaml:"dir"`
	} `yaml:"snapshot"`

	Metrics struct {
		Enabled bool `yaml:"enabled"`
		Port    int  `yaml:"port"`
	} `yaml:"metrics"`
}

func defaultConfig() Config {
	var cfg Config
	cfg.MaxWorkers = 4
	cfg.IdleSeconds = 10
	cfg.PollingIntervalSeconds = 10
	cfg.FinishedTaskPollingMillis = 10000
	cfg.ReconnectIntervalMillis = 60000
	cfg.MaxCachedExecutors = 5
	cfg.DefaultJobPriority = 20
	cfg.DigestAlgorithm = "MD5"
	return cfg
}

var configFile string

// BuildCLI assembles the anvil root command.
func BuildCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "anvil",
		Short: "Anvil: a distributed compute coordinator and worker runtime",
		Long: `Anvil decomposes submitted jobs into tasks, dispatches them to a
fleet of worker processes, and aggregates results behind a crash-recoverable
Job Coordinator.`,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "configs/default.yaml", "config file path")

	rootCmd.AddCommand(buildServeCommand())
	rootCmd.AddCommand(buildWorkerCommand())
	rootCmd.AddCommand(buildSubmitCommand())
	rootCmd.AddCommand(buildStatusCommand())

	return rootCmd
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config YAML: %w", err)
	}
	return cfg, nil
}

// ExitCode maps an error returned from command execution to the process
// exit codes named in SPEC_FULL.md §6: 0 success, 1 transport/auth failure,
// 2 protocol-version mismatch.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, apierrors.ErrProtocolMismatch) {
		return 2
	}
	return 1
}

func buildServeCommand() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Job Coordinator and its gRPC server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}
	cmd.Flags().IntVar(&port, "port", 50051, "port to listen on")
	return cmd
}

func runServe(port int) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	logger := slog.Default()
	collector := metrics.NewCollector()

	var walInstance *wal.WAL
	if cfg.WAL.Dir != "" {
		walInstance, err = wal.NewWAL(cfg.WAL.Dir, true, cfg.WAL.BufferSize, 0)
		if err != nil {
			return fmt.Errorf("open WAL: %w", err)
		}
	}
	var snapManager *snapshot.Manager
	if cfg.Snapshot.Dir != "" {
		snapManager = snapshot.NewManager(cfg.Snapshot.Dir)
	}

	coord := coordinator.New(coordinator.Config{
		WorkingDirBase: cfg.OutputDirectory,
		OutputDir:      cfg.OutputDirectory,
		IdleSeconds:    cfg.IdleSeconds,
		Logger:         logger,
		Metrics:        collector,
		WAL:            walInstance,
		Snapshot:       snapManager,
	})
	coord.RegisterClass(demojob.ClassName, demojob.NewFactory())

	if err := coord.Recover(); err != nil {
		logger.Warn("recovery failed, starting clean", "error", err)
	}

	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
			logger.Info("metrics server listening", "addr", addr)
			if err := http.ListenAndServe(addr, mux); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("%w: listen on port %d: %v", apierrors.ErrTransportFailed, port, err)
	}

	grpcServer := grpc.NewServer()
	pb.RegisterAnvilServiceServer(grpcServer, server.NewServer(coord))

	go func() {
		logger.Info("coordinator gRPC server listening", "port", port)
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("gRPC server stopped", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")
	grpcServer.GracefulStop()
	return nil
}

func buildWorkerCommand() *cobra.Command {
	var coordAddr string
	var count int

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Start a worker pool against a remote coordinator",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorker(coordAddr, count)
		},
	}
	cmd.Flags().StringVar(&coordAddr, "coordinator", "localhost:50051", "coordinator address")
	cmd.Flags().IntVar(&count, "workers", 0, "worker count (0: use config's maxWorkers)")
	return cmd
}

func runWorker(coordAddr string, count int) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}
	if count <= 0 {
		count = cfg.MaxWorkers
	}

	logger := slog.Default()

	conn, err := grpc.NewClient(coordAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("%w: dial %s: %v", apierrors.ErrTransportFailed, coordAddr, err)
	}
	defer conn.Close()

	source := worker.NewGrpcSource(conn)
	pool := worker.NewPool(worker.Config{
		WorkerCount:       count,
		FinishedTaskPollT: time.Duration(cfg.FinishedTaskPollingMillis) * time.Millisecond,
		Source:            source,
		ExecutorFactory:   demojob.ExecutorFactory,
		Logger:            logger,
	})

	if err := pool.Start(); err != nil {
		return fmt.Errorf("start worker pool: %w", err)
	}
	logger.Info("worker pool started", "workers", count, "coordinator", coordAddr)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("stopping worker pool")
	pool.Stop()
	return nil
}

func buildSubmitCommand() *cobra.Command {
	var coordAddr, operands, description string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a demo counting job to a running coordinator",
		RunE: func(cmd *cobra.Command, args []string) error {
			return submitDemoJob(coordAddr, description, operands)
		},
	}
	cmd.Flags().StringVar(&coordAddr, "coordinator", "localhost:50051", "coordinator address")
	cmd.Flags().StringVar(&operands, "operands", "", "comma-separated integers to increment and sum")
	cmd.Flags().StringVar(&description, "description", "demo counting job", "human-readable job description")
	return cmd
}

func submitDemoJob(coordAddr, description, operands string) error {
	spec, err := demojob.ParseOperandArg(operands)
	if err != nil {
		return err
	}
	payload, err := specToJSON(spec)
	if err != nil {
		return err
	}

	conn, err := grpc.NewClient(coordAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("%w: dial %s: %v", apierrors.ErrTransportFailed, coordAddr, err)
	}
	defer conn.Close()
	client := pb.NewAnvilServiceClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	created, err := client.CreateJob(ctx, &pb.CreateJobRequest{Description: description})
	if err != nil {
		return fmt.Errorf("createJob: %w", err)
	}

	if _, err := client.SubmitJob(ctx, &pb.SubmitJobRequest{
		JobId:         created.JobId,
		ClassName:     demojob.ClassName,
		SerializedJob: payload,
	}); err != nil {
		return fmt.Errorf("submitJob: %w", err)
	}

	fmt.Printf("submitted job %x\n", created.JobId)
	return nil
}

func buildStatusCommand() *cobra.Command {
	var coordAddr, jobIDHex string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Poll a job's latest status event",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showStatus(coordAddr, jobIDHex)
		},
	}
	cmd.Flags().StringVar(&coordAddr, "coordinator", "localhost:50051", "coordinator address")
	cmd.Flags().StringVar(&jobIDHex, "job", "", "job id (hex, as printed by submit)")
	cmd.MarkFlagRequired("job")
	return cmd
}

func showStatus(coordAddr, jobIDHex string) error {
	jobID, err := decodeHexJobID(jobIDHex)
	if err != nil {
		return err
	}

	conn, err := grpc.NewClient(coordAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("%w: dial %s: %v", apierrors.ErrTransportFailed, coordAddr, err)
	}
	defer conn.Close()
	client := pb.NewAnvilServiceClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := client.WaitForStatusChange(ctx, &pb.WaitForStatusChangeRequest{
		JobId:       jobID,
		LastEventId: -1,
		TimeoutMs:   0,
	})
	if err != nil {
		return fmt.Errorf("waitForStatusChange: %w", err)
	}
	if !resp.Found {
		fmt.Println("no status event recorded for this job yet")
		return nil
	}

	ev := resp.Event
	fmt.Printf("job %x: state=%s progress=%.0f%% indeterminate=%v text=%q\n",
		ev.JobId, ev.State, ev.Progress*100, ev.Indeterminate, ev.StatusText)
	return nil
}

func specToJSON(spec demojob.Spec) ([]byte, error) {
	return json.Marshal(spec)
}

func decodeHexJobID(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid job id %q: %w", s, err)
	}
	if len(b) != 16 {
		return nil, fmt.Errorf("invalid job id %q: want 16 bytes, got %d", s, len(b))
	}
	return b, nil
}
