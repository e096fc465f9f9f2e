package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anvil-run/anvil/internal/apierrors"
)

func TestBuildCLI(t *testing.T) {
	cmd := BuildCLI()

	assert.NotNil(t, cmd)
	assert.Equal(t, "anvil", cmd.Use)

	commands := cmd.Commands()
	assert.Len(t, commands, 4)

	names := make(map[string]bool)
	for _, c := range commands {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["worker"])
	assert.True(t, names["submit"])
	assert.True(t, names["status"])

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "configs/default.yaml", configFlag.DefValue)
}

func TestBuildServeCommand(t *testing.T) {
	cmd := buildServeCommand()
	assert.Equal(t, "serve", cmd.Use)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Flags().Lookup("port"))
}

func TestBuildWorkerCommand(t *testing.T) {
	cmd := buildWorkerCommand()
	assert.Equal(t, "worker", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("coordinator"))
	assert.NotNil(t, cmd.Flags().Lookup("workers"))
}

func TestBuildSubmitCommand(t *testing.T) {
	cmd := buildSubmitCommand()
	assert.Equal(t, "submit", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("operands"))
}

func TestBuildStatusCommand(t *testing.T) {
	cmd := buildStatusCommand()
	assert.Equal(t, "status", cmd.Use)
	jobFlag := cmd.Flags().Lookup("job")
	require.NotNil(t, jobFlag)
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test_config.yaml")

	content := `
outputDirectory: /tmp/anvil-jobs
maxWorkers: 8
idleSeconds: 3
finishedTaskPollingMillis: 5000
maxCachedExecutors: 10
wal:
  dir: /tmp/anvil-wal
  bufferSize: 128
snapshot:
  dir: /tmp/anvil-snap
metrics:
  enabled: true
  port: 9191
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	cfg, err := loadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/anvil-jobs", cfg.OutputDirectory)
	assert.Equal(t, 8, cfg.MaxWorkers)
	assert.Equal(t, 3, cfg.IdleSeconds)
	assert.Equal(t, 5000, cfg.FinishedTaskPollingMillis)
	assert.Equal(t, 10, cfg.MaxCachedExecutors)
	assert.Equal(t, "/tmp/anvil-wal", cfg.WAL.Dir)
	assert.Equal(t, 128, cfg.WAL.BufferSize)
	assert.Equal(t, "/tmp/anvil-snap", cfg.Snapshot.Dir)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 9191, cfg.Metrics.Port)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := loadConfig("/nonexistent/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	require.NoError(t, os.WriteFile(configPath, []byte("maxWorkers: [oops"), 0o644))

	_, err := loadConfig(configPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parse config YAML")
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()
	assert.Equal(t, 4, cfg.MaxWorkers)
	assert.Equal(t, 10, cfg.IdleSeconds)
	assert.Equal(t, 10, cfg.PollingIntervalSeconds)
	assert.Equal(t, 10000, cfg.FinishedTaskPollingMillis)
	assert.Equal(t, 60000, cfg.ReconnectIntervalMillis)
	assert.Equal(t, 5, cfg.MaxCachedExecutors)
	assert.Equal(t, 20, cfg.DefaultJobPriority)
	assert.Equal(t, "MD5", cfg.DigestAlgorithm)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 2, ExitCode(apierrors.ErrProtocolMismatch))
	assert.Equal(t, 1, ExitCode(apierrors.ErrTransportFailed))
	assert.Equal(t, 1, ExitCode(apierrors.ErrUnknownJob))
}

func TestDecodeHexJobID(t *testing.T) {
	_, err := decodeHexJobID("not-hex")
	assert.Error(t, err)

	_, err = decodeHexJobID("aabb")
	assert.Error(t, err, "wrong length should fail")

	b, err := decodeHexJobID("00112233445566778899aabbccddeeff"[:32])
	require.NoError(t, err)
	assert.Len(t, b, 16)
}
