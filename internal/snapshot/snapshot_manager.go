// ============================================================================
// Anvil Snapshot Manager - Job Table Persistence
// ============================================================================
//
// Package: internal/snapshot
// File: snapshot_manager.go
// Purpose: Periodic job-table state saves for fast crash recovery
//
// Snapshot Strategy: periodic snapshots + WAL. Recovery loads the latest
// snapshot, then internal/storage/wal.Replay applies whatever events were
// appended after LastSeq.
//
// Atomic Writes: temp file + os.Rename (POSIX-atomic), so a crash mid-write
// leaves either the old snapshot or nothing — never a half-written one.
//
// ============================================================================

package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/anvil-run/anvil/pkg/types"
)

var (
	ErrCorruptedSnapshot   = errors.New("snapshot file is corrupted")
	ErrIncompatibleVersion = errors.New("snapshot schema version is incompatible")
)

const schemaVersion = 1

// JobRecord is the persisted view of one ScheduledJob: enough to restore
// the job table's bookkeeping and the scheduler's queue. It does not carry
// the live Job object — Go has no generic serialization for an arbitrary
// interface value, so full job-state recovery relies on that job's own
// SaveState/RestoreState bytes, carried here as opaque JobState.
type JobRecord struct {
	ID          types.JobID    `json:"id"`
	Description string         `json:"description"`
	State       types.JobState `json:"state"`
	ClassName   string         `json:"class_name"`
	JobState    []byte         `json:"job_state,omitempty"`
}

// SnapshotData is the full on-disk snapshot of coordinator state.
type SnapshotData struct {
	Jobs      map[types.JobID]*JobRecord `json:"jobs"`
	SchemaVer int                        `json:"schema_ver"`
	LastSeq   uint64                     `json:"last_seq"`
}

// Manager handles snapshot persistence.
type Manager struct {
	path string
	mu   sync.Mutex
}

// NewManager creates a snapshot manager instance.
func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// Write atomically writes a snapshot to disk (temp file, then rename).
func (m *Manager) Write(data SnapshotData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data.SchemaVer = schemaVersion
	jsonBytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	tmpPath := m.path + ".tmp"
	if err := os.WriteFile(tmpPath, jsonBytes, 0o644); err != nil {
		return fmt.Errorf("failed to write temp snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, m.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot from disk. A missing file is not an error: it
// means this is the coordinator's first run, and an empty SnapshotData is
// returned.
func (m *Manager) Load() (SnapshotData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var data SnapshotData
	jsonBytes, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return SnapshotData{Jobs: make(map[types.JobID]*JobRecord), SchemaVer: schemaVersion}, nil
		}
		return data, fmt.Errorf("failed to read snapshot: %w", err)
	}

	if err := json.Unmarshal(jsonBytes, &data); err != nil {
		return data, fmt.Errorf("%w: %v", ErrCorruptedSnapshot, err)
	}
	if data.SchemaVer != schemaVersion {
		return data, fmt.Errorf("%w: got %d, want %d", ErrIncompatibleVersion, data.SchemaVer, schemaVersion)
	}
	if data.Jobs == nil {
		data.Jobs = make(map[types.JobID]*JobRecord)
	}
	return data, nil
}

// Exists reports whether a snapshot file is present.
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.path)
	return err == nil
}

// GetPath returns the snapshot file path.
func (m *Manager) GetPath() string {
	return m.path
}

// WriteWithBackup writes a snapshot, first renaming any existing one aside
// with a timestamp suffix rather than overwriting it outright.
func (m *Manager) WriteWithBackup(data SnapshotData) error {
	m.mu.Lock()
	if _, err := os.Stat(m.path); err == nil {
		backupPath := fmt.Sprintf("%s.%s", m.path, time.Now().Format("20060102_150405"))
		if err := os.Rename(m.path, backupPath); err != nil {
			m.mu.Unlock()
			return fmt.Errorf("failed to backup old snapshot: %w", err)
		}
	}
	m.mu.Unlock()
	return m.Write(data)
}
