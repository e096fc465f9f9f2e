// ============================================================================
// Anvil WAL (Write-Ahead Log) - Write-Ahead Log Implementation
// ============================================================================
//
// Package: internal/storage/wal
// File: wal.go
// Purpose: Crash-recovery log for the Job Coordinator's job table (C3) and
// task scheduler (C2) state.
//
// WAL Concept:
//   Write-Ahead Log is a core technology in database systems:
//   1. Before any state modification, write operation to WAL
//   2. Only modify in-memory state after WAL write succeeds
//   3. Recover state by replaying WAL after crash
//   4. Ensure data won't be lost due to crashes
//
// Recovery Flow:
//   1. Load latest snapshot (internal/snapshot)
//   2. Replay WAL events recorded since that snapshot
//   3. Resume normal operation
//
// Data Format: each record is one JSON-encoded Event (seq, type, jobId,
// taskId, payload, timestamp, checksum).
//
// Batch Write Optimization: events accumulate in a channel-fed buffer and
// are flushed together, trading one fsync per N appends for lower latency
// per caller versus fsync-per-append.
//
// ============================================================================

package wal

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/anvil-run/anvil/pkg/types"
)

// FileInterface defines the methods required for file operations, allowing
// mock files in tests.
type FileInterface interface {
	Write(p []byte) (n int, err error)
	Sync() error
	Close() error
}

// batchRequest represents a single append request with response channel
type batchRequest struct {
	event Event
	errCh chan error
}

// WAL represents a Write-Ahead Log instance
type WAL struct {
	mu      sync.Mutex
	file    FileInterface
	encoder *json.Encoder
	path    string
	seq     uint64

	batchChan     chan batchRequest
	bufferSize    int
	flushInterval time.Duration
	closed        chan struct{}
	wg            sync.WaitGroup
	isClosed      bool
}

// NewWAL creates a new WAL instance with async batch commit.
//
// Parameters:
//   - path: WAL file path
//   - syncOnAppend: unused, kept for call-site compatibility with the
//     teacher's constructor signature; every append is synced as part of
//     its batch regardless.
//   - bufferSize: max events per batch (e.g., 100)
//   - flushInterval: max time between flushes (e.g., 10ms)
func NewWAL(path string, syncOnAppend bool, bufferSize int, flushInterval time.Duration) (*WAL, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create WAL directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open WAL file: %w", err)
	}

	encoder := json.NewEncoder(file)

	var seq uint64
	if lastEvent, err := GetLastEvent(path); err == nil && lastEvent != nil {
		seq = lastEvent.Seq
	} else if err != nil && err != ErrEmptyWAL {
		fmt.Printf("warning: failed to get last WAL event, starting from seq=0: %v\n", err)
	}

	if bufferSize <= 0 {
		bufferSize = 100
	}
	if flushInterval <= 0 {
		flushInterval = 10 * time.Millisecond
	}

	w := &WAL{
		file:    file,
		encoder: encoder,
		path:    path,
		seq:     seq,

		batchChan:     make(chan batchRequest, bufferSize*2),
		bufferSize:    bufferSize,
		flushInterval: flushInterval,
		closed:        make(chan struct{}),
	}

	w.wg.Add(1)
	go w.batchWriter()

	return w, nil
}

// Append appends one event to the log via the async batch writer and
// blocks until that event's batch has been fsynced (or errored). taskID is
// types.IdleTaskID (0) for events that are not task-scoped (job creation,
// class definition, submit, cancel, complete).
func (w *WAL) Append(eventType EventType, jobID types.JobID, taskID types.TaskID, payload []byte) error {
	w.mu.Lock()
	w.seq++
	seq := w.seq
	w.mu.Unlock()

	event := Event{
		Seq:       seq,
		Type:      eventType,
		JobID:     jobID,
		TaskID:    taskID,
		Payload:   payload,
		Timestamp: time.Now().UnixMilli(),
	}
	event.Checksum = CalculateChecksum(eventType, event.JobID, event.TaskID, seq, payload)

	errCh := make(chan error, 1)
	select {
	case w.batchChan <- batchRequest{event: event, errCh: errCh}:
		return <-errCh
	case <-w.closed:
		return ErrWALClosed
	}
}

// Replay reads every event from the start of the file, verifying checksums,
// and calls handler for each in order. It stops at the first corrupted
// record or checksum mismatch.
func (w *WAL) Replay(handler EventHandler) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	file, err := os.Open(w.path)
	if err != nil {
		return fmt.Errorf("failed to open WAL for replay: %w", err)
	}
	defer file.Close()

	counter := &countingReader{r: file}
	decoder := json.NewDecoder(counter)

	for {
		offsetBefore := counter.n
		var event Event
		if err := decoder.Decode(&event); err != nil {
			if err == io.EOF {
				break
			}
			return &CorruptionError{Offset: offsetBefore, Cause: err}
		}

		if !VerifyChecksum(event) {
			return &ChecksumError{Seq: event.Seq}
		}
		if err := handler(&event); err != nil {
			return err
		}
	}
	return nil
}

// countingReader tracks bytes read so Replay can report a useful corruption
// offset.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// Rotate archives the current log file and starts a fresh one at seq=0,
// called after a successful snapshot so the WAL need only cover events
// since that snapshot.
func (w *WAL) Rotate() error {
	w.mu.Lock()
	if w.isClosed {
		w.mu.Unlock()
		return ErrWALClosed
	}
	w.isClosed = true
	w.mu.Unlock()

	close(w.closed)
	w.wg.Wait()

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.file.Close(); err != nil {
		return err
	}

	backupPath := w.path + "." + time.Now().Format("20060102_150405")
	if err := os.Rename(w.path, backupPath); err != nil {
		return err
	}

	newFile, err := os.OpenFile(w.path, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	w.file = newFile
	w.encoder = json.NewEncoder(newFile)
	w.seq = 0

	w.closed = make(chan struct{})
	w.wg.Add(1)
	go w.batchWriter()

	w.isClosed = false
	return nil
}

// batchWriter runs in the background, flushing accumulated batches on
// whichever comes first: bufferSize events, flushInterval elapsing, or
// shutdown.
func (w *WAL) batchWriter() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.flushInterval)
	defer ticker.Stop()

	batch := make([]batchRequest, 0, w.bufferSize)

	for {
		select {
		case req := <-w.batchChan:
			batch = append(batch, req)
			if len(batch) >= w.bufferSize {
				w.flushBatch(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				w.flushBatch(batch)
				batch = batch[:0]
			}
		case <-w.closed:
			if len(batch) > 0 {
				w.flushBatch(batch)
			}
			return
		}
	}
}

// flushBatch writes a batch of events and syncs to disk once: N events, one
// fsync.
func (w *WAL) flushBatch(batch []batchRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var flushErr error
	for i := range batch {
		if err := w.encoder.Encode(batch[i].event); err != nil {
			flushErr = fmt.Errorf("failed to encode event: %w", err)
			break
		}
	}
	if flushErr == nil {
		if err := w.file.Sync(); err != nil {
			flushErr = fmt.Errorf("%w: %v", ErrSyncFailed, err)
		}
	}
	for i := range batch {
		batch[i].errCh <- flushErr
		close(batch[i].errCh)
	}
}

// Close flushes any pending batch and closes the underlying file. The WAL
// must not be used again after Close.
func (w *WAL) Close() error {
	w.mu.Lock()
	if w.isClosed {
		w.mu.Unlock()
		return nil
	}
	w.isClosed = true
	w.mu.Unlock()

	close(w.closed)
	w.wg.Wait()

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

// GetLastSeq returns the current event sequence number, used when taking a
// snapshot to record where replay should resume from.
func (w *WAL) GetLastSeq() uint64 {
	if w == nil {
		return 0
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.seq
}
