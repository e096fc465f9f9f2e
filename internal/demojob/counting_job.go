// Package demojob provides a minimal, self-contained Job/TaskExecutor pair
// used by the CLI's "submit" command and cmd/demo: SPEC_FULL.md §8's
// "counter job," which splits into N independent tasks labelled 0..N-1, each
// incremented by its executor, summed back together. It exists to give the
// coordinator and worker runtime something real to run end-to-end without
// requiring a user-supplied artifact language, grounded on the teacher's
// cmd/demo job-generation loop (cmd/demo/main.go in the teacher tree
// submitted N trivial jobs to exercise WAL/snapshot recovery; here one job
// fans out into N tasks to exercise the scheduler/worker path instead).
package demojob

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/anvil-run/anvil/internal/coordinator"
	"github.com/anvil-run/anvil/internal/worker"
	"github.com/anvil-run/anvil/pkg/types"
)

// ClassName is the name every demo job and its executor are registered and
// submitted under.
const ClassName = "demojob.counting"

// Spec is the JSON payload a caller passes to SubmitJob: how many tasks to
// fan out, and the integer each task increments. This is SPEC_FULL.md §8's
// "counter job": task i is labelled i, the executor returns task+1, and the
// job sums every result.
type Spec struct {
	TaskCount int   `json:"task_count"`
	Operands  []int `json:"operands"`
}

// CountingJob produces one task per operand, each asking the executor to
// increment it by one, and sums the results as its final output.
type CountingJob struct {
	operands   []int
	produced   int
	sum        int
	completed  int
	workingDir string
}

// NewFactory returns the coordinator.ClassFactory for CountingJob. classBytes
// is ignored (the executor artifact is self-contained Go code, not data);
// jobPayload is the JSON-encoded Spec.
func NewFactory() coordinator.ClassFactory {
	return func(classBytes []byte, jobPayload []byte, workingDir string) (coordinator.Job, error) {
		var spec Spec
		if err := json.Unmarshal(jobPayload, &spec); err != nil {
			return nil, fmt.Errorf("demojob: decode spec: %w", err)
		}
		operands := spec.Operands
		if len(operands) == 0 {
			operands = make([]int, spec.TaskCount)
			for i := range operands {
				operands[i] = i
			}
		}
		return &CountingJob{operands: operands, workingDir: workingDir}, nil
	}
}

func (j *CountingJob) Initialize() error { return nil }

func (j *CountingJob) ProduceNextTask() (payload []byte, ok bool, err error) {
	if j.produced >= len(j.operands) {
		return nil, false, nil
	}
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(int64(j.operands[j.produced])))
	j.produced++
	return buf, true, nil
}

func (j *CountingJob) AcceptResults(taskID types.TaskID, result []byte) (progress float64, err error) {
	if len(result) != 8 {
		return 0, fmt.Errorf("demojob: malformed result for task %d", taskID)
	}
	j.sum += int(int64(binary.BigEndian.Uint64(result)))
	j.completed++
	return float64(j.completed) / float64(len(j.operands)), nil
}

func (j *CountingJob) IsComplete() bool {
	return j.completed >= len(j.operands)
}

// Finish writes the job's summed total into output.txt in its working
// directory, per SPEC_FULL.md §8's worked example ("<outputDir>/<jobId>.zip
// ... contains output.txt with content "55\n""); finalize zips this
// directory right after Finish returns.
func (j *CountingJob) Finish() error {
	if j.workingDir == "" {
		return nil
	}
	if err := os.MkdirAll(j.workingDir, 0o755); err != nil {
		return fmt.Errorf("demojob: create working dir: %w", err)
	}
	path := filepath.Join(j.workingDir, "output.txt")
	return os.WriteFile(path, []byte(fmt.Sprintf("%d\n", j.sum)), 0o644)
}

func (j *CountingJob) SaveState(sink io.Writer) error {
	_, err := fmt.Fprintf(sink, "%d %d %d\n", j.produced, j.sum, j.completed)
	return err
}

func (j *CountingJob) RestoreState(source io.Reader) error {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(source); err != nil {
		return err
	}
	var produced, sum, completed int
	if _, err := fmt.Sscanf(buf.String(), "%d %d %d\n", &produced, &sum, &completed); err != nil {
		return err
	}
	j.produced, j.sum, j.completed = produced, sum, completed
	return nil
}

// TaskExecutor returns the well-known marker bytes for the increment
// executor; there is nothing job-specific to serialize since the executor
// has no state of its own.
func (j *CountingJob) TaskExecutor() ([]byte, error) {
	return []byte(ClassName), nil
}

// Sum returns the running total of incremented operands accepted so far.
// Exposed for the CLI/demo to report a final answer; not part of the Job
// capability.
func (j *CountingJob) Sum() int { return j.sum }

// incrementExecutor adds 1 to an 8-byte big-endian int64 payload, per
// SPEC_FULL.md §8's counter job ("executor returns task+1").
type incrementExecutor struct{}

func (incrementExecutor) Execute(ctx context.Context, payload []byte, progress worker.ProgressReporter) ([]byte, error) {
	if len(payload) != 8 {
		return nil, fmt.Errorf("demojob: malformed task payload")
	}
	n := int64(binaryBigEndianUint64(payload))
	progress.ReportProgress(1)
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, uint64(n+1))
	return out, nil
}

func binaryBigEndianUint64(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}

// ExecutorFactory is the worker.ExecutorFactory for ClassName: it ignores
// the fetched executor bytes (the marker written by TaskExecutor above) and
// always returns the same stateless incrementExecutor.
func ExecutorFactory(executorBytes []byte) (worker.TaskExecutor, error) {
	if string(executorBytes) != ClassName {
		return nil, fmt.Errorf("demojob: unrecognized executor artifact %q", executorBytes)
	}
	return incrementExecutor{}, nil
}

// ParseOperandArg parses a CLI "1,2,3" style operand list into a Spec. An
// empty string defaults to SPEC_FULL.md §8's canonical scenario: N=10 tasks
// labelled 0..9, which sums to 55 through incrementExecutor.
func ParseOperandArg(raw string) (Spec, error) {
	if raw == "" {
		return Spec{TaskCount: 10}, nil
	}
	var spec Spec
	start := 0
	for i := 0; i <= len(raw); i++ {
		if i == len(raw) || raw[i] == ',' {
			if i > start {
				n, err := strconv.Atoi(raw[start:i])
				if err != nil {
					return Spec{}, fmt.Errorf("demojob: invalid operand %q: %w", raw[start:i], err)
				}
				spec.Operands = append(spec.Operands, n)
			}
			start = i + 1
		}
	}
	return spec, nil
}
