package wal

// ============================================================================
// Checksum Calculation
// Responsibility: Calculate and verify CRC32 checksum for WAL events
// ============================================================================

import (
	"hash/crc32"
	"strconv"

	"github.com/anvil-run/anvil/pkg/types"
)

// CalculateChecksum computes the CRC32-IEEE checksum over an event's
// identity fields (type, jobId, taskId, seq) plus its payload. Timestamp is
// excluded since Rotate/replay never need it to agree byte-for-byte.
func CalculateChecksum(eventType EventType, jobID types.JobID, taskID types.TaskID, seq uint64, payload []byte) uint32 {
	data := string(eventType) + jobID.String() + strconv.Itoa(int(taskID)) + strconv.FormatUint(seq, 10)
	crc := crc32.ChecksumIEEE([]byte(data))
	if len(payload) > 0 {
		crc = crc32.Update(crc, crc32.IEEETable, payload)
	}
	return crc
}

// VerifyChecksum recomputes event's checksum and compares it to the stored
// value.
func VerifyChecksum(event Event) bool {
	expected := CalculateChecksum(event.Type, event.JobID, event.TaskID, event.Seq, event.Payload)
	return event.Checksum == expected
}
