package wal

// ============================================================================
// WAL Utility Functions
// ============================================================================

import (
	"encoding/json"
	"io"
	"os"
)

// GetLastEvent scans path from the beginning and returns the last
// successfully decoded event, or (nil, ErrEmptyWAL) if the file has no
// events yet. NewWAL calls this on open to resume seq numbering; a WAL that
// silently returned seq=0 after every restart would renumber events and
// defeat the checksum's seq binding, so this has to actually work rather
// than being a placeholder.
func GetLastEvent(path string) (*Event, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrEmptyWAL
		}
		return nil, err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	var last *Event
	for {
		var event Event
		if err := decoder.Decode(&event); err != nil {
			if err == io.EOF {
				break
			}
			return nil, ErrCorruptedWAL
		}
		e := event
		last = &e
	}
	if last == nil {
		return nil, ErrEmptyWAL
	}
	return last, nil
}
