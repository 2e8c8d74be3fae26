// Package parser decodes line-delimited JSON event streams captured from an
// agent CLI. Decoding is best effort: blank lines and lines that are not JSON
// objects are counted and dropped, never reported as errors.
package parser

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrReadInput wraps faults reading the underlying stream.
var ErrReadInput = errors.New("read input")

// RawEvent is one decoded line. Payload holds the whole JSON object,
// including the "type" key; Raw is the trimmed line it was decoded from.
type RawEvent struct {
	Line    int
	Type    string
	Payload map[string]any
	Raw     json.RawMessage
}

// Stats counts what happened to each input line.
type Stats struct {
	Lines     int
	Blank     int
	Malformed int
	Decoded   int
}

// ReadEvents reads r to EOF and returns every line that decoded as a JSON
// object, in input order. The error is non-nil only when r itself fails; the
// events decoded before the fault are still returned.
func ReadEvents(r io.Reader) ([]RawEvent, Stats, error) {
	var (
		events []RawEvent
		stats  Stats
	)

	reader := newReader(r)
	for {
		line, readErr := reader.ReadBytes('\n')
		if len(line) > 0 {
			stats.Lines++
			if event, ok := decodeLine(line, &stats); ok {
				event.Line = stats.Lines
				events = append(events, event)
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return events, stats, nil
			}
			return events, stats, fmt.Errorf("%w: %w", ErrReadInput, readErr)
		}
	}
}

// DecodeLine decodes a single line. ok is false for blank or malformed lines.
func DecodeLine(line []byte) (RawEvent, bool) {
	var stats Stats
	return decodeLine(line, &stats)
}

func decodeLine(line []byte, stats *Stats) (RawEvent, bool) {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		stats.Blank++
		return RawEvent{}, false
	}

	var payload map[string]any
	if err := json.Unmarshal(trimmed, &payload); err != nil || payload == nil {
		stats.Malformed++
		return RawEvent{}, false
	}

	stats.Decoded++
	return RawEvent{
		Type:    GetString(payload, "type"),
		Payload: payload,
		Raw:     json.RawMessage(trimmed),
	}, true
}

func newReader(r io.Reader) *bufio.Reader {
	// Single lines can carry whole file contents or tool output.
	const bufferSize = 1024 * 1024
	return bufio.NewReaderSize(r, bufferSize)
}
