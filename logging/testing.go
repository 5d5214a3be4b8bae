// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// LogEntry is one parsed JSON log record.
type LogEntry struct {
	Time    time.Time
	Level   string
	Message string
	Attrs   map[string]any
}

// Buffer is a bytes.Buffer that is safe for concurrent writes.
type Buffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write appends p to the buffer.
func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

// Bytes returns a copy of the buffered data.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	return bytes.Clone(b.buf.Bytes())
}

// String returns the buffered data as a string.
func (b *Buffer) String() string {
	return string(b.Bytes())
}

// NewTestLogger returns a debug-level JSON logger writing into a buffer that
// [ParseJSONLogEntries] can read.
func NewTestLogger() (*slog.Logger, *Buffer) {
	buf := &Buffer{}
	logger := MustNew(
		WithJSONHandler(),
		WithOutput(buf),
		WithLevel(LevelDebug),
	)

	return logger, buf
}

// ParseJSONLogEntries parses the JSON records written to buf so far.
func ParseJSONLogEntries(buf *Buffer) ([]LogEntry, error) {
	var entries []LogEntry

	scanner := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	for scanner.Scan() {
		var raw map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &raw); err != nil {
			return nil, err
		}

		entry := LogEntry{Attrs: make(map[string]any, len(raw))}
		for k, v := range raw {
			switch k {
			case slog.TimeKey:
				if s, ok := v.(string); ok {
					entry.Time, _ = time.Parse(time.RFC3339Nano, s)
				}
			case slog.LevelKey:
				entry.Level = fmt.Sprint(v)
			case slog.MessageKey:
				entry.Message = fmt.Sprint(v)
			default:
				entry.Attrs[k] = v
			}
		}

		entries = append(entries, entry)
	}

	return entries, scanner.Err()
}
