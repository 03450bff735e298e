// Package logging provides leveled logging and query tracing for engram.
// Operational output goes through a leveled slog.Logger; at debug level and
// below, a TraceLogger additionally records every query and reinforcement as
// a JSONL event stream for offline inspection.
package logging

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LevelTrace is a custom slog level below Debug. At this level full seed
// maps and per-edge deltas are included in the trace stream.
const LevelTrace = slog.LevelDebug - 4

// ParseLevel maps a level name to a slog.Level. Supported values: "info",
// "debug", "trace" (case-insensitive); anything else defaults to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a leveled slog.Logger writing to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if l, ok := a.Value.Any().(slog.Level); ok && l == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// TraceLogger appends structured engine events to a JSONL file. A nil
// TraceLogger is valid; all methods are no-ops on a nil receiver, so callers
// never need to branch on whether tracing is enabled.
type TraceLogger struct {
	mu   sync.Mutex
	file *os.File
}

// NewTraceLogger opens dir/trace.jsonl for appending when the level enables
// tracing ("debug" or "trace"). At "info" it returns nil, as it does on any
// open failure.
func NewTraceLogger(dir, level string) *TraceLogger {
	if ParseLevel(level) >= slog.LevelInfo {
		return nil
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil
	}
	f, err := os.OpenFile(filepath.Join(dir, "trace.jsonl"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil
	}
	return &TraceLogger{file: f}
}

// Event writes one trace line of the given kind ("query", "reinforce",
// "compile") with the supplied fields. A timestamp is added; the caller's
// map is not mutated.
func (t *TraceLogger) Event(kind string, fields map[string]any) {
	if t == nil || t.file == nil {
		return
	}

	entry := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		entry[k] = v
	}
	entry["event"] = kind
	entry["time"] = time.Now().UTC().Format(time.RFC3339Nano)

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')

	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = t.file.Write(data)
}

// Close closes the underlying file. Safe on a nil receiver.
func (t *TraceLogger) Close() {
	if t == nil || t.file == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.file.Close()
	t.file = nil
}
