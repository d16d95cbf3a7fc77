package testutil

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// LogRecorder is a slog.Handler that keeps every record's message and
// attributes for assertions.
type LogRecorder struct {
	mu      sync.Mutex
	entries []string
}

// NewLogRecorder returns a recorder and a logger writing to it at all levels.
func NewLogRecorder() (*LogRecorder, *slog.Logger) {
	r := &LogRecorder{}
	return r, slog.New(r)
}

func (r *LogRecorder) Enabled(context.Context, slog.Level) bool { return true }

func (r *LogRecorder) Handle(_ context.Context, rec slog.Record) error {
	var b strings.Builder
	b.WriteString(rec.Message)
	rec.Attrs(func(a slog.Attr) bool {
		b.WriteString(" ")
		b.WriteString(a.String())
		return true
	})
	r.mu.Lock()
	r.entries = append(r.entries, b.String())
	r.mu.Unlock()
	return nil
}

func (r *LogRecorder) WithAttrs([]slog.Attr) slog.Handler { return r }

func (r *LogRecorder) WithGroup(string) slog.Handler { return r }

// Entries returns the recorded lines.
func (r *LogRecorder) Entries() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.entries...)
}

// Count returns how many recorded lines contain substr.
func (r *LogRecorder) Count(substr string) int {
	n := 0
	for _, e := range r.Entries() {
		if strings.Contains(e, substr) {
			n++
		}
	}
	return n
}
