// Package status implements the line-oriented status channel consumed
// by front-ends: prefixed human-readable lines plus the single terminal
// FOUND line on success.
package status

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Reporter writes prefixed status lines to a single sink. Lines are
// written whole under a mutex so concurrent workers never interleave,
// and every line is mirrored to the structured logger at debug level.
type Reporter struct {
	mu  sync.Mutex
	w   io.Writer
	log *slog.Logger
}

// New creates a Reporter writing to w. A nil logger disables mirroring.
func New(w io.Writer, log *slog.Logger) *Reporter {
	return &Reporter{w: w, log: log}
}

// Infof emits an INFO: line.
func (r *Reporter) Infof(format string, args ...any) { r.line("INFO:", format, args...) }

// Warnf emits a WARN: line.
func (r *Reporter) Warnf(format string, args ...any) { r.line("WARN:", format, args...) }

// Errorf emits an ERROR: line.
func (r *Reporter) Errorf(format string, args ...any) { r.line("ERROR:", format, args...) }

// Fatalf emits a FATAL: line.
func (r *Reporter) Fatalf(format string, args ...any) { r.line("FATAL:", format, args...) }

// Found emits the terminal FOUND:<password> line.
func (r *Reporter) Found(password string) {
	r.mu.Lock()
	fmt.Fprintf(r.w, "FOUND:%s\n", password)
	r.mu.Unlock()

	if r.log != nil {
		r.log.Debug("password found", "channel", "status")
	}
}

func (r *Reporter) line(prefix, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	r.mu.Lock()
	fmt.Fprintf(r.w, "%s %s\n", prefix, msg)
	r.mu.Unlock()

	if r.log != nil {
		r.log.Debug(msg, "channel", "status", "prefix", prefix)
	}
}
