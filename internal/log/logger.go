package log

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Format selects the log line encoding.
type Format string

const (
	// FormatText writes logfmt-style key=value lines.
	FormatText Format = "text"
	// FormatJSON writes one JSON object per line.
	FormatJSON Format = "json"
)

// ParseFormat parses a --log-format value. The empty string means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown log format %q (expected text or json)", s)
	}
}

// Options configures New.
type Options struct {
	// Verbose logs at Debug level instead of Warn.
	Verbose bool

	// Format is the line encoding; empty means text.
	Format Format

	// MaxValueLen clips string values; zero uses DefaultMaxValueLen and a
	// negative value disables clipping.
	MaxValueLen int
}

// New returns a logger that writes scrubbed records to w.
func New(w io.Writer, opts Options) *slog.Logger {
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	hopts := &slog.HandlerOptions{Level: level}

	var inner slog.Handler
	if opts.Format == FormatJSON {
		inner = slog.NewJSONHandler(w, hopts)
	} else {
		inner = slog.NewTextHandler(w, hopts)
	}

	h := NewSecureHandler(inner)
	switch {
	case opts.MaxValueLen > 0:
		h.maxValueLen = opts.MaxValueLen
	case opts.MaxValueLen < 0:
		h.maxValueLen = 0
	}
	return slog.New(h)
}

// NewSecureLogger returns a scrubbing text logger on w at Warn level, or
// Debug when verbose.
func NewSecureLogger(w io.Writer, verbose bool) *slog.Logger {
	return New(w, Options{Verbose: verbose})
}
