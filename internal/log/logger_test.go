package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatText},
		{in: "text", want: FormatText},
		{in: " JSON ", want: FormatJSON},
		{in: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNewLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		verbose bool
		log     func(*slog.Logger)
		want    bool
	}{
		{name: "debug hidden", log: func(l *slog.Logger) { l.Debug("msg") }},
		{name: "info hidden", log: func(l *slog.Logger) { l.Info("msg") }},
		{name: "warn shown", log: func(l *slog.Logger) { l.Warn("msg") }, want: true},
		{name: "debug shown when verbose", verbose: true, log: func(l *slog.Logger) { l.Debug("msg") }, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			tt.log(NewSecureLogger(&buf, tt.verbose))
			if got := buf.Len() > 0; got != tt.want {
				t.Errorf("expected output %v, got %q", tt.want, buf.String())
			}
		})
	}
}

func TestNewJSONMasksAndClips(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&buf, Options{Verbose: true, Format: FormatJSON, MaxValueLen: 8})
	logger.Info("request",
		"x-api-key", "k",
		"preview", "admin:hunter2",
		"filename", "quarterly-report.csv",
		"items", 3,
	)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected a JSON line, got %q: %v", buf.String(), err)
	}
	checks := map[string]any{
		"x-api-key": MaskValue,
		"preview":   MaskValue,
		"filename":  "quarterl" + clipSuffix,
		"items":     float64(3),
	}
	for k, want := range checks {
		if rec[k] != want {
			t.Errorf("%s: expected %v, got %v", k, want, rec[k])
		}
	}
}

func TestNewNoClip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	long := strings.Repeat("a b ", 200)
	New(&buf, Options{MaxValueLen: -1}).Warn("msg", "text", long)
	if strings.Contains(buf.String(), clipSuffix) {
		t.Error("expected clipping to be disabled")
	}
}

func TestSecureHandlerGroupsAndAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, true).
		With("token", "abc").
		WithGroup("req").
		With(slog.Group("headers", slog.String("Cookie", "id=1"), slog.String("Accept", "json")))
	logger.Info("sent")

	out := buf.String()
	for _, leak := range []string{"abc", "id=1"} {
		if strings.Contains(out, leak) {
			t.Errorf("expected %q to be masked in %q", leak, out)
		}
	}
	if !strings.Contains(out, "req.headers.Accept=json") {
		t.Errorf("expected grouped attribute in %q", out)
	}
}

func TestNewSecureHandlerNil(t *testing.T) {
	t.Parallel()

	if h := NewSecureHandler(nil); h.handler == nil {
		t.Error("expected the default handler")
	}
}
