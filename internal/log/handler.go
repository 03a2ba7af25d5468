package log

import (
	"context"
	"log/slog"
)

// SecureHandler wraps an slog.Handler. It masks secret attribute values and
// clips long strings before records reach the wrapped handler.
type SecureHandler struct {
	handler     slog.Handler
	maxValueLen int
}

// NewSecureHandler wraps handler, or slog.Default().Handler() when nil.
// String values are clipped to DefaultMaxValueLen characters.
func NewSecureHandler(handler slog.Handler) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SecureHandler{handler: handler, maxValueLen: DefaultMaxValueLen}
}

// Enabled implements slog.Handler.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.scrub(a))
		return true
	})
	return h.handler.Handle(ctx, out)
}

// WithAttrs implements slog.Handler. The attributes are scrubbed once,
// here.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	scrubbed := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		scrubbed[i] = h.scrub(a)
	}
	return &SecureHandler{handler: h.handler.WithAttrs(scrubbed), maxValueLen: h.maxValueLen}
}

// WithGroup implements slog.Handler.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{handler: h.handler.WithGroup(name), maxValueLen: h.maxValueLen}
}

func (h *SecureHandler) scrub(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		members := a.Value.Group()
		scrubbed := make([]slog.Attr, len(members))
		for i, m := range members {
			scrubbed[i] = h.scrub(m)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(scrubbed...)}
	}

	if isSecretKey(a.Key) {
		return slog.String(a.Key, MaskValue)
	}
	if a.Value.Kind() == slog.KindString {
		s := a.Value.String()
		if isSecretValue(s) {
			return slog.String(a.Key, MaskValue)
		}
		return slog.String(a.Key, clip(s, h.maxValueLen))
	}
	return a
}
