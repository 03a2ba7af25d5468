package report

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/parsescope/parsescope/internal/api"
	"github.com/parsescope/parsescope/internal/model"
)

// JSONWriter outputs records in JSON format for scripts and other tools.
// Every Write call emits one JSON document followed by a newline.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteView implements Writer.
func (w *JSONWriter) WriteView(view *model.FileView) (int, error) {
	return w.writeJSON(view)
}

// WriteListing implements Writer.
func (w *JSONWriter) WriteListing(listing *model.FileListing) (int, error) {
	return w.writeJSON(listing)
}

// WriteDashboard implements Writer.
func (w *JSONWriter) WriteDashboard(dashboard *model.Dashboard) (int, error) {
	return w.writeJSON(dashboard)
}

// WriteSearch implements Writer.
func (w *JSONWriter) WriteSearch(result *model.SearchReport) (int, error) {
	return w.writeJSON(result)
}

// WriteHistory implements Writer. A nil slice is written as [].
func (w *JSONWriter) WriteHistory(entries []model.SearchHistoryEntry) (int, error) {
	if entries == nil {
		entries = []model.SearchHistoryEntry{}
	}
	return w.writeJSON(entries)
}

// WriteConnection implements Writer.
func (w *JSONWriter) WriteConnection(result *api.ConnectionResult) (int, error) {
	return w.writeJSON(result)
}

// WriteProcess implements Writer. The default message is filled in.
func (w *JSONWriter) WriteProcess(result *model.ProcessResult) (int, error) {
	return w.writeJSON(&model.ProcessResult{Message: result.Text()})
}

// writeJSON marshals the given value to JSON and writes it to the output.
// HTML characters are not escaped; extracted content is shown as is.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if w.indent {
		enc.SetIndent(w.indentPrefix, w.indentString)
	}
	if err := enc.Encode(v); err != nil {
		return 0, err
	}
	return w.output.Write(buf.Bytes())
}

// ViewReport wraps a view with the version of the tool that produced it.
type ViewReport struct {
	// Version is the parsescope version that generated this report.
	Version string `json:"version"`

	// View is the classified file view.
	View *model.FileView `json:"view"`
}

// FullJSONWriter outputs views wrapped in a ViewReport. Other records are
// written unchanged.
type FullJSONWriter struct {
	*JSONWriter

	// version is the parsescope version string.
	version string
}

// NewFullJSONWriter creates a writer for complete reports with metadata.
func NewFullJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
		version:    version,
	}
}

// WriteView outputs the view wrapped with version metadata.
func (w *FullJSONWriter) WriteView(view *model.FileView) (int, error) {
	return w.writeJSON(&ViewReport{Version: w.version, View: view})
}
