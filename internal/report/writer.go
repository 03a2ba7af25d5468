package report

import (
	"io"

	"github.com/parsescope/parsescope/internal/api"
	"github.com/parsescope/parsescope/internal/model"
)

// Writer defines the interface for command output.
// Implementations render the same records as text, JSON or Markdown.
type Writer interface {
	// WriteView outputs a classified file view.
	WriteView(view *model.FileView) (int, error)

	// WriteListing outputs one page of a file list.
	WriteListing(listing *model.FileListing) (int, error)

	// WriteDashboard outputs backend health and statistics.
	WriteDashboard(dashboard *model.Dashboard) (int, error)

	// WriteSearch outputs search hits.
	WriteSearch(result *model.SearchReport) (int, error)

	// WriteHistory outputs past searches, newest first.
	WriteHistory(entries []model.SearchHistoryEntry) (int, error)

	// WriteConnection outputs the result of a connection test.
	WriteConnection(result *api.ConnectionResult) (int, error)

	// WriteProcess outputs the backend's answer to a processing request.
	WriteProcess(result *model.ProcessResult) (int, error)
}

// MultiWriter writes to multiple Writers in turn.
// This is useful for outputting to both terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// each calls fn for every writer and sums the bytes written.
// Stops on first error encountered.
func (m *MultiWriter) each(fn func(Writer) (int, error)) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := fn(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteView implements Writer.
func (m *MultiWriter) WriteView(view *model.FileView) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteView(view) })
}

// WriteListing implements Writer.
func (m *MultiWriter) WriteListing(listing *model.FileListing) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteListing(listing) })
}

// WriteDashboard implements Writer.
func (m *MultiWriter) WriteDashboard(dashboard *model.Dashboard) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteDashboard(dashboard) })
}

// WriteSearch implements Writer.
func (m *MultiWriter) WriteSearch(result *model.SearchReport) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteSearch(result) })
}

// WriteHistory implements Writer.
func (m *MultiWriter) WriteHistory(entries []model.SearchHistoryEntry) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteHistory(entries) })
}

// WriteConnection implements Writer.
func (m *MultiWriter) WriteConnection(result *api.ConnectionResult) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteConnection(result) })
}

// WriteProcess implements Writer.
func (m *MultiWriter) WriteProcess(result *model.ProcessResult) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteProcess(result) })
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
