package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/parsescope/parsescope/internal/api"
	"github.com/parsescope/parsescope/internal/content"
	"github.com/parsescope/parsescope/internal/model"
)

// ruleWidth is the width of section rules.
const ruleWidth = 70

// SimpleWriter outputs human-readable text for terminal display.
// Tabular data is drawn with go-pretty's light box style.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether empty content items are listed.
	showEmpty bool

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to list empty content items.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteView outputs the file metadata followed by every content item.
func (w *SimpleWriter) WriteView(view *model.FileView) (int, error) {
	var sb strings.Builder

	w.writeTitle(&sb, view.Title())
	w.writeFileInfo(&sb, view)

	if !view.HasContent() {
		sb.WriteString("No content extracted.\n\n")
	}
	for i, rec := range view.Content {
		var r *content.Rendering
		if i < len(view.Renderings) {
			r = view.Renderings[i]
		}
		if r == nil && !w.showEmpty {
			continue
		}
		w.writeItem(&sb, i, len(view.Content), rec, r)
	}

	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeTitle(sb *strings.Builder, title string) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")
}

func (w *SimpleWriter) writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeFileInfo(sb *strings.Builder, view *model.FileView) {
	if view.File != nil {
		for _, row := range fileRows(view.File) {
			sb.WriteString(fmt.Sprintf("%-9s %s\n", row[0]+":", row[1]))
		}
	}
	sb.WriteString(fmt.Sprintf("%-9s %s\n", "Source:", view.Source))
	if view.TimedOut || view.ErrorMessage != "" {
		sb.WriteString(fmt.Sprintf("%-9s %s\n", "Result:", viewStatus(view)))
	}
	if w.verbose {
		if !view.FetchedAt.IsZero() {
			sb.WriteString(fmt.Sprintf("%-9s %s\n", "Fetched:", view.FetchedAt.Format("2006-01-02 15:04:05 MST")))
		}
		if view.Digest != "" {
			sb.WriteString(fmt.Sprintf("%-9s %s\n", "Digest:", view.Digest))
		}
		if len(view.PerformedSteps) > 0 {
			sb.WriteString(fmt.Sprintf("%-9s %s\n", "Steps:", strings.Join(view.PerformedSteps, ", ")))
		}
	}
	sb.WriteString("\n")
}

// writeItem writes one content item: a header line with the badge, the
// rendered body, then the truncation marker and toggle hint.
func (w *SimpleWriter) writeItem(sb *strings.Builder, index, count int, rec model.ContentRecord, r *content.Rendering) {
	badge := "EMPTY"
	if r != nil {
		badge = r.Badge
	}
	header := fmt.Sprintf("[%d/%d] %s", index+1, count, badge)
	if rec.ContentType != "" {
		header += "  " + rec.ContentType
	}
	w.writeSection(sb, header)

	if r == nil {
		sb.WriteString("\n")
		return
	}

	writeBody(sb, r)

	if r.Truncated {
		sb.WriteString(content.TruncatedMarker)
		sb.WriteString("\n")
	}
	if hint := ExpandHint(r); hint != "" {
		sb.WriteString("[" + hint + "]\n")
	}
	sb.WriteString("\n")
}

// ItemBody returns the plain-text rendering of one content item without
// its header, marker or hint.
func ItemBody(r *content.Rendering) string {
	if r == nil {
		return ""
	}
	var sb strings.Builder
	writeBody(&sb, r)
	return sb.String()
}

func writeBody(sb *strings.Builder, r *content.Rendering) {
	switch res := r.Result.(type) {
	case *content.JSONResult:
		for _, l := range jsonLines(res) {
			sb.WriteString(l)
			sb.WriteString("\n")
		}
	case *content.TableResult:
		writeTablePage(sb, r.Page)
	case *content.CredentialsResult:
		t := newTable()
		t.AppendHeader(table.Row{"#", "Identifier", "Secret"})
		for i, c := range res.Entries {
			t.AppendRow(table.Row{i + 1, c.Identifier, c.Secret})
		}
		sb.WriteString(t.Render())
		sb.WriteString("\n")
	case *content.KeyValueResult:
		t := newTable()
		t.AppendHeader(table.Row{"Key", "Value"})
		for _, p := range res.Pairs {
			t.AppendRow(table.Row{p.Key, p.Value})
		}
		sb.WriteString(t.Render())
		sb.WriteString("\n")
	case *content.TextResult:
		numbered := res.Numbered()
		width := len(fmt.Sprint(len(numbered)))
		for _, l := range numbered {
			sb.WriteString(fmt.Sprintf("%*d | %s\n", width, l.Number, l.Text))
		}
	}
}

func writeTablePage(sb *strings.Builder, page *content.TablePage) {
	if page == nil {
		return
	}
	if page.Controls {
		sb.WriteString(page.Info())
		sb.WriteString("\n")
	}

	t := newTable()
	header := table.Row{"#"}
	for _, h := range page.Headers {
		header = append(header, h)
	}
	t.AppendHeader(header)
	for _, row := range page.Rows {
		r := table.Row{row.Number}
		for _, c := range row.Cells {
			r = append(r, c)
		}
		t.AppendRow(r)
	}
	sb.WriteString(t.Render())
	sb.WriteString("\n")

	if page.Controls {
		sb.WriteString(page.Info())
		if len(page.Disabled) > 0 {
			sb.WriteString(" (disabled: " + strings.Join(page.Disabled, ", ") + ")")
		}
		sb.WriteString("\n")
	}
}

// WriteListing outputs a file table with its position line.
func (w *SimpleWriter) WriteListing(listing *model.FileListing) (int, error) {
	var sb strings.Builder

	if listing.Title != "" {
		sb.WriteString(listing.Title)
		sb.WriteString("\n")
	}
	if len(listing.Files) == 0 {
		sb.WriteString("No files found\n")
		return w.output.Write([]byte(sb.String()))
	}

	t := newTable()
	t.AppendHeader(stringRow(listingHeader))
	for i := range listing.Files {
		t.AppendRow(stringRow(listingRow(&listing.Files[i])))
	}
	sb.WriteString(t.Render())
	sb.WriteString("\n")
	sb.WriteString(listing.Showing())
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}

// WriteDashboard outputs the health line, totals and both breakdowns.
func (w *SimpleWriter) WriteDashboard(d *model.Dashboard) (int, error) {
	var sb strings.Builder

	w.writeTitle(&sb, "Dashboard")

	if d.Health != nil {
		state := "Unhealthy"
		if d.Health.IsHealthy() {
			state = "Healthy"
		}
		sb.WriteString(fmt.Sprintf("System Status: %s (database: %s)\n\n", state, d.Health.Database))
	}

	if d.Stats != nil {
		s := d.Stats
		sb.WriteString(fmt.Sprintf("Total Files:         %s\n", formatCount(s.TotalFiles)))
		sb.WriteString(fmt.Sprintf("From Archives:       %s\n", formatCount(s.FilesFromArchives)))
		sb.WriteString(fmt.Sprintf("Total Size:          %s\n\n", model.FormatBytes(s.TotalSize)))

		w.writeCounts(&sb, "Files by Status", "Status", s.StatusCounts(), func(name string) string {
			return model.FileStatus(name).Label()
		})
		w.writeCounts(&sb, "Files by Type", "Type", s.TypeCounts(), nil)
	}

	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeCounts(sb *strings.Builder, title, column string, counts []model.Count, label func(string) string) {
	w.writeSection(sb, title)
	if len(counts) == 0 {
		sb.WriteString("No data\n\n")
		return
	}
	t := newTable()
	t.AppendHeader(table.Row{column, "Count"})
	for _, c := range counts {
		name := c.Name
		if label != nil {
			name = label(name)
		}
		t.AppendRow(table.Row{name, formatCount(c.Count)})
	}
	sb.WriteString(t.Render())
	sb.WriteString("\n\n")
}

// WriteSearch outputs the hits of a search.
func (w *SimpleWriter) WriteSearch(result *model.SearchReport) (int, error) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Search: %q (%s results)\n", result.Query, formatCount(len(result.Results))))
	if len(result.Results) == 0 {
		sb.WriteString("No results found\n")
		return w.output.Write([]byte(sb.String()))
	}

	t := newTable()
	t.AppendHeader(stringRow(searchHeader))
	for i := range result.Results {
		t.AppendRow(stringRow(searchRow(&result.Results[i])))
	}
	sb.WriteString(t.Render())
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}

// WriteHistory outputs past searches.
func (w *SimpleWriter) WriteHistory(entries []model.SearchHistoryEntry) (int, error) {
	var sb strings.Builder

	if len(entries) == 0 {
		sb.WriteString("No searches recorded\n")
		return w.output.Write([]byte(sb.String()))
	}

	t := newTable()
	t.AppendHeader(table.Row{"When", "Query", "Results"})
	for _, e := range entries {
		t.AppendRow(table.Row{e.SearchedAt.Local().Format("2006-01-02 15:04"), e.Query, formatCount(e.Results)})
	}
	sb.WriteString(t.Render())
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}

// WriteConnection outputs the connection test result and, on failure, the
// hint for starting the backend.
func (w *SimpleWriter) WriteConnection(result *api.ConnectionResult) (int, error) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Backend: %s\n", result.BaseURL))
	if result.OK {
		sb.WriteString("[+] " + result.Message + "\n")
		if w.verbose && result.Health != nil {
			sb.WriteString(fmt.Sprintf("    database: %s\n", result.Health.Database))
			sb.WriteString(fmt.Sprintf("    timestamp: %s\n", result.Health.Timestamp))
		}
	} else {
		sb.WriteString("[!] " + result.Message + "\n")
		if result.Error != "" {
			sb.WriteString("    " + result.Error + "\n")
		}
		if result.Help != "" {
			sb.WriteString("    " + result.Help + "\n")
		}
	}

	return w.output.Write([]byte(sb.String()))
}

// WriteProcess outputs the backend's message for a processing request.
func (w *SimpleWriter) WriteProcess(result *model.ProcessResult) (int, error) {
	return w.output.Write([]byte(result.Text() + "\n"))
}

// newTable returns a go-pretty table writer in the shared style.
func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	return t
}

func stringRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}
