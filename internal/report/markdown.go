package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/parsescope/parsescope/internal/api"
	"github.com/parsescope/parsescope/internal/content"
	"github.com/parsescope/parsescope/internal/model"
)

var (
	syntaxJSON = markdown.SyntaxHighlight("json")
	syntaxText = markdown.SyntaxHighlight("text")
)

// MarkdownWriter outputs records as Markdown documents, built with
// nao1215/markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// build renders md to the output.
func (w *MarkdownWriter) build(md *markdown.Markdown) (int, error) {
	return len(md.String()), md.Build()
}

// WriteView outputs the file metadata and one section per content item.
func (w *MarkdownWriter) WriteView(view *model.FileView) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1(view.Title())
	md.PlainText("")

	rows := [][]string{}
	if view.File != nil {
		rows = fileRows(view.File)
	}
	rows = append(rows,
		[]string{"Source", string(view.Source)},
		[]string{"Status", w.getStatusText(view)},
	)
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   escapeRows(rows),
	})
	md.PlainText("")

	md.H2("Content")
	md.PlainText("")
	if !view.HasContent() {
		md.PlainText("No content extracted.")
		md.PlainText("")
	}

	for i, rec := range view.Content {
		if i >= len(view.Renderings) || view.Renderings[i] == nil {
			continue
		}
		w.writeItem(md, i, rec, view.Renderings[i])
	}

	return w.build(md)
}

// getStatusText returns the status text based on view state.
func (w *MarkdownWriter) getStatusText(view *model.FileView) string {
	if view.TimedOut {
		return "⚠️ Timed Out (partial results)"
	}
	if view.ErrorMessage != "" {
		return "❌ Error - " + view.ErrorMessage
	}
	return "✅ Complete"
}

func (w *MarkdownWriter) writeItem(md *markdown.Markdown, index int, rec model.ContentRecord, r *content.Rendering) {
	title := "### " + strconv.Itoa(index+1) + ". " + r.Badge
	if rec.ContentType != "" {
		title += " `" + rec.ContentType + "`"
	}
	md.PlainText(title)
	md.PlainText("")

	switch res := r.Result.(type) {
	case *content.JSONResult:
		md.CodeBlocks(syntaxJSON, strings.Join(jsonLines(res), "\n"))
	case *content.TableResult:
		w.writeTablePage(md, r.Page)
	case *content.CredentialsResult:
		rows := make([][]string, len(res.Entries))
		for i, c := range res.Entries {
			rows[i] = []string{strconv.Itoa(i + 1), "`" + c.Identifier + "`", "`" + c.Secret + "`"}
		}
		md.Table(markdown.TableSet{Header: []string{"#", "Identifier", "Secret"}, Rows: escapeRows(rows)})
	case *content.KeyValueResult:
		rows := make([][]string, len(res.Pairs))
		for i, p := range res.Pairs {
			rows[i] = []string{"**" + p.Key + "**", p.Value}
		}
		md.Table(markdown.TableSet{Header: []string{"Key", "Value"}, Rows: escapeRows(rows)})
	case *content.TextResult:
		md.CodeBlocks(syntaxText, res.Text())
	}
	md.PlainText("")

	if r.Truncated {
		md.Note(content.TruncatedMarker + " " + ExpandHint(r) + ".")
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeTablePage(md *markdown.Markdown, page *content.TablePage) {
	if page == nil {
		return
	}
	header := append([]string{"#"}, page.Headers...)
	rows := make([][]string, len(page.Rows))
	for i, row := range page.Rows {
		rows[i] = append([]string{strconv.Itoa(row.Number)}, row.Cells...)
	}
	md.Table(markdown.TableSet{Header: escapeCells(header), Rows: escapeRows(rows)})
	if page.Controls {
		md.PlainText("")
		md.PlainTextf("*%s*", page.Info())
	}
}

// WriteListing implements Writer.
func (w *MarkdownWriter) WriteListing(listing *model.FileListing) (int, error) {
	md := markdown.NewMarkdown(w.output)

	title := listing.Title
	if title == "" {
		title = "Files"
	}
	md.H1(title)
	md.PlainText("")

	if len(listing.Files) == 0 {
		md.PlainText("No files found.")
		return w.build(md)
	}

	rows := make([][]string, len(listing.Files))
	for i := range listing.Files {
		rows[i] = listingRow(&listing.Files[i])
	}
	md.Table(markdown.TableSet{Header: listingHeader, Rows: escapeRows(rows)})
	md.PlainText("")
	md.PlainText(listing.Showing())

	return w.build(md)
}

// WriteDashboard implements Writer. The status breakdown is also drawn as a
// mermaid pie chart.
func (w *MarkdownWriter) WriteDashboard(d *model.Dashboard) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Dashboard")
	md.PlainText("")

	if d.Health != nil {
		if d.Health.IsHealthy() {
			md.Tip("System Status: Healthy (database: " + d.Health.Database + ")")
		} else {
			md.Warningf("System Status: Unhealthy (status: %s, database: %s)", d.Health.Status, d.Health.Database)
		}
		md.PlainText("")
	}

	if d.Stats == nil {
		return w.build(md)
	}
	s := d.Stats

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total Files", formatCount(s.TotalFiles)},
			{"From Archives", formatCount(s.FilesFromArchives)},
			{"Total Size", model.FormatBytes(s.TotalSize)},
		},
	})
	md.PlainText("")

	statuses := s.StatusCounts()
	md.H2("Files by Status")
	md.PlainText("")
	if len(statuses) > 0 {
		rows := make([][]string, len(statuses))
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Files by Status"),
			piechart.WithShowData(true),
		)
		for i, c := range statuses {
			label := model.FileStatus(c.Name).Label()
			rows[i] = []string{label, formatCount(c.Count)}
			if c.Count > 0 {
				chart.LabelAndIntValue(label, uint64(c.Count))
			}
		}
		md.Table(markdown.TableSet{Header: []string{"Status", "Count"}, Rows: escapeRows(rows)})
		md.PlainText("")
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	} else {
		md.PlainText("No data")
	}
	md.PlainText("")

	types := s.TypeCounts()
	md.H2("Files by Type")
	md.PlainText("")
	if len(types) > 0 {
		rows := make([][]string, len(types))
		for i, c := range types {
			rows[i] = []string{c.Name, formatCount(c.Count)}
		}
		md.Table(markdown.TableSet{Header: []string{"Type", "Count"}, Rows: escapeRows(rows)})
	} else {
		md.PlainText("No data")
	}

	return w.build(md)
}

// WriteSearch implements Writer.
func (w *MarkdownWriter) WriteSearch(result *model.SearchReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Search: " + result.Query)
	md.PlainText("")

	if len(result.Results) == 0 {
		md.PlainText("No results found.")
		return w.build(md)
	}

	rows := make([][]string, len(result.Results))
	for i := range result.Results {
		rows[i] = searchRow(&result.Results[i])
	}
	md.Table(markdown.TableSet{Header: searchHeader, Rows: escapeRows(rows)})

	return w.build(md)
}

// WriteHistory implements Writer.
func (w *MarkdownWriter) WriteHistory(entries []model.SearchHistoryEntry) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Search History")
	md.PlainText("")

	if len(entries) == 0 {
		md.PlainText("No searches recorded.")
		return w.build(md)
	}

	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.SearchedAt.UTC().Format("2006-01-02 15:04 MST"), e.Query, formatCount(e.Results)}
	}
	md.Table(markdown.TableSet{Header: []string{"When", "Query", "Results"}, Rows: escapeRows(rows)})

	return w.build(md)
}

// WriteConnection implements Writer.
func (w *MarkdownWriter) WriteConnection(result *api.ConnectionResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Connection Test")
	md.PlainText("")
	md.PlainTextf("Backend: `%s`", result.BaseURL)
	md.PlainText("")

	if result.OK {
		md.Tip(result.Message)
		return w.build(md)
	}

	md.Cautionf("%s: %s", result.Message, result.Error)
	if result.Help != "" {
		md.PlainText("")
		md.PlainText(result.Help)
	}
	return w.build(md)
}

// WriteProcess implements Writer.
func (w *MarkdownWriter) WriteProcess(result *model.ProcessResult) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.Note(result.Text())
	return w.build(md)
}

// escapeCells makes cell text safe inside a Markdown table row.
func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		c = strings.ReplaceAll(c, "|", `\|`)
		c = strings.ReplaceAll(c, "\n", " ")
		out[i] = c
	}
	return out
}

func escapeRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = escapeCells(r)
	}
	return out
}
