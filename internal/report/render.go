package report

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/parsescope/parsescope/internal/content"
	"github.com/parsescope/parsescope/internal/model"
)

// printer formats counts with thousands separators.
var printer = message.NewPrinter(language.English)

// formatCount returns n with thousands separators, for example "12,480".
func formatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// jsonIndent is the per-level indentation of rendered JSON.
const jsonIndent = "  "

// jsonLines lays out a JSON result as indented text lines.
func jsonLines(r *content.JSONResult) []string {
	lines := r.Lines()
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Indented(jsonIndent)
	}
	return out
}

// ExpandHint returns the label of the toggle for a rendering, or "" when
// the item is short enough to be shown whole.
func ExpandHint(r *content.Rendering) string {
	if !r.Expandable {
		return ""
	}
	if r.Expanded {
		return "Show Less"
	}
	return "Show Full Content (" + model.FormatBytes(int64(r.TotalLength)) + ")"
}

// viewStatus describes how far the pipeline got for a view.
func viewStatus(v *model.FileView) string {
	switch {
	case v.TimedOut:
		return "TIMED OUT (partial results)"
	case v.ErrorMessage != "":
		return "ERROR - " + v.ErrorMessage
	default:
		return "Complete"
	}
}

// fileRows returns the metadata of f as label/value pairs.
func fileRows(f *model.File) [][]string {
	fileType := f.FileType
	if f.MimeType != "" {
		fileType += " (" + f.MimeType + ")"
	}
	rows := [][]string{
		{"ID", itoa64(f.ID)},
		{"Type", fileType},
		{"Size", model.FormatBytes(f.FileSize)},
		{"Status", f.Status.Label()},
		{"Created", f.CreatedDate()},
	}
	if f.FromArchive() {
		rows = append(rows, []string{"Archive", itoa64(*f.ArchiveID)})
	}
	return rows
}

// listingRow returns the columns shown for a file in a listing.
func listingRow(f *model.File) []string {
	return []string{
		itoa64(f.ID),
		f.Filename,
		f.FileType,
		model.FormatSize(f.FileSize),
		f.Status.Label(),
		f.CreatedDate(),
	}
}

// listingHeader is the header of file listings.
var listingHeader = []string{"ID", "Filename", "Type", "Size", "Status", "Created"}

// searchHeader is the header of search results.
var searchHeader = []string{"ID", "Filename", "Type", "Preview"}

// previewLimit bounds the preview column of search results.
const previewLimit = 80

// searchRow returns the columns shown for a search hit.
func searchRow(r *model.SearchResult) []string {
	return []string{
		itoa64(r.ID),
		r.Filename,
		r.FileType,
		truncateString(oneLine(r.ContentPreview), previewLimit),
	}
}

// oneLine collapses runs of whitespace, newlines included, to single spaces.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

func itoa64(n int64) string {
	return strconv.FormatInt(n, 10)
}
