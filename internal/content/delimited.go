package content

import "strings"

// Delimiter is the single character that separates table columns.
type Delimiter byte

const (
	// Comma separates columns with ','.
	Comma Delimiter = ','
	// Semicolon separates columns with ';'.
	Semicolon Delimiter = ';'
	// Tab separates columns with '\t'.
	Tab Delimiter = '\t'
	// Pipe separates columns with '|'.
	Pipe Delimiter = '|'
)

// delimiterCandidates is the detection order. On equal counts the earlier
// candidate wins.
var delimiterCandidates = []Delimiter{Comma, Semicolon, Tab, Pipe}

// String returns the delimiter's name.
func (d Delimiter) String() string {
	switch d {
	case Comma:
		return "comma"
	case Semicolon:
		return "semicolon"
	case Tab:
		return "tab"
	case Pipe:
		return "pipe"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Delimiter) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// count returns how many times d occurs in line.
func (d Delimiter) count(line string) int {
	return strings.Count(line, string(rune(d)))
}

// DetectDelimiter picks the candidate that occurs most often in the first
// non-blank line of text. It reports false when no candidate occurs at all.
func DetectDelimiter(text string) (Delimiter, bool) {
	lines := nonBlankLines(text)
	if len(lines) == 0 {
		return 0, false
	}
	return detectInLine(lines[0])
}

func detectInLine(line string) (Delimiter, bool) {
	var (
		best     Delimiter
		maxCount int
	)
	for _, d := range delimiterCandidates {
		if c := d.count(line); c > maxCount {
			maxCount = c
			best = d
		}
	}
	return best, maxCount >= 1
}

// IsTableLike reports whether text looks like delimiter-separated data: at
// least two non-blank lines, a detectable delimiter in the first one, and a
// second line whose delimiter count is within 2 of the first's.
func IsTableLike(text string) bool {
	lines := nonBlankLines(text)
	if len(lines) < 2 {
		return false
	}
	d, ok := detectInLine(lines[0])
	if !ok {
		return false
	}
	first := d.count(lines[0])
	second := d.count(lines[1])
	diff := first - second
	if diff < 0 {
		diff = -diff
	}
	return first >= 1 && diff <= 2
}

// ParseDelimitedLine splits line on d. A double quote toggles quoting;
// delimiters inside quotes are kept as data and the quote characters
// themselves are dropped. Each field is trimmed.
func ParseDelimitedLine(line string, d Delimiter) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
		case c == byte(d) && !inQuotes:
			fields = append(fields, trimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	return append(fields, trimSpace(current.String()))
}

// renderTable builds a TableResult from the non-blank lines of text. The
// first row is the header; all rows are right-padded to the widest row.
// Text without any non-blank line renders as plain text.
func renderTable(text string) Result {
	lines := nonBlankLines(text)
	if len(lines) == 0 {
		return renderPlainText(text)
	}

	d, ok := detectInLine(lines[0])
	if !ok {
		d = Comma
	}

	rows := make([][]string, len(lines))
	width := 0
	for i, l := range lines {
		rows[i] = ParseDelimitedLine(l, d)
		if len(rows[i]) > width {
			width = len(rows[i])
		}
	}
	for i, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		rows[i] = row
	}

	return &TableResult{
		Delimiter: d,
		Headers:   rows[0],
		Rows:      rows[1:],
	}
}
