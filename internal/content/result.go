package content

import (
	"fmt"
	"strings"
)

// Kind names the rendering chosen for a blob.
type Kind int

const (
	// KindPlainText is the fallback rendering of numbered lines.
	KindPlainText Kind = iota
	// KindJSON is a parsed JSON document.
	KindJSON
	// KindTable is delimiter-separated tabular data.
	KindTable
	// KindCredentials is a list of identifier:secret lines.
	KindCredentials
	// KindKeyValue is a list of key: value or key=value lines.
	KindKeyValue
)

// String returns the kind's identifier as used in JSON output and flags.
func (k Kind) String() string {
	switch k {
	case KindPlainText:
		return "text"
	case KindJSON:
		return "json"
	case KindTable:
		return "table"
	case KindCredentials:
		return "credentials"
	case KindKeyValue:
		return "keyvalue"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Result is the outcome of classifying one blob. It is one of
// *JSONResult, *TableResult, *CredentialsResult, *KeyValueResult or
// *TextResult.
type Result interface {
	// Kind reports which variant this is.
	Kind() Kind

	// Badge returns the one-line label shown above the rendering,
	// for example "TABLE DATA (120 rows × 3 cols)".
	Badge() string

	sealed()
}

// JSONResult holds a parsed JSON document.
type JSONResult struct {
	Value *Value `json:"value"`
}

// Kind implements Result.
func (*JSONResult) Kind() Kind { return KindJSON }

// Badge implements Result.
func (*JSONResult) Badge() string { return "JSON" }

// Lines lays the document out for display.
func (r *JSONResult) Lines() []Line { return RenderJSON(r.Value) }

func (*JSONResult) sealed() {}

// TableResult holds a normalized grid. Every row has len(Headers) cells.
type TableResult struct {
	Delimiter Delimiter  `json:"delimiter"`
	Headers   []string   `json:"headers"`
	Rows      [][]string `json:"rows,omitempty"`
}

// Kind implements Result.
func (*TableResult) Kind() Kind { return KindTable }

// Badge implements Result.
func (r *TableResult) Badge() string {
	return fmt.Sprintf("TABLE DATA (%d rows × %d cols)", len(r.Rows), len(r.Headers))
}

// HeaderLabels returns the header cells, with "Col N" standing in for
// empty ones.
func (r *TableResult) HeaderLabels() []string {
	labels := make([]string, len(r.Headers))
	for i, h := range r.Headers {
		if h == "" {
			h = fmt.Sprintf("Col %d", i+1)
		}
		labels[i] = h
	}
	return labels
}

func (*TableResult) sealed() {}

// Credential is one identifier:secret entry.
type Credential struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
}

// CredentialsResult holds credential entries in input order.
type CredentialsResult struct {
	Entries []Credential `json:"entries"`
}

// Kind implements Result.
func (*CredentialsResult) Kind() Kind { return KindCredentials }

// Badge implements Result.
func (r *CredentialsResult) Badge() string {
	return fmt.Sprintf("CREDENTIALS (%d entries)", len(r.Entries))
}

func (*CredentialsResult) sealed() {}

// Pair is one key/value entry.
type Pair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// KeyValueResult holds key/value pairs in input order.
type KeyValueResult struct {
	Pairs []Pair `json:"pairs"`
}

// Kind implements Result.
func (*KeyValueResult) Kind() Kind { return KindKeyValue }

// Badge implements Result.
func (r *KeyValueResult) Badge() string {
	return fmt.Sprintf("STRUCTURED DATA (%d fields)", len(r.Pairs))
}

func (*KeyValueResult) sealed() {}

// EmptyLinePlaceholder stands in for an empty line so it stays visible.
const EmptyLinePlaceholder = "\u00a0"

// NumberedLine is a plain-text line with its 1-based number.
type NumberedLine struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

// TextResult holds every line of the text, blank lines included.
type TextResult struct {
	Lines []string `json:"lines"`
}

// Kind implements Result.
func (*TextResult) Kind() Kind { return KindPlainText }

// Badge implements Result.
func (r *TextResult) Badge() string {
	return fmt.Sprintf("TEXT CONTENT (%d lines)", len(r.Lines))
}

// Numbered returns the lines with 1-based numbers. Empty lines are replaced
// by EmptyLinePlaceholder.
func (r *TextResult) Numbered() []NumberedLine {
	out := make([]NumberedLine, len(r.Lines))
	for i, l := range r.Lines {
		if l == "" {
			l = EmptyLinePlaceholder
		}
		out[i] = NumberedLine{Number: i + 1, Text: l}
	}
	return out
}

// Text joins the lines back together.
func (r *TextResult) Text() string {
	return strings.Join(r.Lines, "\n")
}

func (*TextResult) sealed() {}
