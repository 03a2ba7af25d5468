package content

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// escapeExpander turns the literal two-character sequences `\n` and `\t`
// into real line breaks and tabs. Upstream extraction sometimes flattens
// control characters into their escaped spelling.
var escapeExpander = strings.NewReplacer(`\n`, "\n", `\t`, "\t")

// ExpandEscapes replaces literal `\n` and `\t` sequences with newline and tab.
func ExpandEscapes(text string) string {
	return escapeExpander.Replace(text)
}

// isSpace reports whether r is whitespace for classification purposes:
// Unicode White_Space without NEL, plus the byte order mark.
func isSpace(r rune) bool {
	return r == '\ufeff' || (r != '\u0085' && unicode.IsSpace(r))
}

// trimSpace removes leading and trailing whitespace as defined by isSpace.
// Extracted text often starts with a BOM or ends in no-break spaces.
func trimSpace(s string) string {
	return strings.TrimFunc(s, isSpace)
}

// splitLines splits text on '\n' and keeps every line, blank or not.
// Carriage returns stay attached to their line.
func splitLines(text string) []string {
	return strings.Split(text, "\n")
}

// nonBlankLines returns the lines of text that contain something other
// than whitespace. Lines are returned untrimmed.
func nonBlankLines(text string) []string {
	all := splitLines(text)
	lines := make([]string, 0, len(all))
	for _, l := range all {
		if trimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// RuneLen returns the length of s in characters.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// truncateRunes returns the first n characters of s. The cut always falls on
// a character boundary, so the returned prefix is a byte-exact prefix of s.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
