// Package report renders parsescope's records for output.
//
// This package contains writers for different output formats:
//   - SimpleWriter: terminal text with tables drawn by go-pretty
//   - JSONWriter: structured JSON for scripts and other tools
//   - MarkdownWriter: Markdown documents for sharing and tickets
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed with MultiWriter. The data they render lives
// in the model and content packages; writers never classify anything
// themselves.
package report
