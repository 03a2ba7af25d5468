// Package content classifies and renders the raw text blobs extracted by the
// Parser Engine backend.
//
// A blob goes through three stages:
//
//   - Classify decides which of five renderings applies (JSON, delimited
//     table, credential list, key-value list, plain text) by evaluating an
//     ordered list of heuristic strategies. The first strategy that matches
//     wins.
//   - The matching renderer turns the text into a structured Result: a parsed
//     value tree, a normalized row/column grid, an entry list, or numbered
//     lines. Results carry structure only; styling belongs to the report and
//     tui packages.
//   - Renderer bounds the work: blobs longer than MaxChars are classified on
//     their prefix unless the item's Window is expanded, and tables are
//     windowed into pages of PageSize rows.
//
// Every function in this package is total. Malformed input degrades to a
// plain-text rendering instead of returning an error.
//
// # Usage
//
//	res := content.Classify(text, "text/csv")
//	if table, ok := res.(*content.TableResult); ok {
//	    fmt.Println(table.Headers)
//	}
//
//	r := content.NewRenderer()
//	windows := content.NewWindowSet()
//	rendering := r.Render(content.NewBlob(text, contentType, 0), windows.Get(0))
package content
