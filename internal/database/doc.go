// Package database provides the local SQLite cache of parsescope.
//
// The Cache stores:
//   - the last fetched metadata and content items of each inspected file,
//     keyed by file ID and guarded by a SHA3-256 digest
//   - the search history
//
// Cached views let files be inspected again without the backend, for
// example with `parsescope show --offline`. Renderings are never stored:
// they depend on the display window and are recomputed on load.
//
// The database is a single file opened through modernc.org/sqlite, a
// CGO-free driver, with WAL journaling.
package database
