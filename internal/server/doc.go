// Package server exposes classified file views over a small local JSON
// API, started by "parsescope serve".
//
// Routes:
//
//	GET  /healthz                               liveness probe
//	GET  /files/{id}/view?expand=0,2&page=0:3   classified view of a file
//	GET  /views                                 files in the local cache
//	POST /classify                              classify a posted blob
//
// The expand parameter lists item indexes to show in full; page assigns a
// table page to an item as index:page. Both are optional.
package server
