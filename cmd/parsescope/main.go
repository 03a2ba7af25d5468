// Package main provides the entry point for the parsescope CLI.
//
// parsescope is a client for a Parser Engine backend: it lists the files the
// backend has extracted, and classifies and renders their text content as
// JSON, tables, credential lists, key/value data or numbered text.
//
// Usage:
//
//	parsescope dashboard
//	parsescope files --status failed
//	parsescope show 42 --expand
//	parsescope view 42
//
// See --help for all available options.
package main

func main() {
	Execute()
}
