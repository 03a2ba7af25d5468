// Package tui is the interactive file viewer started by "parsescope view".
//
// The viewer lists the content items of a file, lets the user expand a
// truncated item and page through table data, and reloads the file on
// demand. Every load carries a request number; a result that arrives after
// a newer request was issued is dropped, so the screen always reflects the
// last request.
package tui
