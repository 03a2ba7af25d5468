package model

import (
	"fmt"
	"time"
)

// FileListing is one page of a file list together with the query that
// produced it.
type FileListing struct {
	// Title describes the filter, for example "Files (status: failed)".
	Title  string `json:"title"`
	Files  []File `json:"files"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

// Showing returns the position line "Showing a - b". An empty page yields
// an empty string.
func (l *FileListing) Showing() string {
	if len(l.Files) == 0 {
		return ""
	}
	return fmt.Sprintf("Showing %d - %d", l.Offset+1, l.Offset+len(l.Files))
}

// HasPrevious reports whether an earlier page exists.
func (l *FileListing) HasPrevious() bool {
	return l.Offset > 0
}

// HasNext reports whether a further page may exist. The backend does not
// report a total, so a full page is taken to mean there is more.
func (l *FileListing) HasNext() bool {
	return l.Limit > 0 && len(l.Files) >= l.Limit
}

// NextOffset returns the offset of the following page.
func (l *FileListing) NextOffset() int {
	return l.Offset + l.Limit
}

// PreviousOffset returns the offset of the preceding page, never below 0.
func (l *FileListing) PreviousOffset() int {
	return max(0, l.Offset-l.Limit)
}

// SearchReport is a search query with its hits.
type SearchReport struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
}

// SearchHistoryEntry is a past search kept in the local cache.
type SearchHistoryEntry struct {
	ID         int64     `json:"id"`
	Query      string    `json:"query"`
	Results    int       `json:"results"`
	SearchedAt time.Time `json:"searched_at"`
}
