package model

import (
	"errors"
	"time"
)

// File is the backend's metadata record for one ingested file.
type File struct {
	ID        int64      `json:"id"`
	Filename  string     `json:"filename"`
	FileType  string     `json:"file_type"`
	FileSize  int64      `json:"file_size"`
	Status    FileStatus `json:"status"`
	CreatedAt string     `json:"created_at"`

	// MimeType and ArchiveID are only reported by newer backends.
	MimeType  string `json:"mime_type,omitempty"`
	ArchiveID *int64 `json:"archive_id,omitempty"`
}

// createdLayouts are the timestamp spellings seen from the backend. FastAPI
// emits naive ISO timestamps unless the column carries a zone.
var createdLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ErrInvalidTimestamp is returned when a backend timestamp matches none of
// the known layouts.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// CreatedTime parses CreatedAt. Naive timestamps are read as UTC.
func (f *File) CreatedTime() (time.Time, error) {
	return parseTimestamp(f.CreatedAt)
}

// CreatedDate returns the creation date as YYYY-MM-DD, or the raw value
// when it cannot be parsed.
func (f *File) CreatedDate() string {
	t, err := f.CreatedTime()
	if err != nil {
		return f.CreatedAt
	}
	return t.Format("2006-01-02")
}

// FromArchive reports whether the file was extracted from an archive.
func (f *File) FromArchive() bool {
	return f.ArchiveID != nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range createdLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidTimestamp
}

// ContentRecord is one extracted text item of a file. A file may have
// several, for example one per sheet or archive member.
type ContentRecord struct {
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
	CharCount   int    `json:"char_count"`
	WordCount   int    `json:"word_count"`
}

// FileDetail is the response of GET /files/{id}.
type FileDetail struct {
	File    File            `json:"file"`
	Content []ContentRecord `json:"content"`
}

// SearchResult is one hit of a full-text search.
type SearchResult struct {
	ID             int64  `json:"id"`
	Filename       string `json:"filename"`
	FileType       string `json:"file_type"`
	MimeType       string `json:"mime_type"`
	ContentPreview string `json:"content_preview"`
}
