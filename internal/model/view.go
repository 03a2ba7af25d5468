package model

import (
	"encoding/hex"
	"time"

	"github.com/parsescope/parsescope/internal/content"
	"golang.org/x/crypto/sha3"
)

// ViewSource records where a FileView's data came from.
type ViewSource string

const (
	// SourceBackend means the view was fetched from the backend API.
	SourceBackend ViewSource = "backend"

	// SourceCache means the view was read from the local cache.
	SourceCache ViewSource = "cache"
)

// FileView is everything known about one file while it is inspected: its
// metadata, its content items and their renderings.
//
// A FileView is filled in by the pipeline steps in order. Renderings is
// index-aligned with Content; an empty content item has a nil rendering.
type FileView struct {
	// FileID is the backend identifier requested by the user.
	FileID int64 `json:"file_id"`

	// File is the backend metadata. It is nil until loaded.
	File *File `json:"file,omitempty"`

	// Content holds the extracted text items in backend order.
	Content []ContentRecord `json:"content"`

	// Renderings holds one classified rendering per content item.
	Renderings []*content.Rendering `json:"renderings,omitempty"`

	// Digest is the SHA3-256 of all content items, hex encoded.
	Digest string `json:"digest,omitempty"`

	// Source tells whether the data came from the backend or the cache.
	Source ViewSource `json:"source"`

	// FetchedAt is when the data was fetched from the backend. Views read
	// from the cache keep the original fetch time.
	FetchedAt time.Time `json:"fetched_at"`

	// PerformedSteps lists the pipeline steps that ran.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Error is the step error that stopped the pipeline, if any.
	Error        error  `json:"-"`
	ErrorMessage string `json:"error,omitempty"`

	// TimedOut is set when the context ended before all steps ran.
	TimedOut bool `json:"timed_out,omitempty"`
}

// NewFileView returns an empty view of the given file.
func NewFileView(id int64) *FileView {
	return &FileView{
		FileID:         id,
		Content:        make([]ContentRecord, 0),
		PerformedSteps: make([]string, 0),
	}
}

// Blobs converts the content items into classifier input.
func (v *FileView) Blobs() []content.Blob {
	blobs := make([]content.Blob, len(v.Content))
	for i, c := range v.Content {
		blobs[i] = content.NewBlob(c.Content, c.ContentType, c.CharCount)
	}
	return blobs
}

// ComputeDigest calculates and sets Digest from the content items. Each
// item's type and text are length-prefixed so that item boundaries are part
// of the hash.
func (v *FileView) ComputeDigest() {
	v.Digest = DigestContent(v.Content)
}

// DigestContent returns the hex SHA3-256 digest of items.
func DigestContent(items []ContentRecord) string {
	h := sha3.New256()
	var lenBuf [8]byte
	write := func(s string) {
		n := uint64(len(s))
		for i := range lenBuf {
			lenBuf[i] = byte(n >> (8 * i))
		}
		h.Write(lenBuf[:])
		h.Write([]byte(s))
	}
	for _, c := range items {
		write(c.ContentType)
		write(c.Content)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// HasContent reports whether at least one item has non-empty text.
func (v *FileView) HasContent() bool {
	for _, c := range v.Content {
		if c.Content != "" {
			return true
		}
	}
	return false
}

// Title returns the filename, or "file <id>" before metadata is loaded.
func (v *FileView) Title() string {
	if v.File != nil && v.File.Filename != "" {
		return v.File.Filename
	}
	return "file " + itoa(v.FileID)
}
