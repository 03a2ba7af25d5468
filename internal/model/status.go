package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FileStatus is the processing state of a file on the backend.
//
// The backend owns the set of states. Values outside the known set are
// carried through unchanged so that listings never drop data.
type FileStatus string

const (
	// StatusPending means the file is queued and has not been parsed yet.
	StatusPending FileStatus = "pending"

	// StatusProcessing means a backend worker is extracting the file.
	StatusProcessing FileStatus = "processing"

	// StatusCompleted means extraction finished and content is available.
	StatusCompleted FileStatus = "completed"

	// StatusFailed means extraction failed. Content is usually empty.
	StatusFailed FileStatus = "failed"
)

// KnownStatuses lists the states the backend documents, in lifecycle order.
var KnownStatuses = []FileStatus{StatusPending, StatusProcessing, StatusCompleted, StatusFailed}

var titleCaser = cases.Title(language.English)

// ParseFileStatus normalizes s and reports whether it is a known state.
// The empty string is not a status; callers use it to mean "any".
func ParseFileStatus(s string) (FileStatus, bool) {
	st := FileStatus(strings.ToLower(strings.TrimSpace(s)))
	return st, st.IsKnown()
}

// IsKnown reports whether s is one of KnownStatuses.
func (s FileStatus) IsKnown() bool {
	for _, k := range KnownStatuses {
		if s == k {
			return true
		}
	}
	return false
}

// String returns the wire value.
func (s FileStatus) String() string {
	return string(s)
}

// Label returns the status for display, for example "Completed".
// An empty status is shown as "Unknown".
func (s FileStatus) Label() string {
	if s == "" {
		return "Unknown"
	}
	return titleCaser.String(string(s))
}

// IsTerminal reports whether no further processing will happen.
func (s FileStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}
