package model

import "testing"

func TestFileListing(t *testing.T) {
	t.Parallel()

	files := make([]File, 50)

	t.Run("first full page", func(t *testing.T) {
		t.Parallel()
		l := &FileListing{Files: files, Offset: 0, Limit: 50}
		if got := l.Showing(); got != "Showing 1 - 50" {
			t.Errorf("expected 'Showing 1 - 50', got %q", got)
		}
		if l.HasPrevious() {
			t.Error("expected no previous page")
		}
		if !l.HasNext() || l.NextOffset() != 50 {
			t.Errorf("expected next page at 50, got %v/%d", l.HasNext(), l.NextOffset())
		}
	})

	t.Run("short last page", func(t *testing.T) {
		t.Parallel()
		l := &FileListing{Files: files[:7], Offset: 100, Limit: 50}
		if got := l.Showing(); got != "Showing 101 - 107" {
			t.Errorf("expected 'Showing 101 - 107', got %q", got)
		}
		if l.HasNext() {
			t.Error("expected no next page")
		}
		if l.PreviousOffset() != 50 {
			t.Errorf("expected previous offset 50, got %d", l.PreviousOffset())
		}
	})

	t.Run("empty page", func(t *testing.T) {
		t.Parallel()
		l := &FileListing{Offset: 30, Limit: 50}
		if l.Showing() != "" {
			t.Errorf("expected empty position line, got %q", l.Showing())
		}
		if l.PreviousOffset() != 0 {
			t.Errorf("expected previous offset 0, got %d", l.PreviousOffset())
		}
	})
}
