package content

import "sort"

// Window is the transient display state of one content item: whether the
// full text is shown and which table page is current. It is never persisted.
type Window struct {
	Expanded bool `json:"expanded"`
	Page     int  `json:"page"`
}

// NewWindow returns a collapsed window on page 1.
func NewWindow() *Window {
	return &Window{Page: 1}
}

// Toggle flips the expanded flag and returns the new value.
func (w *Window) Toggle() bool {
	w.Expanded = !w.Expanded
	return w.Expanded
}

// Navigate applies n to the current page within totalRows rows of pageSize.
// Moves outside [1, totalPages] leave the page unchanged.
func (w *Window) Navigate(n Nav, totalRows, pageSize int) int {
	w.Page = NewPaginator(totalRows, pageSize).Apply(w.current(), n)
	return w.Page
}

// GoTo moves to page when it is in range and returns the resulting page.
func (w *Window) GoTo(page, totalRows, pageSize int) int {
	w.Page = NewPaginator(totalRows, pageSize).GoTo(w.current(), page)
	return w.Page
}

func (w *Window) current() int {
	if w.Page < 1 {
		return 1
	}
	return w.Page
}

// WindowSet holds the windows of one view, keyed by item index. A zero
// WindowSet is ready to use. It is not safe for concurrent use; each view
// owns its own set.
type WindowSet struct {
	windows map[int]*Window
}

// NewWindowSet returns an empty set.
func NewWindowSet() *WindowSet {
	return &WindowSet{windows: make(map[int]*Window)}
}

// Get returns the window for item index, creating it on first use.
func (s *WindowSet) Get(index int) *Window {
	if s.windows == nil {
		s.windows = make(map[int]*Window)
	}
	w, ok := s.windows[index]
	if !ok {
		w = NewWindow()
		s.windows[index] = w
	}
	return w
}

// Toggle flips the expanded flag of item index.
func (s *WindowSet) Toggle(index int) bool {
	return s.Get(index).Toggle()
}

// Reset discards every window. Call it when a new file is loaded.
func (s *WindowSet) Reset() {
	s.windows = make(map[int]*Window)
}

// Expanded returns the sorted indexes of expanded items.
func (s *WindowSet) Expanded() []int {
	var out []int
	for i, w := range s.windows {
		if w.Expanded {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}

// Len returns the number of windows created so far.
func (s *WindowSet) Len() int {
	return len(s.windows)
}
