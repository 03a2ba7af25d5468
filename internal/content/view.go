package content

import "encoding/json"

// DefaultMaxChars is the number of characters classified for a collapsed item.
const DefaultMaxChars = 2000

// TruncatedMarker follows the rendering of a collapsed item that was cut.
const TruncatedMarker = "Content truncated..."

// Blob is one extracted text item as received from the backend. It is never
// modified after construction.
type Blob struct {
	Text         string
	DeclaredType string
	// TotalLength is the backend's character count for the item. It is used
	// for display only.
	TotalLength int
}

// NewBlob returns a Blob. A non-positive totalLength is replaced by the
// character length of text.
func NewBlob(text, declaredType string, totalLength int) Blob {
	if totalLength <= 0 {
		totalLength = RuneLen(text)
	}
	return Blob{Text: text, DeclaredType: declaredType, TotalLength: totalLength}
}

// Renderer bounds how much of a blob is classified and how many table rows
// are shown at once.
type Renderer struct {
	MaxChars int
	PageSize int
}

// NewRenderer returns a Renderer with the default limits.
func NewRenderer() *Renderer {
	return &Renderer{MaxChars: DefaultMaxChars, PageSize: DefaultPageSize}
}

// Rendering is the displayable form of one blob under one window.
type Rendering struct {
	Result Result `json:"result"`
	Kind   Kind   `json:"kind"`
	Badge  string `json:"badge"`

	// Expandable is true when the blob is longer than the limit, whether or
	// not it is currently expanded.
	Expandable bool `json:"expandable"`
	Expanded   bool `json:"expanded"`
	// Truncated is true when only a prefix was rendered; the marker must
	// follow the content.
	Truncated   bool `json:"truncated"`
	TotalLength int  `json:"total_length"`

	// Page is the current table page; nil for other kinds.
	Page *TablePage `json:"page,omitempty"`
}

// MarshalJSON encodes the rendering. A paginated table carries only its
// current page: the result keeps delimiter and headers and drops the rows.
func (r Rendering) MarshalJSON() ([]byte, error) {
	type rendering Rendering
	out := rendering(r)
	if t, ok := r.Result.(*TableResult); ok && r.Page != nil {
		out.Result = &TableResult{Delimiter: t.Delimiter, Headers: t.Headers}
	}
	return json.Marshal(out)
}

// Render classifies b under w. A nil window renders collapsed on page 1.
// An empty blob renders nothing and yields nil.
func (r *Renderer) Render(b Blob, w *Window) *Rendering {
	if b.Text == "" {
		return nil
	}
	if w == nil {
		w = NewWindow()
	}

	maxChars := r.MaxChars
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	expandable := RuneLen(b.Text) > maxChars
	text := b.Text
	if expandable && !w.Expanded {
		text = truncateRunes(b.Text, maxChars)
	}

	res := Classify(text, b.DeclaredType)
	out := &Rendering{
		Result:      res,
		Kind:        res.Kind(),
		Badge:       res.Badge(),
		Expandable:  expandable,
		Expanded:    w.Expanded,
		Truncated:   expandable && !w.Expanded,
		TotalLength: b.TotalLength,
	}
	if t, ok := res.(*TableResult); ok {
		out.Page = Paginate(t, w.current(), r.PageSize)
	}
	return out
}

// RenderAll renders every blob with the window of the same index in set.
// Empty blobs produce nil entries so indexes stay aligned.
func (r *Renderer) RenderAll(blobs []Blob, set *WindowSet) []*Rendering {
	if set == nil {
		set = NewWindowSet()
	}
	out := make([]*Rendering, len(blobs))
	for i, b := range blobs {
		out[i] = r.Render(b, set.Get(i))
	}
	return out
}
