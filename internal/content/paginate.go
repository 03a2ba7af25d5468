package content

import "fmt"

// DefaultPageSize is the number of table rows shown per page.
const DefaultPageSize = 50

// Nav is a pagination action.
type Nav int

const (
	// NavFirst moves to page 1.
	NavFirst Nav = iota
	// NavPrev moves one page back.
	NavPrev
	// NavNext moves one page forward.
	NavNext
	// NavLast moves to the last page.
	NavLast
)

// String returns the action name.
func (n Nav) String() string {
	switch n {
	case NavFirst:
		return "first"
	case NavPrev:
		return "previous"
	case NavNext:
		return "next"
	case NavLast:
		return "last"
	default:
		return "unknown"
	}
}

// Paginator computes page boundaries for a number of rows. Pages are
// 1-based.
type Paginator struct {
	total int
	size  int
}

// NewPaginator returns a Paginator over total rows. A non-positive size
// falls back to DefaultPageSize.
func NewPaginator(total, size int) Paginator {
	if size <= 0 {
		size = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}
	return Paginator{total: total, size: size}
}

// TotalPages returns ceil(total/size). Zero rows give zero pages.
func (p Paginator) TotalPages() int {
	return (p.total + p.size - 1) / p.size
}

// GoTo returns target when it lies in [1, TotalPages], and current
// otherwise.
func (p Paginator) GoTo(current, target int) int {
	if target >= 1 && target <= p.TotalPages() {
		return target
	}
	return current
}

// Apply performs a navigation action from current.
func (p Paginator) Apply(current int, n Nav) int {
	switch n {
	case NavFirst:
		return p.GoTo(current, 1)
	case NavPrev:
		return p.GoTo(current, current-1)
	case NavNext:
		return p.GoTo(current, current+1)
	case NavLast:
		return p.GoTo(current, p.TotalPages())
	default:
		return current
	}
}

// Disabled reports whether the control for n is disabled on current.
// First and previous are disabled on page 1; next and last on the last page.
func (p Paginator) Disabled(current int, n Nav) bool {
	switch n {
	case NavFirst, NavPrev:
		return current == 1
	case NavNext, NavLast:
		return current == p.TotalPages()
	default:
		return true
	}
}

// ShowControls reports whether pagination controls are shown at all.
func (p Paginator) ShowControls() bool {
	return p.TotalPages() > 1
}

// Bounds returns the half-open row range [start, end) of page.
func (p Paginator) Bounds(page int) (start, end int) {
	if page < 1 {
		page = 1
	}
	start = (page - 1) * p.size
	end = start + p.size
	if start > p.total {
		start = p.total
	}
	if end > p.total {
		end = p.total
	}
	return start, end
}

// NumberedRow is a table row with its 1-based position among all data rows.
type NumberedRow struct {
	Number int      `json:"number"`
	Cells  []string `json:"cells"`
}

// TablePage is one page of a TableResult.
type TablePage struct {
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
	TotalRows  int           `json:"total_rows"`
	Start      int           `json:"start"`
	End        int           `json:"end"`
	Headers    []string      `json:"headers"`
	Rows       []NumberedRow `json:"rows"`
	Controls   bool          `json:"controls"`
	Disabled   []string      `json:"disabled,omitempty"`
}

// Paginate cuts page out of t using pageSize rows per page. page is used as
// given; a page beyond the data yields no rows.
func Paginate(t *TableResult, page, pageSize int) *TablePage {
	if page < 1 {
		page = 1
	}
	p := NewPaginator(len(t.Rows), pageSize)
	start, end := p.Bounds(page)

	rows := make([]NumberedRow, 0, end-start)
	for i := start; i < end; i++ {
		rows = append(rows, NumberedRow{Number: i + 1, Cells: t.Rows[i]})
	}

	tp := &TablePage{
		Page:       page,
		TotalPages: p.TotalPages(),
		TotalRows:  len(t.Rows),
		Start:      start,
		End:        end,
		Headers:    t.HeaderLabels(),
		Rows:       rows,
		Controls:   p.ShowControls(),
	}
	for _, n := range []Nav{NavFirst, NavPrev, NavNext, NavLast} {
		if p.Disabled(page, n) {
			tp.Disabled = append(tp.Disabled, n.String())
		}
	}
	return tp
}

// Info returns the position summary, for example
// "Page 2 of 3 • Rows 51-100 of 120". A page past the data reports
// "No rows" with the total instead of a range.
func (tp *TablePage) Info() string {
	if tp.Start >= tp.End {
		return fmt.Sprintf("Page %d of %d • No rows (%d total)", tp.Page, tp.TotalPages, tp.TotalRows)
	}
	return fmt.Sprintf("Page %d of %d • Rows %d-%d of %d",
		tp.Page, tp.TotalPages, tp.Start+1, tp.End, tp.TotalRows)
}

// IsDisabled reports whether the control for n is disabled on this page.
func (tp *TablePage) IsDisabled(n Nav) bool {
	for _, d := range tp.Disabled {
		if d == n.String() {
			return true
		}
	}
	return false
}
