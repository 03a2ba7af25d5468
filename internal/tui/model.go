package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/parsescope/parsescope/internal/content"
	"github.com/parsescope/parsescope/internal/model"
	"github.com/parsescope/parsescope/internal/report"
)

// Loader fetches one file view. The returned view needs File and Content;
// the viewer renders it itself.
type Loader func(ctx context.Context, id int64) (*model.FileView, error)

// viewLoadedMsg carries the result of request seq.
type viewLoadedMsg struct {
	seq  uint64
	view *model.FileView
	err  error
}

// Model is the bubbletea model of the viewer.
type Model struct {
	ctx      context.Context
	load     Loader
	renderer *content.Renderer
	styles   Styles
	keys     keyMap

	ids     []int64
	current int

	// seq is the number of the newest load request. Results of older
	// requests are discarded.
	seq     uint64
	loading bool
	err     error

	view       *model.FileView
	windows    *content.WindowSet
	renderings []*content.Rendering
	selected   int

	viewport viewport.Model
	width    int
	height   int
}

// Option configures a Model.
type Option func(*Model)

// WithRenderer sets the truncation and page size limits.
func WithRenderer(r *content.Renderer) Option {
	return func(m *Model) {
		if r != nil {
			m.renderer = r
		}
	}
}

// WithStyles replaces the default styles.
func WithStyles(s Styles) Option {
	return func(m *Model) {
		m.styles = s
	}
}

// WithContext sets the context passed to the loader.
func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}

// New returns a viewer over the given files, starting with the first.
func New(load Loader, ids []int64, opts ...Option) Model {
	m := Model{
		ctx:      context.Background(),
		load:     load,
		renderer: content.NewRenderer(),
		styles:   DefaultStyles(),
		keys:     defaultKeyMap(),
		ids:      ids,
		windows:  content.NewWindowSet(),
		viewport: newViewport(80, 20),
	}
	for _, opt := range opts {
		opt(&m)
	}
	if len(ids) > 0 {
		// Init issues request 1.
		m.seq = 1
		m.loading = true
	}
	return m
}

func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.KeyMap = viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown", "f")),
		PageUp:       key.NewBinding(key.WithKeys("pgup", "b")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
	}
	return vp
}

// Init starts loading the first file.
func (m Model) Init() tea.Cmd {
	if len(m.ids) == 0 {
		return nil
	}
	return m.fetchCmd(m.seq, m.ids[m.current])
}

// fetch issues a new request for the current file and returns the command
// that performs it.
func (m Model) fetch() (Model, tea.Cmd) {
	if len(m.ids) == 0 {
		return m, nil
	}
	m.seq++
	m.loading = true
	m.err = nil
	return m, m.fetchCmd(m.seq, m.ids[m.current])
}

func (m Model) fetchCmd(seq uint64, id int64) tea.Cmd {
	ctx, load := m.ctx, m.load
	return func() tea.Msg {
		view, err := load(ctx, id)
		return viewLoadedMsg{seq: seq, view: view, err: err}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-5, 1)
		m.refreshContent()
		return m, nil

	case viewLoadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.refreshContent()
			return m, nil
		}
		m.err = nil
		m.setView(msg.view)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Reload):
		return m.fetch()
	case key.Matches(msg, m.keys.NextFile):
		if m.current+1 < len(m.ids) {
			m.current++
			m.windows.Reset()
			m.selected = 0
			return m.fetch()
		}
		return m, nil
	case key.Matches(msg, m.keys.PrevFile):
		if m.current > 0 {
			m.current--
			m.windows.Reset()
			m.selected = 0
			return m.fetch()
		}
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
			m.refreshContent()
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.selected+1 < len(m.renderings) {
			m.selected++
			m.refreshContent()
		}
		return m, nil
	case key.Matches(msg, m.keys.Toggle):
		m.toggle()
		return m, nil
	case key.Matches(msg, m.keys.FirstPage):
		m.navigate(content.NavFirst)
		return m, nil
	case key.Matches(msg, m.keys.PrevPage):
		m.navigate(content.NavPrev)
		return m, nil
	case key.Matches(msg, m.keys.NextPage):
		m.navigate(content.NavNext)
		return m, nil
	case key.Matches(msg, m.keys.LastPage):
		m.navigate(content.NavLast)
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// setView replaces the displayed file. The display windows are kept when
// the same file is reloaded.
func (m *Model) setView(v *model.FileView) {
	if m.view == nil || v == nil || m.view.FileID != v.FileID {
		m.windows.Reset()
		m.selected = 0
	}
	m.view = v
	m.rerender()
	if m.selected >= len(m.renderings) {
		m.selected = max(len(m.renderings)-1, 0)
	}
	m.viewport.GotoTop()
}

func (m *Model) rerender() {
	if m.view == nil {
		m.renderings = nil
	} else {
		m.renderings = m.renderer.RenderAll(m.view.Blobs(), m.windows)
	}
	m.refreshContent()
}

// selectedRendering returns the rendering under the cursor, or nil.
func (m *Model) selectedRendering() *content.Rendering {
	if m.selected < 0 || m.selected >= len(m.renderings) {
		return nil
	}
	return m.renderings[m.selected]
}

func (m *Model) toggle() {
	r := m.selectedRendering()
	if r == nil || !r.Expandable {
		return
	}
	m.windows.Toggle(m.selected)
	m.rerender()
}

func (m *Model) navigate(n content.Nav) {
	r := m.selectedRendering()
	if r == nil || r.Page == nil || !r.Page.Controls {
		return
	}
	w := m.windows.Get(m.selected)
	before := w.Page
	if w.Navigate(n, r.Page.TotalRows, m.renderer.PageSize) != before {
		m.rerender()
	}
}

func (m *Model) refreshContent() {
	m.viewport.SetContent(m.body())
}

// body renders the scrollable part of the screen.
func (m Model) body() string {
	switch {
	case m.err != nil:
		return m.styles.Error.Render("Error: " + m.err.Error())
	case m.view == nil:
		return m.styles.Meta.Render("Loading...")
	case !m.view.HasContent():
		return m.styles.Meta.Render("No content extracted.")
	}

	var sb strings.Builder
	for i, r := range m.renderings {
		rec := m.view.Content[i]
		cursor := "  "
		style := m.styles.Item
		if i == m.selected {
			cursor = "> "
			style = m.styles.Selected
		}
		badge := "EMPTY"
		if r != nil {
			badge = r.Badge
		}
		header := fmt.Sprintf("%s[%d/%d] %s", cursor, i+1, len(m.renderings), m.styles.Badge.Render(badge))
		if rec.ContentType != "" {
			header += "  " + rec.ContentType
		}
		sb.WriteString(style.Render(header))
		sb.WriteString("\n")

		if r == nil {
			sb.WriteString("\n")
			continue
		}
		sb.WriteString(report.ItemBody(r))
		if r.Truncated {
			sb.WriteString(m.styles.Marker.Render(content.TruncatedMarker))
			sb.WriteString("\n")
		}
		if hint := report.ExpandHint(r); hint != "" {
			sb.WriteString(m.styles.Hint.Render(hint))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// View renders the screen.
func (m Model) View() string {
	var sb strings.Builder

	title := "parsescope"
	if m.view != nil && m.view.File != nil {
		title = m.view.File.Filename
	} else if len(m.ids) > 0 {
		title = fmt.Sprintf("file %d", m.ids[m.current])
	}
	sb.WriteString(m.styles.Title.Render(title))
	if len(m.ids) > 1 {
		sb.WriteString(m.styles.Meta.Render(fmt.Sprintf("  (%d of %d)", m.current+1, len(m.ids))))
	}
	sb.WriteString("\n")

	if m.view != nil && m.view.File != nil {
		f := m.view.File
		sb.WriteString(m.styles.Meta.Render(fmt.Sprintf("%s · %s · %s",
			f.FileType, model.FormatBytes(f.FileSize), f.Status.Label())))
	}
	sb.WriteString("\n")

	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")
	sb.WriteString(m.styles.StatusBar.Render(m.statusLine()))
	return sb.String()
}

func (m Model) statusLine() string {
	parts := []string{}
	if m.loading {
		parts = append(parts, "Loading...")
	}
	if r := m.selectedRendering(); r != nil && r.Page != nil && r.Page.Controls {
		parts = append(parts, r.Page.Info())
	}
	parts = append(parts, helpLine(m.keys.Up, m.keys.Down, m.keys.Toggle, m.keys.PrevPage, m.keys.NextPage, m.keys.Reload, m.keys.Quit)...)
	return strings.Join(parts, " · ")
}

// Run starts the viewer in the alternate screen and blocks until it exits.
func Run(ctx context.Context, load Loader, ids []int64, opts ...Option) error {
	opts = append([]Option{WithContext(ctx)}, opts...)
	p := tea.NewProgram(New(load, ids, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
