package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Toggle    key.Binding
	FirstPage key.Binding
	PrevPage  key.Binding
	NextPage  key.Binding
	LastPage  key.Binding
	PrevFile  key.Binding
	NextFile  key.Binding
	Reload    key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous item"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next item"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "expand/collapse"),
		),
		FirstPage: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "first page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next page"),
		),
		LastPage: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "last page"),
		),
		PrevFile: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "previous file"),
		),
		NextFile: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next file"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// helpLine lists the short help of the given bindings.
func helpLine(bindings ...key.Binding) []string {
	out := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		out = append(out, h.Key+" "+h.Desc)
	}
	return out
}
