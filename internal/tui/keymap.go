package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the dashboard key bindings.
type KeyMap struct {
	NextTab     key.Binding
	PrevTab     key.Binding
	Search      key.Binding
	ClearSearch key.Binding
	NextPage    key.Binding
	PrevPage    key.Binding
	FirstPage   key.Binding
	LastPage    key.Binding
	PageSize    key.Binding
	Category    key.Binding
	Refresh     key.Binding
	Delete      key.Binding
	Quit        key.Binding
}

func newBinding(keys []string, display, help string) key.Binding {
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(display, help),
	)
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextTab:     newBinding([]string{"tab"}, "tab", "next tab"),
		PrevTab:     newBinding([]string{"shift+tab"}, "shift+tab", "prev tab"),
		Search:      newBinding([]string{"/"}, "/", "search"),
		ClearSearch: newBinding([]string{"esc"}, "esc", "clear search"),
		NextPage:    newBinding([]string{"n", "right"}, "n/→", "next page"),
		PrevPage:    newBinding([]string{"p", "left"}, "p/←", "prev page"),
		FirstPage:   newBinding([]string{"home"}, "home", "first page"),
		LastPage:    newBinding([]string{"end"}, "end", "last page"),
		PageSize:    newBinding([]string{"s"}, "s", "page size"),
		Category:    newBinding([]string{"f"}, "f", "cycle status filter"),
		Refresh:     newBinding([]string{"r"}, "r", "refresh"),
		Delete:      newBinding([]string{"x"}, "x", "delete selected"),
		Quit:        newBinding([]string{"q", "ctrl+c"}, "q", "quit"),
	}
}
