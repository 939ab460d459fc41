package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up        key.Binding
	down      key.Binding
	enter     key.Binding
	back      key.Binding
	tab       key.Binding
	search    key.Binding
	watchlist key.Binding
	rate      key.Binding
	remove    key.Binding
	stars     key.Binding
	retry     key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		tab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch list")),
		search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		watchlist: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "watchlist +/-")),
		rate:      key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "rate")),
		remove:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove")),
		stars:     key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "stars")),
		retry:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.tab},
		{k.search, k.watchlist, k.rate, k.remove},
		{k.back, k.retry, k.quit},
	}
}
