package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up        key.Binding
	down      key.Binding
	enter     key.Binding
	back      key.Binding
	queue     key.Binding
	playPause key.Binding
	next      key.Binding
	prev      key.Binding
	seekFwd   key.Binding
	seekBack  key.Binding
	shuffle   key.Binding
	repeat    key.Binding
	remove    key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play")),
		back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		queue:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "queue")),
		playPause: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		next:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		prev:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "previous")),
		seekFwd:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "seek +5s")),
		seekBack:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "seek -5s")),
		shuffle:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "shuffle")),
		repeat:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "repeat")),
		remove:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.playPause, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.playPause, k.next, k.prev},
		{k.seekBack, k.seekFwd, k.shuffle, k.repeat},
		{k.queue, k.remove, k.quit},
	}
}
