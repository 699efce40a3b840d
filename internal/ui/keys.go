package ui

import (
	"charm.land/bubbles/v2/key"
)

// viewerKeyMap holds the viewer bindings. It satisfies help.KeyMap so the
// footer bar and the help overlay render straight from the bindings.
type viewerKeyMap struct {
	ScrollDown key.Binding
	ScrollUp   key.Binding
	Top        key.Binding
	Bottom     key.Binding
	PrevSlide  key.Binding
	NextSlide  key.Binding
	Reload     key.Binding
	Configure  key.Binding
	Help       key.Binding
	Quit       key.Binding
}

var viewerKeys = viewerKeyMap{
	ScrollDown: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "scroll down"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "scroll up"),
	),
	Top: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	PrevSlide: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "prev slide"),
	),
	NextSlide: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "next slide"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Configure: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "configure"),
	),
	Help: key.NewBinding(
		key.WithKeys("?", "f1"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k viewerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ScrollDown, k.ScrollUp, k.PrevSlide, k.NextSlide, k.Reload, k.Configure, k.Help, k.Quit}
}

func (k viewerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ScrollDown, k.ScrollUp, k.Top, k.Bottom},
		{k.PrevSlide, k.NextSlide, k.Reload, k.Configure},
		{k.Help, k.Quit},
	}
}

// pickerKeyMap holds the saved-file picker bindings.
type pickerKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	Clean   key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

var pickerKeys = pickerKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open"),
	),
	Clean: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "clean stale"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k pickerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Clean, k.Refresh, k.Quit}
}

func (k pickerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// wizardKeyMap holds the bindings shared by the wizard steps. View-kind
// and slide-digit choices are matched on the raw key string, not here.
type wizardKeyMap struct {
	Prev    key.Binding
	Next    key.Binding
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	All     key.Binding
	None    key.Binding
	Confirm key.Binding
	Back    key.Binding
	Finish  key.Binding
}

var wizardKeys = wizardKeyMap{
	Prev: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp("←", "previous set"),
	),
	Next: key.NewBinding(
		key.WithKeys("right"),
		key.WithHelp("→", "skip set"),
	),
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("space", " "),
		key.WithHelp("space", "toggle"),
	),
	All: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "all"),
	),
	None: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "none"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "confirm"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Finish: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "finish"),
	),
}
