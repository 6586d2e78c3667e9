// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help toggles the help view.
	Help key.Binding

	// Back returns to the previous view.
	Back key.Binding

	// Search opens the search view.
	Search key.Binding

	// Up navigates up in a list.
	Up key.Binding

	// Down navigates down in a list.
	Down key.Binding

	// Select opens the selected chapter.
	Select key.Binding

	// PrevChapter opens the previous chapter from the reader.
	PrevChapter key.Binding

	// NextChapter opens the next chapter from the reader.
	NextChapter key.Binding

	// Top jumps to the start of the chapter.
	Top key.Binding

	// Bottom jumps to the end of the chapter.
	Bottom key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		PrevChapter: key.NewBinding(
			key.WithKeys("[", "h"),
			key.WithHelp("[/h", "previous chapter"),
		),
		NextChapter: key.NewBinding(
			key.WithKeys("]", "l"),
			key.WithHelp("]/l", "next chapter"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Help, k.Quit}
}

// ReaderHelp returns keybindings for the reader view.
func (k *KeyMap) ReaderHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.PrevChapter, k.NextChapter, k.Back}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.PrevChapter, k.NextChapter, k.Top, k.Bottom},
		{k.Search, k.Back, k.Help, k.Quit},
	}
}

// HelpLine renders bindings as "key action" pairs.
func HelpLine(bindings []key.Binding) string {
	line := ""
	for i, b := range bindings {
		if i > 0 {
			line += "  "
		}
		h := b.Help()
		line += "[" + h.Key + "] " + h.Desc
	}
	return line
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
