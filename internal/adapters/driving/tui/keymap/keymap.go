// Package keymap defines keybindings for the chat TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the chat TUI.
type KeyMap struct {
	// Quit closes the session and exits.
	Quit key.Binding

	// Send submits the typed question.
	Send key.Binding

	// ScrollUp scrolls the transcript up one page.
	ScrollUp key.Binding

	// ScrollDown scrolls the transcript down one page.
	ScrollDown key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "ask"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "scroll down"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.ScrollUp, k.Quit}
}

// FullHelp returns every binding grouped for a help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Send, k.Quit},
		{k.ScrollUp, k.ScrollDown},
	}
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
