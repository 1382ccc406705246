// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings for the chat interface.
type KeyMap struct {
	Submit      key.Binding
	Back        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	TagGraphs   key.Binding
	TagExplain  key.Binding
	TagReason   key.Binding
	Tables      key.Binding
	PlayPause   key.Binding
	Restart     key.Binding
	Speed       key.Binding
	Listen      key.Binding
	Copy        key.Binding
	SwitchFocus key.Binding
}

// DefaultKeyMap returns the default key bindings for the chat interface.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "ask"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "back"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "scroll down"),
		),
		TagGraphs: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("C-g", "graphs"),
		),
		TagExplain: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("C-e", "explain"),
		),
		TagReason: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r", "reason"),
		),
		Tables: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "tables"),
		),
		PlayPause: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "play/pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("C-o", "restart"),
		),
		Speed: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("C-f", "speed"),
		),
		Listen: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("C-l", "listen"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("C-y", "copy"),
		),
	}
}

// =============================================================================
// KEY BINDING HELPERS
// =============================================================================

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.TagGraphs, k.TagExplain, k.TagReason, k.Tables, k.PlayPause, k.Listen, k.Back}
}

// FullHelp returns the bindings grouped by area.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Back, k.PageUp, k.PageDown},
		{k.TagGraphs, k.TagExplain, k.TagReason, k.Tables},
		{k.PlayPause, k.Restart, k.Speed, k.Listen, k.Copy},
	}
}
