// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"github.com/thewaffle/waffle/internal/ui/styles"
)

// Run starts the full-screen TUI and blocks until it exits.
func Run(opts Options) error {
	if opts.Bridge == nil {
		opts.Bridge = &Bridge{}
	}
	m := New(styles.Default(), opts)

	p := tea.NewProgram(m, tea.WithAltScreen())
	opts.Bridge.Attach(p)

	if _, err := p.Run(); err != nil {
		return errors.Wrap(err, "run tui")
	}
	return nil
}
