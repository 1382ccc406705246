// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/glamour"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thewaffle/waffle/internal/model"
)

func TestContextFor(t *testing.T) {
	assert.Equal(t, ContextHuman, ContextFor(model.RoleHuman))
	assert.Equal(t, ContextAssistant, ContextFor(model.RoleAssistant))
	assert.Panics(t, func() { ContextFor(model.Role(99)) })
}

func TestTerminal_RendersText(t *testing.T) {
	r := NewRenderer()
	out := r.Terminal(ContextHuman, "hello **world**", 60)
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "world")
	assert.NotContains(t, out, "\n\n\n")
}

func TestTerminal_Empty(t *testing.T) {
	r := NewRenderer()
	assert.Equal(t, "", r.Terminal(ContextAssistant, "  \n", 60))
}

func TestTerminal_CachesRenderer(t *testing.T) {
	r := NewRenderer()
	calls := 0
	r.newTerm = func(ctx Context, width int) (*glamour.TermRenderer, error) {
		calls++
		return newTermRenderer(ContextHuman, width)
	}

	first := r.Terminal(ContextHuman, "same text", 40)
	second := r.Terminal(ContextHuman, "same text", 40)
	assert.Equal(t, first, second)
	r.Terminal(ContextHuman, "other text", 40)
	assert.Equal(t, 1, calls)

	r.Terminal(ContextHuman, "other text", 50)
	assert.Equal(t, 2, calls)
}

func TestTerminal_FallsBackOnError(t *testing.T) {
	r := NewRenderer()
	r.newTerm = func(Context, int) (*glamour.TermRenderer, error) {
		return nil, errors.New("no style")
	}
	assert.Equal(t, "# raw", r.Terminal(ContextAssistant, "# raw", 40))
}

func TestHTML(t *testing.T) {
	r := NewRenderer()

	tests := []struct {
		name     string
		ctx      Context
		input    string
		contains []string
		excludes []string
	}{
		{
			name:     "bold",
			ctx:      ContextAssistant,
			input:    "**bold**",
			contains: []string{`<div class="bubble assistant">`, "<strong>bold</strong>"},
		},
		{
			name:     "gfm table",
			ctx:      ContextAssistant,
			input:    "| a | b |\n|---|---|\n| 1 | 2 |",
			contains: []string{"<table>", "<td>1</td>"},
		},
		{
			name:     "script stripped",
			ctx:      ContextHuman,
			input:    "hi <script>alert(1)</script>",
			contains: []string{`<div class="bubble human">`, "hi"},
			excludes: []string{"<script>", "alert(1)</script>"},
		},
		{
			name:     "javascript link stripped",
			ctx:      ContextHuman,
			input:    "[x](javascript:alert(1))",
			excludes: []string{"javascript:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := r.HTML(tt.ctx, tt.input)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestRenderCmd(t *testing.T) {
	r := NewRenderer()
	turn := model.NewAssistantTurn("plain answer")

	msg := r.RenderCmd(turn, 50)()
	rendered, ok := msg.(RenderedMsg)
	require.True(t, ok)
	assert.Equal(t, turn.ID, rendered.TurnID)
	assert.Equal(t, 50, rendered.Width)
	assert.True(t, strings.Contains(rendered.Output, "plain answer"))
}
