// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/thewaffle/waffle/internal/model"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header     lipgloss.Style
	HeaderDot  lipgloss.Style
	Greeting   lipgloss.Style
	Subtitle   lipgloss.Style
	LangToggle lipgloss.Style

	// ==========================================================================
	// LIST STYLES
	// ==========================================================================

	SectionTitle lipgloss.Style
	ListItem     lipgloss.Style
	ListSelected lipgloss.Style
	ListAge      lipgloss.Style

	// ==========================================================================
	// CHAT STYLES
	// ==========================================================================

	HumanBubble     lipgloss.Style
	AssistantBubble lipgloss.Style
	RoleLabel       lipgloss.Style
	Status          lipgloss.Style
	Spinner         lipgloss.Style
	InputBox        lipgloss.Style
	InputBoxFocused lipgloss.Style
	Chip            lipgloss.Style
	ChipOff         lipgloss.Style
	SidePanel       lipgloss.Style
	DocBadge        lipgloss.Style

	// ==========================================================================
	// FOOTER STYLES
	// ==========================================================================

	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style
	Notice   lipgloss.Style

	// ==========================================================================
	// SEMANTIC STYLES
	// ==========================================================================

	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	MutedStyle   lipgloss.Style
}

var (
	defaultTheme *Theme
	themeOnce    sync.Once
)

// Default returns the process-wide theme, built on first use.
func Default() *Theme {
	themeOnce.Do(func() {
		defaultTheme = NewTheme()
	})
	return defaultTheme
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		ColorProfile: termenv.ColorProfile(),
	}
	lipgloss.SetHasDarkBackground(t.IsDark)
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary).
		Padding(0, 1)
	t.HeaderDot = lipgloss.NewStyle().
		Bold(true).
		Foreground(Orange)
	t.Greeting = lipgloss.NewStyle().
		Bold(true).
		Foreground(Orange).
		MarginTop(1)
	t.Subtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)
	t.LangToggle = lipgloss.NewStyle().
		Foreground(Cyan).
		Padding(0, 1)

	// Lists
	t.SectionTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary).
		MarginTop(1)
	t.ListItem = lipgloss.NewStyle().
		Foreground(TextPrimary).
		PaddingLeft(2)
	t.ListSelected = lipgloss.NewStyle().
		Bold(true).
		Foreground(Orange).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(Orange).
		PaddingLeft(1)
	t.ListAge = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Bubbles
	t.HumanBubble = lipgloss.NewStyle().
		Foreground(HumanBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(HumanBubbleBorder).
		Padding(0, 1)
	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 1)
	t.RoleLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary)
	t.Status = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)
	t.Spinner = lipgloss.NewStyle().
		Foreground(Orange)

	// Input
	t.InputBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.InputBoxFocused = t.InputBox.
		BorderForeground(Orange)

	// Tag chips
	t.Chip = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Padding(0, 1).
		MarginRight(1)
	t.ChipOff = lipgloss.NewStyle().
		Foreground(TextMuted).
		Padding(0, 1).
		MarginRight(1)

	t.SidePanel = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(Overlay).
		PaddingLeft(1)
	t.DocBadge = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Orange).
		Padding(0, 1)

	// Footer
	t.HelpKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)
	t.HelpDesc = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.Notice = lipgloss.NewStyle().
		Foreground(Amber)

	// Semantic
	t.SuccessStyle = lipgloss.NewStyle().Foreground(Emerald).Bold(true)
	t.ErrorStyle = lipgloss.NewStyle().Foreground(Rose).Bold(true)
	t.MutedStyle = lipgloss.NewStyle().Foreground(TextMuted)
}

// TagChip renders a tag chip, filled when selected.
func (t *Theme) TagChip(tag model.Tag, selected bool) string {
	if selected {
		return t.Chip.Background(TagColor(tag)).Render(string(tag))
	}
	return t.ChipOff.Render(string(tag))
}

// Success renders msg with the success indicator.
func (t *Theme) Success(msg string) string {
	return t.SuccessStyle.Render(StatusIndicators.Success + " " + msg)
}

// Error renders msg with the error indicator.
func (t *Theme) Error(msg string) string {
	return t.ErrorStyle.Render(StatusIndicators.Error + " " + msg)
}
