// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/thewaffle/waffle/internal/model"
)

// =============================================================================
// BRAND COLORS
// =============================================================================

// Orange - Brand color, header dot, focus ring
var Orange = lipgloss.AdaptiveColor{Light: "#C2410C", Dark: "#FB923C"}

// OrangeDeep - Selected rows and active chips
var OrangeDeep = lipgloss.AdaptiveColor{Light: "#9A3412", Dark: "#7C2D12"}

// =============================================================================
// TAG COLORS
// =============================================================================

var (
	TagGraphs  = lipgloss.Color("#E3513E")
	TagExplain = lipgloss.Color("#07942D")
	TagReason  = lipgloss.Color("#4B0794")
)

// TagColor returns the chip color for a tag.
func TagColor(t model.Tag) lipgloss.Color {
	switch t {
	case model.TagGraphs:
		return TagGraphs
	case model.TagExplain:
		return TagExplain
	case model.TagReason:
		return TagReason
	default:
		return lipgloss.Color("#6B7280")
	}
}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

var (
	Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}
	Rose    = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}
	Amber   = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}
	Cyan    = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}
)

// =============================================================================
// SURFACE AND TEXT
// =============================================================================

var (
	SurfaceDim = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#181825"}
	Overlay    = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#313244"}

	TextPrimary   = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}
	TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}
	TextMuted     = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}
	TextInverse   = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}
)

// =============================================================================
// MESSAGE BUBBLE COLORS
// =============================================================================

// Human bubble - warm tones
var HumanBubbleFg = lipgloss.AdaptiveColor{Light: "#7C2D12", Dark: "#FFEDD5"}
var HumanBubbleBorder = lipgloss.AdaptiveColor{Light: "#FB923C", Dark: "#EA580C"}

// Assistant bubble - neutral tones
var AssistantBubbleFg = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#E5E7EB"}
var AssistantBubbleBorder = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#4B5563"}

// =============================================================================
// STATUS INDICATORS
// =============================================================================

// StatusIndicators are ASCII shapes shown next to colored status text.
var StatusIndicators = struct {
	Success string
	Error   string
	Info    string
	Active  string
}{
	Success: "[OK]",
	Error:   "[X]",
	Info:    "[i]",
	Active:  "[*]",
}

// =============================================================================
// SPINNER
// =============================================================================

// SpinnerConfig holds the frames of a spinner animation.
type SpinnerConfig struct {
	Frames []string
	FPS    int
}

// LineSpinner - Simple line rotation
var LineSpinner = SpinnerConfig{
	Frames: []string{"|", "/", "-", "\\"},
	FPS:    10,
}
