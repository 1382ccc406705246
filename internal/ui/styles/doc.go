// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the waffle TUI.
//
// Colors are lipgloss.AdaptiveColor values so the same palette works on
// light and dark terminals. A Theme precomputes every style once; views
// read from it and never build styles inside View.
//
// # Palette
//
//   - Brand: the waffle orange used for the header and focus rings
//   - Tags: Graphs, Explain and Reason each have a fixed chip color
//   - Bubbles: human turns are right-aligned, assistant turns left-aligned
//   - Semantic: Emerald for success, Rose for errors, Amber for notices
package styles
