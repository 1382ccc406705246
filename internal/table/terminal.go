// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package table

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/thewaffle/waffle/internal/model"
)

// =============================================================================
// TERMINAL RENDERING
// =============================================================================

// Styles controls terminal table rendering.
type Styles struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Link   lipgloss.Style
	Empty  lipgloss.Style
	Header lipgloss.Style
	Even   lipgloss.Style
	Odd    lipgloss.Style
	Border lipgloss.Style
}

// DefaultStyles returns plain styles suitable for non-themed output.
func DefaultStyles() Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true),
		Label:  lipgloss.NewStyle().Bold(true),
		Link:   lipgloss.NewStyle().Underline(true),
		Empty:  lipgloss.NewStyle().Italic(true),
		Header: lipgloss.NewStyle().Bold(true).Padding(0, 1),
		Even:   lipgloss.NewStyle().Padding(0, 1),
		Odd:    lipgloss.NewStyle().Padding(0, 1),
		Border: lipgloss.NewStyle(),
	}
}

// RenderTerminal renders tables for the terminal with default styles.
func RenderTerminal(tables []model.TableExtraction, width int) string {
	return RenderTerminalStyled(tables, width, DefaultStyles())
}

// RenderTerminalStyled renders tables for the terminal. A width of zero
// lets each table size itself.
func RenderTerminalStyled(tables []model.TableExtraction, width int, st Styles) string {
	if len(tables) == 0 {
		return st.Empty.Render("No data available")
	}

	var b strings.Builder
	for i, t := range tables {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(st.Title.Render(fmt.Sprintf("Table %d", i+1)))
		b.WriteString("\n")
		b.WriteString(st.Label.Render("Title: ") + t.Meta.TableHeading + "\n")
		b.WriteString(st.Label.Render("PDF URL: ") + st.Link.Render(t.Meta.PDFURL) + "\n")
		b.WriteString(st.Label.Render("Page Number: ") + fmt.Sprint(t.Meta.PageNumber) + "\n")

		if t.Empty() {
			b.WriteString(st.Empty.Render("No table data available"))
			continue
		}

		tbl := ltable.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(st.Border).
			Headers(t.Headers()...).
			Rows(t.Rows()...).
			StyleFunc(func(row, col int) lipgloss.Style {
				switch {
				case row == ltable.HeaderRow:
					return st.Header
				case row%2 == 0:
					return st.Even
				default:
					return st.Odd
				}
			})
		if width > 0 {
			tbl = tbl.Width(width)
		}
		b.WriteString(tbl.Render())
	}
	return b.String()
}
