// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/thewaffle/waffle/internal/model"
	"github.com/thewaffle/waffle/internal/speech"
	"github.com/thewaffle/waffle/internal/table"
	"github.com/thewaffle/waffle/internal/ui/styles"
	"github.com/thewaffle/waffle/internal/util"
)

const (
	statusProcessing = "Processing query..."
	statusComplete   = "Query complete."
)

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	body := m.viewport.View()
	if tw := m.tablesWidth(); tw > 0 {
		panel := m.theme.SidePanel.
			Width(tw - 2).
			Height(m.viewport.Height).
			MaxHeight(m.viewport.Height).
			Render(table.RenderTerminal(m.deps.Controller.Tables(), tw-4))
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, panel)
	}

	// Stack vertically: header, transcript (+ tables), status, input, footer.
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderStatus(),
		m.renderInput(),
		m.renderSpeechBar(),
		m.help.View(m.keys),
	)
}

// =============================================================================
// HEADER
// =============================================================================

func (m Model) renderHeader() string {
	brand := m.theme.Header.Render("The") + m.theme.HeaderDot.Render("•") + m.theme.Header.Render("Waffle")
	doc := m.deps.Controller.Document()
	if doc != "" {
		doc = m.theme.DocBadge.Render(util.TruncateWidth(doc, max(10, m.width/3)))
	}
	lang := m.theme.LangToggle.Render(m.lang.Strings().Language)

	left := lipgloss.JoinHorizontal(lipgloss.Top, brand, " ", doc)
	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(lang))
	return left + strings.Repeat(" ", gap) + lang
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// refresh rebuilds the transcript content, following the tail while it
// was already at the bottom.
func (m *Model) refresh() {
	turns := m.deps.Controller.Turns()
	follow := m.viewport.AtBottom() || m.deps.Controller.Processing()

	var content string
	if len(turns) == 0 {
		content = m.theme.MutedStyle.Render(fmt.Sprintf("Ask anything about %s.", m.deps.Controller.Document()))
	} else {
		parts := make([]string, 0, len(turns))
		for _, turn := range turns {
			parts = append(parts, m.renderTurn(turn))
		}
		content = strings.Join(parts, "\n")
	}

	m.viewport.SetContent(content)
	if follow {
		m.viewport.GotoBottom()
	}
}

func (m Model) renderTurn(turn model.ConversationTurn) string {
	body, ok := m.rendered[m.renderKey(turn)]
	plain := !ok
	if plain {
		body = m.displayTurn(turn).Text
	}

	var style lipgloss.Style
	var align lipgloss.Position
	switch turn.Role {
	case model.RoleHuman:
		style, align = m.theme.HumanBubble, lipgloss.Right
	case model.RoleAssistant:
		style, align = m.theme.AssistantBubble, lipgloss.Left
	default:
		panic(fmt.Sprintf("chat: unknown role %d", turn.Role))
	}
	if plain {
		style = style.Width(m.bubbleWidth)
	}

	label := m.theme.RoleLabel.Render(turn.Role.DisplayName())
	bubble := lipgloss.JoinVertical(align, label, style.Render(body))
	return lipgloss.PlaceHorizontal(m.viewport.Width, align, bubble)
}

// =============================================================================
// STATUS AND INPUT
// =============================================================================

func (m Model) renderStatus() string {
	ctrl := m.deps.Controller
	status := ctrl.Status()
	switch {
	case ctrl.Processing():
		if status == "" {
			status = statusProcessing
		}
		return m.spinner.View() + " " + m.theme.Status.Render(util.TruncateWidth(util.FirstLine(status), m.width-2))
	case status != "":
		return m.theme.Error(util.TruncateWidth(status, m.width-6))
	case ctrl.LastAnswer() != "":
		return m.theme.MutedStyle.Render(statusComplete)
	default:
		return ""
	}
}

func (m Model) renderInput() string {
	chips := make([]string, 0, len(model.AllTags))
	for _, tag := range model.AllTags {
		chips = append(chips, m.theme.TagChip(tag, m.tags.Has(tag)))
	}
	tagBar := lipgloss.JoinHorizontal(lipgloss.Top, chips...)
	if m.translateOn {
		tagBar += m.theme.MutedStyle.Render("  translate: " + m.lang.TranslateTarget())
	}

	box := m.theme.InputBox
	if m.input.Focused() {
		box = m.theme.InputBoxFocused
	}
	return box.Width(max(10, m.transcriptWidth()-2)).Render(
		lipgloss.JoinVertical(lipgloss.Left, m.input.View(), tagBar),
	)
}

// =============================================================================
// SPEECH BAR
// =============================================================================

func (m Model) renderSpeechBar() string {
	s := m.lang.Strings()
	var parts []string

	if p := m.deps.Player; p != nil {
		action := s.Play
		switch p.State() {
		case speech.StatePlaying:
			action = s.Pause
		case speech.StatePaused:
			action = s.Resume
		}
		parts = append(parts,
			m.theme.HelpKey.Render("C-s")+" "+m.theme.HelpDesc.Render(action),
			m.theme.HelpKey.Render("C-o")+" "+m.theme.HelpDesc.Render(s.Restart),
			m.theme.HelpKey.Render("C-f")+" "+m.theme.HelpDesc.Render(s.RateLabel(p.Rate())),
		)
	}
	if r := m.deps.Recognizer; r != nil && r.Listening() {
		parts = append(parts, m.theme.Notice.Render(styles.StatusIndicators.Active+" "+s.RecognizerName))
	}

	bar := strings.Join(parts, "  ")
	if m.notice != "" {
		notice := m.theme.Notice.Render(m.notice)
		if m.noticeErr {
			notice = m.theme.Error(m.notice)
		}
		if bar != "" {
			bar += "  "
		}
		bar += notice
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(bar)
}
