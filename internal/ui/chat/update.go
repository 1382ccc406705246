// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/thewaffle/waffle/internal/markdown"
	"github.com/thewaffle/waffle/internal/model"
	"github.com/thewaffle/waffle/internal/speech"
)

// translateCommand toggles answer translation when typed as a query.
const translateCommand = "/translate"

// copyToClipboard is swapped in tests.
var copyToClipboard = clipboard.WriteAll

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case StreamEventMsg:
		return m.handleStreamEvent(msg.Event)

	case markdown.RenderedMsg:
		if msg.Width == m.bubbleWidth {
			m.rendered[msg.TurnID] = msg.Output
			m.refresh()
		}
		return m, nil

	case TranslatedMsg:
		m.translations[msg.TurnID] = msg.Text
		m.refresh()
		return m, m.renderMissing()

	case TranscriptMsg:
		m.input.SetValue(msg.Text)
		m.input.CursorEnd()
		return m, nil

	case SpeechStateMsg:
		// View reads the player state directly.
		return m, nil

	case spinner.TickMsg:
		if !m.deps.Controller.Processing() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	ctrl := m.deps.Controller

	switch {
	case key.Matches(msg, m.keys.Back):
		m.Close()
		return m, func() tea.Msg { return BackMsg{} }

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.TagGraphs):
		m.tags.Toggle(model.TagGraphs)
	case key.Matches(msg, m.keys.TagExplain):
		m.tags.Toggle(model.TagExplain)
	case key.Matches(msg, m.keys.TagReason):
		m.tags.Toggle(model.TagReason)

	case key.Matches(msg, m.keys.Tables):
		m.showTables = !m.showTables
		m.input.Width = max(10, m.transcriptWidth()-6)
		m.layoutViewport()
		return m, m.renderMissing()

	case key.Matches(msg, m.keys.PlayPause):
		if m.deps.Player != nil {
			m.speechErr(m.deps.Player.Toggle(ctrl.LastAnswer(), m.lang.SpeechLocale()))
		}
	case key.Matches(msg, m.keys.Restart):
		if p := m.deps.Player; p != nil {
			err := p.Restart()
			if errors.Is(err, speech.ErrNoText) {
				err = p.Play(ctrl.LastAnswer(), m.lang.SpeechLocale())
			}
			m.speechErr(err)
		}
	case key.Matches(msg, m.keys.Speed):
		if p := m.deps.Player; p != nil {
			m.speechErr(p.SetRate(speech.NextRate(p.Rate())))
		}

	case key.Matches(msg, m.keys.Listen):
		m.toggleListening()

	case key.Matches(msg, m.keys.Copy):
		m.copyLastAnswer()

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) submit() (Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == translateCommand {
		m.input.Reset()
		return m.toggleTranslate()
	}

	ctx := m.cancelMgr.next(m.parentCtx)
	if !m.deps.Controller.SubmitQuery(ctx, text, m.tags, "") {
		return m, nil
	}
	m.input.Reset()
	m.notice = ""
	m.refresh()
	return m, m.spinner.Tick
}

func (m Model) toggleTranslate() (Model, tea.Cmd) {
	if m.deps.Translator == nil || !m.deps.Translator.Enabled() {
		m.setNotice("Translation needs an API key (translate.api_key).", true)
		return m, nil
	}
	m.translateOn = !m.translateOn
	if m.translateOn {
		m.setNotice("Translating answers into "+m.lang.Strings().Language, false)
	} else {
		m.setNotice("Translation off", false)
	}
	m.refresh()
	return m, tea.Batch(m.translateMissing(), m.renderMissing())
}

func (m *Model) toggleListening() {
	r := m.deps.Recognizer
	if r == nil || m.listenOff {
		return
	}
	if !r.Available() {
		m.setNotice(r.Unavailable(), true)
		m.listenOff = true
		m.keys.Listen.SetEnabled(false)
		return
	}

	send := m.deps.Send
	listening, err := r.Toggle(context.Background(), m.lang.SpeechLocale(), func(text string) {
		if send != nil {
			send(TranscriptMsg{Text: text})
		}
	})
	if err != nil {
		log.Warn().Err(err).Msg("speech recognition failed to start")
		m.setNotice(m.lang.Strings().ListenStartFailed, true)
		return
	}
	if listening {
		m.setNotice(m.lang.Strings().Listening, false)
	} else {
		m.notice = ""
	}
}

func (m *Model) copyLastAnswer() {
	answer := m.deps.Controller.LastAnswer()
	if answer == "" {
		m.setNotice("No answer to copy", true)
		return
	}
	if err := copyToClipboard(answer); err != nil {
		m.setNotice("Failed to copy: "+err.Error(), true)
		return
	}
	m.setNotice("Copied answer to clipboard", false)
}

func (m *Model) speechErr(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, speech.ErrNoText) {
		m.setNotice(speech.ErrNoText.Error(), true)
		return
	}
	log.Warn().Err(err).Msg("speech control failed")
	m.setNotice(err.Error(), true)
}

func (m *Model) setNotice(text string, isErr bool) {
	m.notice = text
	m.noticeErr = isErr
}

// =============================================================================
// STREAM EVENTS
// =============================================================================

func (m Model) handleStreamEvent(ev model.StreamingEvent) (Model, tea.Cmd) {
	if !m.deps.Controller.Apply(ev) {
		return m, nil
	}
	if ev.Kind == model.EventPartial {
		// A first table set can open the side panel.
		m.layoutViewport()
		return m, nil
	}
	m.cancelMgr.cancel()
	m.refresh()
	return m, tea.Batch(m.renderMissing(), m.translateMissing())
}

// =============================================================================
// ASYNC RENDERING
// =============================================================================

// renderKey identifies a rendered bubble; translated text renders separately.
func (m Model) renderKey(turn model.ConversationTurn) string {
	if m.translateOn && turn.IsAssistant() {
		if _, ok := m.translations[turn.ID]; ok {
			return turn.ID + "#tr"
		}
	}
	return turn.ID
}

// displayTurn returns the turn as it should be shown.
func (m Model) displayTurn(turn model.ConversationTurn) model.ConversationTurn {
	if m.translateOn && turn.IsAssistant() {
		if t, ok := m.translations[turn.ID]; ok {
			turn.Text = t
		}
	}
	return turn
}

// renderMissing requests markdown for every bubble not yet rendered.
func (m Model) renderMissing() tea.Cmd {
	if m.deps.Renderer == nil {
		return nil
	}
	var cmds []tea.Cmd
	for _, turn := range m.deps.Controller.Turns() {
		k := m.renderKey(turn)
		if _, ok := m.rendered[k]; ok {
			continue
		}
		shown := m.displayTurn(turn)
		shown.ID = k
		cmds = append(cmds, m.deps.Renderer.RenderCmd(shown, m.bubbleWidth))
	}
	return tea.Batch(cmds...)
}

// translateMissing requests translations for untranslated answers.
func (m Model) translateMissing() tea.Cmd {
	if !m.translateOn || m.deps.Translator == nil {
		return nil
	}
	target := m.lang.TranslateTarget()
	tr := m.deps.Translator
	var cmds []tea.Cmd
	for _, turn := range m.deps.Controller.Turns() {
		if !turn.IsAssistant() {
			continue
		}
		if _, ok := m.translations[turn.ID]; ok {
			continue
		}
		id, text := turn.ID, turn.Text
		cmds = append(cmds, func() tea.Msg {
			return TranslatedMsg{TurnID: id, Text: tr.Translate(context.Background(), text, target)}
		})
	}
	return tea.Batch(cmds...)
}
