// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thewaffle/waffle/internal/i18n"
	"github.com/thewaffle/waffle/internal/markdown"
	"github.com/thewaffle/waffle/internal/model"
	"github.com/thewaffle/waffle/internal/session"
	"github.com/thewaffle/waffle/internal/speech"
	"github.com/thewaffle/waffle/internal/ui/styles"
)

// =============================================================================
// HELPERS
// =============================================================================

type fakeSubmitter struct {
	requests []model.QueryRequest
	closes   int
}

func (f *fakeSubmitter) Submit(_ context.Context, req model.QueryRequest, _ func(model.StreamingEvent)) (string, error) {
	f.requests = append(f.requests, req)
	return "ex-1", nil
}

func (f *fakeSubmitter) Close() error {
	f.closes++
	return nil
}

func newTestModel(t *testing.T, deps Deps) (Model, *fakeSubmitter) {
	t.Helper()
	sub := &fakeSubmitter{}
	deps.Controller = session.New(sub, func(model.StreamingEvent) {})
	m := New(styles.NewTheme(), deps, i18n.English, nil, true)
	m.SetSize(100, 30)
	m.Open("report.pdf")
	return m, sub
}

func press(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func ask(t *testing.T, m Model, text string) (Model, tea.Cmd) {
	t.Helper()
	m.input.SetValue(text)
	return m.Update(press(tea.KeyEnter))
}

// =============================================================================
// QUERY FLOW
// =============================================================================

func TestSubmit_StartsQuery(t *testing.T) {
	m, sub := newTestModel(t, Deps{})

	m, _ = m.Update(press(tea.KeyCtrlG))
	m, cmd := ask(t, m, "What grew?")

	require.Len(t, sub.requests, 1)
	assert.Equal(t, model.QueryRequest{Query: "What grew?", WantGraph: true, DocumentName: "report.pdf"}, sub.requests[0])
	assert.NotNil(t, cmd, "submitting should start the spinner")
	assert.Equal(t, "", m.input.Value())
	assert.True(t, m.deps.Controller.Processing())
	assert.Contains(t, m.View(), statusProcessing)
}

func TestSubmit_BlankIgnored(t *testing.T) {
	m, sub := newTestModel(t, Deps{})
	m, cmd := ask(t, m, "   ")
	assert.Nil(t, cmd)
	assert.Empty(t, sub.requests)
	assert.Empty(t, m.deps.Controller.Turns())
}

func TestStreamEvents(t *testing.T) {
	m, _ := newTestModel(t, Deps{})
	m, _ = ask(t, m, "What grew?")

	m, _ = m.Update(StreamEventMsg{Event: model.PartialEvent("ex-1", "Retrieving documents", nil)})
	assert.Contains(t, m.View(), "Retrieving documents")

	m, _ = m.Update(StreamEventMsg{Event: model.FinalEvent("ex-1", "Revenue grew.")})
	assert.False(t, m.deps.Controller.Processing())

	view := m.View()
	assert.Contains(t, view, "Revenue grew.")
	assert.Contains(t, view, statusComplete)
	assert.NotContains(t, view, "Retrieving documents")
}

func TestStreamError_ShowsDetail(t *testing.T) {
	m, _ := newTestModel(t, Deps{})
	m, _ = ask(t, m, "q")
	m, _ = m.Update(StreamEventMsg{Event: model.ErrorEvent("ex-1", "Error connecting to server")})

	assert.False(t, m.deps.Controller.Processing())
	assert.Contains(t, m.View(), "Error connecting to server")
	assert.Len(t, m.deps.Controller.Turns(), 1)
}

func TestFinal_RequestsMarkdown(t *testing.T) {
	m, _ := newTestModel(t, Deps{Renderer: markdown.NewRenderer()})
	m, _ = ask(t, m, "q")

	m, cmd := m.Update(StreamEventMsg{Event: model.FinalEvent("ex-1", "**bold** answer")})
	require.NotNil(t, cmd)

	turns := m.deps.Controller.Turns()
	out := markdown.RenderedMsg{TurnID: turns[1].ID, Width: m.bubbleWidth, Output: "RENDERED ANSWER"}
	m, _ = m.Update(out)
	assert.Contains(t, m.View(), "RENDERED ANSWER")

	// Renders for a stale width are dropped.
	stale := markdown.RenderedMsg{TurnID: turns[0].ID, Width: m.bubbleWidth + 1, Output: "STALE"}
	m, _ = m.Update(stale)
	assert.NotContains(t, m.View(), "STALE")
}

// =============================================================================
// KEYS
// =============================================================================

func TestTagToggles(t *testing.T) {
	m, _ := newTestModel(t, Deps{})
	m, _ = m.Update(press(tea.KeyCtrlE))
	m, _ = m.Update(press(tea.KeyCtrlR))
	m, _ = m.Update(press(tea.KeyCtrlR))

	assert.Equal(t, []model.Tag{model.TagExplain}, m.Tags().Selected())
}

func TestBack_ResetsSession(t *testing.T) {
	m, sub := newTestModel(t, Deps{})
	m, _ = ask(t, m, "q")

	m, cmd := m.Update(press(tea.KeyEsc))
	require.NotNil(t, cmd)
	assert.IsType(t, BackMsg{}, cmd())
	assert.Empty(t, m.deps.Controller.Turns())
	assert.False(t, m.deps.Controller.Processing())
	assert.GreaterOrEqual(t, sub.closes, 1)

	// A late final from the discarded exchange changes nothing.
	m, _ = m.Update(StreamEventMsg{Event: model.FinalEvent("ex-1", "late")})
	assert.Empty(t, m.deps.Controller.Turns())
}

func TestCopyLastAnswer(t *testing.T) {
	var copied string
	orig := copyToClipboard
	copyToClipboard = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { copyToClipboard = orig })

	m, _ := newTestModel(t, Deps{})
	m, _ = m.Update(press(tea.KeyCtrlY))
	assert.Contains(t, m.notice, "No answer")

	m, _ = ask(t, m, "q")
	m, _ = m.Update(StreamEventMsg{Event: model.FinalEvent("ex-1", "the answer")})
	m, _ = m.Update(press(tea.KeyCtrlY))
	assert.Equal(t, "the answer", copied)

	copyToClipboard = func(string) error { return errors.New("no display") }
	m, _ = m.Update(press(tea.KeyCtrlY))
	assert.Contains(t, m.notice, "no display")
}

func TestListen_UnavailableNoticeOnce(t *testing.T) {
	m, _ := newTestModel(t, Deps{Recognizer: speech.NewRecognizer("", nil)})

	m, _ = m.Update(press(tea.KeyCtrlL))
	assert.Contains(t, m.notice, "unavailable")
	assert.False(t, m.keys.Listen.Enabled())

	m.notice = ""
	m, _ = m.Update(press(tea.KeyCtrlL))
	assert.Equal(t, "", m.notice, "notice should only be shown once")
}

func TestTranscriptFillsInput(t *testing.T) {
	m, _ := newTestModel(t, Deps{})
	m, _ = m.Update(TranscriptMsg{Text: "what is revenue"})
	assert.Equal(t, "what is revenue", m.input.Value())
}

func TestTranslateWithoutKey(t *testing.T) {
	m, sub := newTestModel(t, Deps{})
	m, _ = ask(t, m, translateCommand)
	assert.Empty(t, sub.requests, "/translate is not sent as a query")
	assert.False(t, m.translateOn)
	assert.Contains(t, m.notice, "API key")
}

// =============================================================================
// SPEECH
// =============================================================================

type silentEngine struct{}

type silentUtterance struct{ done chan struct{} }

func (silentEngine) Speak(context.Context, string, string, float64) (speech.Utterance, error) {
	return &silentUtterance{done: make(chan struct{})}, nil
}
func (u *silentUtterance) Pause() error          { return nil }
func (u *silentUtterance) Resume() error         { return nil }
func (u *silentUtterance) Cancel() error         { return nil }
func (u *silentUtterance) Done() <-chan struct{} { return u.done }

func TestSpeechControls(t *testing.T) {
	player, err := speech.NewPlayer(silentEngine{}, 1)
	require.NoError(t, err)
	m, _ := newTestModel(t, Deps{Player: player})

	m, _ = m.Update(press(tea.KeyCtrlS))
	assert.Equal(t, speech.ErrNoText.Error(), m.notice)
	assert.Equal(t, speech.StateIdle, player.State())

	m, _ = ask(t, m, "q")
	m, _ = m.Update(StreamEventMsg{Event: model.FinalEvent("ex-1", "read me")})

	m, _ = m.Update(press(tea.KeyCtrlS))
	assert.Equal(t, speech.StatePlaying, player.State())
	assert.Contains(t, m.View(), "Pause")

	m, _ = m.Update(press(tea.KeyCtrlS))
	assert.Equal(t, speech.StatePaused, player.State())

	m, _ = m.Update(press(tea.KeyCtrlF))
	assert.Equal(t, 1.5, player.Rate())
	assert.Equal(t, speech.StatePaused, player.State())
	assert.Contains(t, m.View(), "Fast")
}
