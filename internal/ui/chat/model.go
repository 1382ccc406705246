// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/thewaffle/waffle/internal/i18n"
	"github.com/thewaffle/waffle/internal/markdown"
	"github.com/thewaffle/waffle/internal/model"
	"github.com/thewaffle/waffle/internal/session"
	"github.com/thewaffle/waffle/internal/speech"
	"github.com/thewaffle/waffle/internal/translate"
	"github.com/thewaffle/waffle/internal/ui/styles"
)

// =============================================================================
// DEPENDENCIES
// =============================================================================

// Deps are the services the chat view drives. Player, Recognizer and
// Translator are optional.
type Deps struct {
	Controller *session.Controller
	Renderer   *markdown.Renderer
	Player     *speech.Player
	Recognizer *speech.Recognizer
	Translator *translate.Client

	// Send posts messages from background goroutines to the program.
	Send func(tea.Msg)
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the chat view.
type Model struct {
	theme *styles.Theme
	keys  KeyMap
	help  help.Model
	deps  Deps

	lang        i18n.Language
	tags        model.TagSet
	showTables  bool
	translateOn bool

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	// rendered holds finished markdown keyed by render key; see renderKey.
	rendered     map[string]string
	translations map[string]string
	bubbleWidth  int

	notice     string
	noticeErr  bool
	listenOff  bool
	cancelMgr  *cancelManager
	width      int
	height     int
	parentCtx  context.Context
}

// New creates a chat view.
func New(theme *styles.Theme, deps Deps, lang i18n.Language, tags model.TagSet, showTables bool) Model {
	in := textinput.New()
	in.Placeholder = lang.Strings().EnterQuery
	in.Prompt = "> "
	in.CharLimit = 4000
	in.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Spinner{
		Frames: styles.LineSpinner.Frames,
		FPS:    time.Second / time.Duration(styles.LineSpinner.FPS),
	}))
	sp.Style = theme.Spinner

	if tags == nil {
		tags = model.NewTagSet()
	}

	m := Model{
		theme:        theme,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		deps:         deps,
		lang:         lang,
		tags:         tags,
		showTables:   showTables,
		input:        in,
		viewport:     viewport.New(80, 20),
		spinner:      sp,
		rendered:     make(map[string]string),
		translations: make(map[string]string),
		cancelMgr:    newCancelManager(),
		parentCtx:    context.Background(),
	}
	if deps.Recognizer == nil {
		m.keys.Listen.SetEnabled(false)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Document returns the document the chat is about.
func (m Model) Document() string {
	return m.deps.Controller.Document()
}

// Tags returns the selected tags.
func (m Model) Tags() model.TagSet {
	return m.tags
}

// SetLanguage switches the UI language.
func (m *Model) SetLanguage(lang i18n.Language) {
	m.lang = lang
	m.input.Placeholder = lang.Strings().EnterQuery
}

// SetSize resizes the view.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
	m.input.Width = max(10, m.transcriptWidth()-6)
	m.layoutViewport()
}

// Open starts a fresh session on document.
func (m *Model) Open(document string) {
	m.deps.Controller.Reset()
	m.deps.Controller.SetDocument(document)
	m.notice = ""
	m.input.Reset()
	m.input.Focus()
	clear(m.rendered)
	clear(m.translations)
	m.refresh()
}

// Close tears down the session and any speech in progress.
func (m *Model) Close() {
	m.cancelMgr.cancel()
	if m.deps.Player != nil {
		m.deps.Player.Stop()
	}
	if m.deps.Recognizer != nil {
		m.deps.Recognizer.Stop()
	}
	m.deps.Controller.Reset()
}

// =============================================================================
// LAYOUT
// =============================================================================

// tablesWidth is the side panel width, or zero when hidden.
func (m Model) tablesWidth() int {
	if !m.showTables || len(m.deps.Controller.Tables()) == 0 || m.width < 60 {
		return 0
	}
	return m.width * 2 / 5
}

func (m Model) transcriptWidth() int {
	w := m.width - m.tablesWidth()
	if w < 20 {
		w = 20
	}
	return w
}

// chromeHeight is the number of rows outside the transcript.
const chromeHeight = 8

func (m *Model) layoutViewport() {
	m.viewport.Width = m.transcriptWidth()
	m.viewport.Height = max(1, m.height-chromeHeight)

	bw := max(20, m.viewport.Width-8)
	if bw != m.bubbleWidth {
		m.bubbleWidth = bw
		clear(m.rendered)
	}
	m.refresh()
}
