// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the root Bubble Tea model. It owns the landing and chat
// views and picks one to render from its state; views are never moved
// between parents.
package app

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/thewaffle/waffle/internal/i18n"
	"github.com/thewaffle/waffle/internal/markdown"
	"github.com/thewaffle/waffle/internal/model"
	"github.com/thewaffle/waffle/internal/session"
	"github.com/thewaffle/waffle/internal/speech"
	"github.com/thewaffle/waffle/internal/translate"
	"github.com/thewaffle/waffle/internal/ui/chat"
	"github.com/thewaffle/waffle/internal/ui/landing"
	"github.com/thewaffle/waffle/internal/ui/styles"
)

// =============================================================================
// STATE
// =============================================================================

// View is the screen currently shown.
type View int

const (
	ViewLanding View = iota
	ViewChat
)

// =============================================================================
// PROGRAM BRIDGE
// =============================================================================

// Bridge forwards messages from background goroutines into the program.
// Messages sent before the program is attached are dropped.
type Bridge struct {
	mu sync.RWMutex
	p  *tea.Program
}

// Attach connects the bridge to a running program.
func (b *Bridge) Attach(p *tea.Program) {
	b.mu.Lock()
	b.p = p
	b.mu.Unlock()
}

// Send posts msg to the program.
func (b *Bridge) Send(msg tea.Msg) {
	b.mu.RLock()
	p := b.p
	b.mu.RUnlock()
	if p == nil {
		log.Debug().Type("msg", msg).Msg("dropping message, program not attached")
		return
	}
	p.Send(msg)
}

// Dispatch adapts Send for session stream events.
func (b *Bridge) Dispatch(ev model.StreamingEvent) {
	b.Send(chat.StreamEventMsg{Event: ev})
}

// =============================================================================
// MODEL
// =============================================================================

// Options wires the root model.
type Options struct {
	Lister     landing.Lister
	Uploader   landing.Uploader
	Submitter  session.Submitter
	Renderer   *markdown.Renderer
	Player     *speech.Player
	Recognizer *speech.Recognizer
	Translator *translate.Client
	Language   i18n.Language
	Tags       model.TagSet
	ShowTables bool
	Bridge     *Bridge
}

// Model is the root model.
type Model struct {
	view    View
	landing landing.Model
	chat    chat.Model
	width   int
	height  int
}

// New builds the root model. opts.Bridge must be attached to the program
// before it runs.
func New(theme *styles.Theme, opts Options) Model {
	if opts.Bridge == nil {
		opts.Bridge = &Bridge{}
	}
	ctrl := session.New(opts.Submitter, opts.Bridge.Dispatch)

	if opts.Player != nil {
		bridge := opts.Bridge
		opts.Player.OnChange(func(s speech.State) {
			bridge.Send(chat.SpeechStateMsg{State: s})
		})
	}

	deps := chat.Deps{
		Controller: ctrl,
		Renderer:   opts.Renderer,
		Player:     opts.Player,
		Recognizer: opts.Recognizer,
		Translator: opts.Translator,
		Send:       opts.Bridge.Send,
	}

	return Model{
		view:    ViewLanding,
		landing: landing.New(theme, opts.Lister, opts.Uploader, opts.Language),
		chat:    chat.New(theme, deps, opts.Language, opts.Tags, opts.ShowTables),
	}
}

// CurrentView returns the active view.
func (m Model) CurrentView() View {
	return m.view
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.landing.Init()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.landing.SetSize(msg.Width, msg.Height)
		m.chat.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.chat.Close()
			return m, tea.Quit
		}

	case landing.OpenMsg:
		log.Info().Str("document", msg.Document).Msg("opening chat")
		m.chat.Open(msg.Document)
		m.view = ViewChat
		return m, m.chat.Init()

	case landing.LanguageMsg:
		m.chat.SetLanguage(msg.Language)
		return m, nil

	case chat.BackMsg:
		m.view = ViewLanding
		return m, m.landing.Refresh()

	case landing.DocsLoadedMsg, landing.UploadedMsg:
		var cmd tea.Cmd
		m.landing, cmd = m.landing.Update(msg)
		return m, cmd

	case chat.StreamEventMsg, chat.SpeechStateMsg, chat.TranscriptMsg, chat.TranslatedMsg, markdown.RenderedMsg:
		// Background results go to the chat even while it is hidden.
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.view {
	case ViewChat:
		m.chat, cmd = m.chat.Update(msg)
	default:
		m.landing, cmd = m.landing.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	switch m.view {
	case ViewChat:
		return m.chat.View()
	default:
		return m.landing.View()
	}
}
