// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package landing provides the start view: greeting, upload prompt, recent
// documents and the language toggle.
package landing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/thewaffle/waffle/internal/i18n"
	"github.com/thewaffle/waffle/internal/model"
	"github.com/thewaffle/waffle/internal/ui/styles"
	"github.com/thewaffle/waffle/internal/util"
)

// =============================================================================
// DEPENDENCIES
// =============================================================================

// Lister fetches the available documents. *backend.Client satisfies it.
type Lister interface {
	ListDocuments(ctx context.Context) ([]model.AvailableDocument, error)
}

// Uploader validates and uploads one file. *upload.Flow satisfies it.
type Uploader interface {
	Upload(ctx context.Context, path string) model.UploadResult
}

// =============================================================================
// MESSAGES
// =============================================================================

// DocsLoadedMsg carries the result of a listing fetch.
type DocsLoadedMsg struct {
	Docs []model.AvailableDocument
	Err  error
}

// UploadedMsg carries the result of an upload.
type UploadedMsg struct {
	Result model.UploadResult
}

// OpenMsg asks the parent to open the chat on a document.
type OpenMsg struct {
	Document string
}

// LanguageMsg reports a language change.
type LanguageMsg struct {
	Language i18n.Language
}

// =============================================================================
// KEYS
// =============================================================================

// KeyMap defines the landing view bindings.
type KeyMap struct {
	Enter    key.Binding
	Up       key.Binding
	Down     key.Binding
	Focus    key.Binding
	Language key.Binding
	Refresh  key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default landing bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "upload / open")),
		Up:       key.NewBinding(key.WithKeys("up"), key.WithHelp("up", "previous")),
		Down:     key.NewBinding(key.WithKeys("down"), key.WithHelp("down", "next")),
		Focus:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("Tab", "switch focus")),
		Language: key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("C-k", "language")),
		Refresh:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("C-r", "refresh")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("Esc", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Focus, k.Language, k.Refresh, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Up, k.Down}}
}

// =============================================================================
// MODEL
// =============================================================================

type focus int

const (
	focusPath focus = iota
	focusList
)

// Model is the landing view.
type Model struct {
	theme    *styles.Theme
	keys     KeyMap
	lister   Lister
	uploader Uploader
	lang     i18n.Language

	path   textinput.Model
	focus  focus
	docs   []model.AvailableDocument
	cursor int

	loading   bool
	uploading bool
	loadErr   string
	notice    string
	noticeOK  bool

	now    func() time.Time
	width  int
	height int
}

// New creates the landing view.
func New(theme *styles.Theme, lister Lister, uploader Uploader, lang i18n.Language) Model {
	in := textinput.New()
	in.Prompt = "PDF > "
	in.Placeholder = "/path/to/document.pdf"
	in.Focus()

	return Model{
		theme:    theme,
		keys:     DefaultKeyMap(),
		lister:   lister,
		uploader: uploader,
		lang:     lang,
		path:     in,
		now:      time.Now,
		loading:  true,
	}
}

// Init fetches the document listing.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.Refresh())
}

// Refresh returns a command that reloads the listing.
func (m Model) Refresh() tea.Cmd {
	lister := m.lister
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		docs, err := lister.ListDocuments(ctx)
		return DocsLoadedMsg{Docs: docs, Err: err}
	}
}

// Language returns the selected language.
func (m Model) Language() i18n.Language {
	return m.lang
}

// SetSize resizes the view.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.path.Width = max(20, min(width-12, 80))
}

// Docs returns the loaded documents.
func (m Model) Docs() []model.AvailableDocument {
	return m.docs
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages for the landing view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DocsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.loadErr = "Could not load documents: " + msg.Err.Error()
			return m, nil
		}
		m.loadErr = ""
		m.docs = msg.Docs
		if m.cursor >= len(m.docs) {
			m.cursor = max(0, len(m.docs)-1)
		}
		return m, nil

	case UploadedMsg:
		m.uploading = false
		m.notice = msg.Result.Message
		m.noticeOK = msg.Result.Success
		if !msg.Result.Success {
			return m, nil
		}
		m.path.Reset()
		doc := msg.Result.DocumentName
		return m, tea.Batch(m.Refresh(), func() tea.Msg { return OpenMsg{Document: doc} })

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.path, cmd = m.path.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Language):
		m.lang = m.lang.Next()
		lang := m.lang
		return m, func() tea.Msg { return LanguageMsg{Language: lang} }

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, m.Refresh()

	case key.Matches(msg, m.keys.Focus):
		if m.focus == focusPath && len(m.docs) > 0 {
			m.focus = focusList
			m.path.Blur()
		} else {
			m.focus = focusPath
			m.path.Focus()
		}
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		if m.focus == focusList {
			if m.cursor < len(m.docs) {
				doc := m.docs[m.cursor].Name
				return m, func() tea.Msg { return OpenMsg{Document: doc} }
			}
			return m, nil
		}
		return m.startUpload()
	}

	if m.focus == focusList {
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.docs)-1 {
				m.cursor++
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.path, cmd = m.path.Update(msg)
	return m, cmd
}

func (m Model) startUpload() (Model, tea.Cmd) {
	if m.uploading {
		return m, nil
	}
	path := util.ExpandHome(strings.TrimSpace(m.path.Value()))
	m.uploading = true
	m.notice = ""
	uploader := m.uploader
	return m, func() tea.Msg {
		return UploadedMsg{Result: uploader.Upload(context.Background(), path)}
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the landing view.
func (m Model) View() string {
	s := m.lang.Strings()
	t := m.theme

	header := t.Header.Render("The") + t.HeaderDot.Render("•") + t.Header.Render("Waffle")
	lang := t.LangToggle.Render("[" + s.Language + "]")
	gap := max(1, m.width-lipgloss.Width(header)-lipgloss.Width(lang))
	top := header + strings.Repeat(" ", gap) + lang

	var b strings.Builder
	b.WriteString(top + "\n")
	b.WriteString(t.Greeting.Render(s.Greeting) + "\n\n")
	b.WriteString(t.Subtitle.Render(s.UploadPrompt) + "\n")
	b.WriteString(m.path.View() + "\n")

	switch {
	case m.uploading:
		b.WriteString(t.MutedStyle.Render("Uploading...") + "\n")
	case m.notice != "" && m.noticeOK:
		b.WriteString(t.Success(m.notice) + "\n")
	case m.notice != "":
		b.WriteString(t.Error(m.notice) + "\n")
	default:
		b.WriteString("\n")
	}

	b.WriteString(t.SectionTitle.Render(s.RecentChats) + "\n")
	b.WriteString(m.renderDocs())
	return b.String()
}

func (m Model) renderDocs() string {
	t := m.theme
	switch {
	case m.loadErr != "":
		return t.Error(m.loadErr) + "\n"
	case m.loading && len(m.docs) == 0:
		return t.MutedStyle.Render("Loading...") + "\n"
	case len(m.docs) == 0:
		return t.MutedStyle.Render("No documents yet.") + "\n"
	}

	now := m.now()
	nameWidth := max(10, m.width-24)
	var b strings.Builder
	for i, d := range m.docs {
		name := util.TruncateWidth(d.Name, nameWidth)
		age := t.ListAge.Render(util.TimeAgo(d.CreatedAt.Time, now))
		line := fmt.Sprintf("%s  %s", util.PadWidth(name, nameWidth), age)
		if m.focus == focusList && i == m.cursor {
			b.WriteString(t.ListSelected.Render(line))
		} else {
			b.WriteString(t.ListItem.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
