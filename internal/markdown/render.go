// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/microcosm-cc/bluemonday"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/thewaffle/waffle/internal/model"
)

// =============================================================================
// CONTEXT
// =============================================================================

// Context selects how a bubble is styled.
type Context int

const (
	ContextAssistant Context = iota
	ContextHuman
)

// String returns the CSS class name for the context.
func (c Context) String() string {
	switch c {
	case ContextAssistant:
		return "assistant"
	case ContextHuman:
		return "human"
	default:
		return "unknown"
	}
}

// ContextFor maps a transcript role to its render context.
func ContextFor(role model.Role) Context {
	switch role {
	case model.RoleHuman:
		return ContextHuman
	case model.RoleAssistant:
		return ContextAssistant
	default:
		panic(fmt.Sprintf("markdown: unknown role %d", role))
	}
}

// =============================================================================
// RENDERER
// =============================================================================

const (
	// Below this glamour wraps every word onto its own line.
	minWidth = 20

	defaultCacheTTL = 30 * time.Minute
)

// Renderer renders markdown and memoizes the output.
// It is safe for concurrent use.
type Renderer struct {
	mu        sync.Mutex
	terminals map[termKey]*glamour.TermRenderer
	cache     *cache.Cache
	md        goldmark.Markdown
	policy    *bluemonday.Policy

	// newTerm is swapped in tests.
	newTerm func(ctx Context, width int) (*glamour.TermRenderer, error)
}

type termKey struct {
	ctx   Context
	width int
}

// NewRenderer creates a renderer with an empty cache.
func NewRenderer() *Renderer {
	return &Renderer{
		terminals: make(map[termKey]*glamour.TermRenderer),
		cache:     cache.New(defaultCacheTTL, 2*defaultCacheTTL),
		md:        goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy:    bluemonday.UGCPolicy(),
		newTerm:   newTermRenderer,
	}
}

func newTermRenderer(ctx Context, width int) (*glamour.TermRenderer, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if ctx == ContextHuman {
		opts = append(opts, glamour.WithStandardStyle("notty"))
	} else {
		opts = append(opts, glamour.WithAutoStyle())
	}
	return glamour.NewTermRenderer(opts...)
}

// Terminal renders text as ANSI markdown wrapped to width.
func (r *Renderer) Terminal(ctx Context, text string, width int) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if width < minWidth {
		width = minWidth
	}

	key := fmt.Sprintf("term:%d:%d:%s", ctx, width, text)
	if out, ok := r.cache.Get(key); ok {
		return out.(string)
	}

	tr, err := r.terminal(ctx, width)
	if err != nil {
		log.Warn().Err(err).Str("context", ctx.String()).Msg("markdown renderer unavailable")
		return text
	}
	out, err := tr.Render(text)
	if err != nil {
		log.Warn().Err(err).Msg("markdown render failed")
		return text
	}
	out = strings.Trim(out, "\n")
	r.cache.SetDefault(key, out)
	return out
}

func (r *Renderer) terminal(ctx Context, width int) (*glamour.TermRenderer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := termKey{ctx: ctx, width: width}
	if tr, ok := r.terminals[k]; ok {
		return tr, nil
	}
	tr, err := r.newTerm(ctx, width)
	if err != nil {
		return nil, err
	}
	r.terminals[k] = tr
	return tr, nil
}

// HTML renders text as a sanitized HTML bubble.
func (r *Renderer) HTML(ctx Context, text string) string {
	key := fmt.Sprintf("html:%d:%s", ctx, text)
	if out, ok := r.cache.Get(key); ok {
		return out.(string)
	}

	var body string
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		log.Warn().Err(err).Msg("markdown html conversion failed")
		body = html.EscapeString(text)
	} else {
		body = r.policy.Sanitize(buf.String())
	}

	out := fmt.Sprintf("<div class=\"bubble %s\">%s</div>", ctx, body)
	r.cache.SetDefault(key, out)
	return out
}

// =============================================================================
// ASYNC RENDERING
// =============================================================================

// RenderedMsg carries a finished terminal render back to the UI loop.
type RenderedMsg struct {
	TurnID string
	Width  int
	Output string
}

// RenderCmd renders a turn off the UI goroutine.
func (r *Renderer) RenderCmd(turn model.ConversationTurn, width int) tea.Cmd {
	return func() tea.Msg {
		return RenderedMsg{
			TurnID: turn.ID,
			Width:  width,
			Output: r.Terminal(ContextFor(turn.Role), turn.Text, width),
		}
	}
}
