// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/thewaffle/waffle/internal/model"
)

// =============================================================================
// SUBMITTER
// =============================================================================

// Submitter starts and tears down streaming exchanges.
// *stream.Client satisfies it.
type Submitter interface {
	Submit(ctx context.Context, req model.QueryRequest, h func(model.StreamingEvent)) (string, error)
	Close() error
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller sequences user queries into streaming exchanges.
type Controller struct {
	submitter Submitter
	dispatch  func(model.StreamingEvent)

	document   string
	turns      []model.ConversationTurn
	processing bool
	status     string
	tables     []model.TableExtraction
	exchangeID string
}

// New creates a controller. dispatch must hand events back to the goroutine
// that calls Apply.
func New(submitter Submitter, dispatch func(model.StreamingEvent)) *Controller {
	return &Controller{
		submitter: submitter,
		dispatch:  dispatch,
	}
}

// SetDocument selects the document queries are asked against.
func (c *Controller) SetDocument(name string) {
	c.document = name
}

// Document returns the selected document.
func (c *Controller) Document() string {
	return c.document
}

// =============================================================================
// QUERY LIFECYCLE
// =============================================================================

// SubmitQuery starts a query against documentName. It returns false without
// changing any state when text is blank or a query is already processing.
// The human turn is appended before anything touches the network.
func (c *Controller) SubmitQuery(ctx context.Context, text string, tags model.TagSet, documentName string) bool {
	if strings.TrimSpace(text) == "" || c.processing {
		return false
	}

	c.turns = append(c.turns, model.NewHumanTurn(text))
	c.status = ""
	c.processing = true

	if documentName != "" {
		c.document = documentName
	}
	req := model.NewQueryRequest(text, tags, c.document)
	id, err := c.submitter.Submit(ctx, req, c.dispatch)
	if err != nil {
		log.Error().Err(err).Msg("query submission failed")
		c.processing = false
		c.status = err.Error()
		return true
	}
	c.exchangeID = id
	log.Info().Str("exchange", id).Str("doc", c.document).Msg("query submitted")
	return true
}

// Apply folds one streaming event into the session. Events from any exchange
// other than the current one are dropped. It reports whether state changed.
func (c *Controller) Apply(ev model.StreamingEvent) bool {
	if ev.ExchangeID == "" || ev.ExchangeID != c.exchangeID {
		log.Debug().Str("exchange", ev.ExchangeID).Str("kind", ev.Kind.String()).Msg("dropping stale event")
		return false
	}

	switch ev.Kind {
	case model.EventPartial:
		c.status = ev.Text
		if len(ev.Tables) > 0 {
			c.tables = ev.Tables
		}
	case model.EventFinal:
		c.turns = append(c.turns, model.NewAssistantTurn(ev.Text))
		c.processing = false
		c.status = ""
		c.exchangeID = ""
	case model.EventError:
		c.processing = false
		c.status = ev.Detail
		c.exchangeID = ""
	default:
		log.Warn().Int("kind", int(ev.Kind)).Msg("unknown event kind")
		return false
	}
	return true
}

// Reset closes any open exchange and discards the transcript, status and
// tables. The selected document is cleared too.
func (c *Controller) Reset() {
	if err := c.submitter.Close(); err != nil {
		log.Warn().Err(err).Msg("closing stream on reset")
	}
	c.turns = nil
	c.processing = false
	c.status = ""
	c.tables = nil
	c.exchangeID = ""
	c.document = ""
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Turns returns a copy of the transcript.
func (c *Controller) Turns() []model.ConversationTurn {
	out := make([]model.ConversationTurn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Processing reports whether a query is in flight.
func (c *Controller) Processing() bool {
	return c.processing
}

// Status returns the live status line.
func (c *Controller) Status() string {
	return c.status
}

// Tables returns the current table set.
func (c *Controller) Tables() []model.TableExtraction {
	return c.tables
}

// ExchangeID returns the ID of the exchange in flight, if any.
func (c *Controller) ExchangeID() string {
	return c.exchangeID
}

// LastAnswer returns the text of the most recent assistant turn.
func (c *Controller) LastAnswer() string {
	for i := len(c.turns) - 1; i >= 0; i-- {
		if c.turns[i].IsAssistant() {
			return c.turns[i].Text
		}
	}
	return ""
}
