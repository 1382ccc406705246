// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"

	"github.com/pkg/errors"

	"github.com/thewaffle/waffle/internal/model"
	"github.com/thewaffle/waffle/internal/session"
)

// =============================================================================
// LINE-MODE EXCHANGES
// =============================================================================

// lineSession drives a session controller from a plain goroutine. Stream
// events are queued on a channel and applied by the caller, the same
// single-writer shape the TUI gets from its message loop.
type lineSession struct {
	ctrl   *session.Controller
	events chan model.StreamingEvent
	done   chan struct{}
}

func newLineSession(submitter session.Submitter, doc string) *lineSession {
	ls := &lineSession{
		events: make(chan model.StreamingEvent, 64),
		done:   make(chan struct{}),
	}
	ls.ctrl = session.New(submitter, ls.dispatch)
	ls.ctrl.SetDocument(doc)
	return ls
}

// dispatch runs on the stream goroutine. It never blocks once the session
// is closed.
func (ls *lineSession) dispatch(ev model.StreamingEvent) {
	select {
	case ls.events <- ev:
	case <-ls.done:
	}
}

// close tears down the exchange in flight and releases the dispatcher.
func (ls *lineSession) close() {
	ls.ctrl.Reset()
	close(ls.done)
}

// ask runs one exchange to completion. onPartial sees every provisional
// status. It returns the final answer and the last table set.
func (ls *lineSession) ask(ctx context.Context, text string, tags model.TagSet, onPartial func(string)) (string, []model.TableExtraction, error) {
	if !ls.ctrl.SubmitQuery(ctx, text, tags, "") {
		return "", nil, usageError("empty question")
	}
	if !ls.ctrl.Processing() {
		// Submit failed before a connection was made.
		return "", nil, errors.New(ls.ctrl.Status())
	}

	for {
		select {
		case <-ctx.Done():
			ls.ctrl.Reset()
			return "", nil, ctx.Err()
		case ev := <-ls.events:
			if !ls.ctrl.Apply(ev) {
				continue
			}
			switch ev.Kind {
			case model.EventPartial:
				if onPartial != nil {
					onPartial(ls.ctrl.Status())
				}
			case model.EventFinal:
				return ls.ctrl.LastAnswer(), ls.ctrl.Tables(), nil
			case model.EventError:
				return "", ls.ctrl.Tables(), errors.New(ev.Detail)
			}
		}
	}
}

// reset clears the transcript but keeps the document selected.
func (ls *lineSession) reset() {
	doc := ls.ctrl.Document()
	ls.ctrl.Reset()
	ls.ctrl.SetDocument(doc)
}
