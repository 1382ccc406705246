// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session provides the chat session controller.
//
// The Controller owns the transcript, the processing flag, the live status
// line and the current table set. It is a plain state machine: it is driven
// from a single event loop (the Bubble Tea Update function or the REPL loop)
// and is not safe for concurrent use.
//
// # Key Types
//
//   - Controller: Transcript and query lifecycle for one document
//   - Submitter: The streaming client operations the controller needs
//
// # Usage
//
//	ctrl := session.New(streamClient, func(ev model.StreamingEvent) {
//	    program.Send(eventMsg{ev}) // back onto the event loop
//	})
//	ctrl.SubmitQuery(ctx, "What grew?", tags, "report.pdf")
//
//	// later, on the event loop
//	ctrl.Apply(ev)
//
// # Status Cell
//
// Partial events replace a single status value; they are never appended to
// the transcript. The cell is cleared when a query is submitted and when the
// final answer arrives, and holds the error detail after a failed exchange.
package session
