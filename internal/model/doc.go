// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared by the Waffle client.
//
// This package defines the domain types that flow between the backend
// clients, the chat session controller, and the renderers.
//
// # Key Types
//
//   - ConversationTurn: One immutable human or assistant message
//   - Role: Turn role enumeration (human, assistant)
//   - QueryRequest: The single outbound frame of a streaming exchange
//   - StreamingEvent: Partial, final, or error event from an exchange
//   - TableExtraction: Backend-extracted table with ordered columns and rows
//   - AvailableDocument: Entry of the backend document listing
//   - UploadResult: Outcome of the upload flow
//
// # Usage
//
// Build a query from the tag bar:
//
//	tags := model.NewTagSet(model.TagGraphs)
//	req := model.NewQueryRequest("What is the revenue?", tags, "report.pdf")
//
// Switch over a streaming event:
//
//	switch ev.Kind {
//	case model.EventPartial:
//	    status = ev.Text
//	case model.EventFinal:
//	    turns = append(turns, model.NewAssistantTurn(ev.Text))
//	case model.EventError:
//	    status = ev.Detail
//	}
package model
