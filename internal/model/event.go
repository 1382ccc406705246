// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// STREAMING EVENTS
// =============================================================================

// EventKind tags a StreamingEvent.
type EventKind int

const (
	EventPartial EventKind = iota
	EventFinal
	EventError
)

// String returns the name of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventPartial:
		return "partial"
	case EventFinal:
		return "final"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// StreamingEvent is one step of a streaming exchange.
//
// Partial events carry provisional text and optionally a new table set.
// Final events carry the completed answer. Error events carry a
// human-readable detail and end the exchange.
type StreamingEvent struct {
	Kind       EventKind
	ExchangeID string
	Text       string
	Tables     []TableExtraction
	Detail     string
}

// PartialEvent creates a partial event.
func PartialEvent(exchangeID, text string, tables []TableExtraction) StreamingEvent {
	return StreamingEvent{Kind: EventPartial, ExchangeID: exchangeID, Text: text, Tables: tables}
}

// FinalEvent creates a final event.
func FinalEvent(exchangeID, text string) StreamingEvent {
	return StreamingEvent{Kind: EventFinal, ExchangeID: exchangeID, Text: text}
}

// ErrorEvent creates an error event.
func ErrorEvent(exchangeID, detail string) StreamingEvent {
	return StreamingEvent{Kind: EventError, ExchangeID: exchangeID, Detail: detail}
}

// Terminal reports whether the event ends its exchange.
func (e StreamingEvent) Terminal() bool {
	return e.Kind == EventFinal || e.Kind == EventError
}

// StreamFrame is the JSON frame the backend sends on a streaming exchange.
// A missing isStreaming field decodes as false and marks the final frame.
type StreamFrame struct {
	IsStreaming bool     `json:"isStreaming"`
	Message     string   `json:"message"`
	Tables      []string `json:"tables,omitempty"`
}
