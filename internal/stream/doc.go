// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package stream implements the streaming query client.
//
// Each query opens one websocket exchange: the client sends the serialized
// QueryRequest as its only frame, then turns every inbound frame into a
// StreamingEvent delivered to a handler in transport order. A client holds
// at most one exchange; submitting again, or calling Close, tears down the
// previous one first.
//
// # Key Types
//
//   - Client: Owns the single active exchange
//   - Config: Socket URL, handshake timeout, read limit
//   - Handler: Callback receiving partial, final, and error events
//
// # Usage
//
//	client := stream.New(&stream.Config{URL: "ws://localhost:8000/ws/query"})
//	id, err := client.Submit(ctx, req, func(ev model.StreamingEvent) {
//	    program.Send(ev)
//	})
//	defer client.Close()
//
// Handlers run on the exchange goroutine. Events for an exchange that is
// being closed can still be in flight, so consumers compare ExchangeID with
// the exchange they expect.
package stream
