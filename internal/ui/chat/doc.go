// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// The view shows the transcript for one document, a query input with the
// tag bar, an optional tables panel and the speech controls. All session
// state lives in a session.Controller; stream events arrive as
// StreamEventMsg through Program.Send and are applied in Update, so every
// mutation happens on the Bubble Tea loop.
//
// # Key Bindings
//
//   - Enter: submit the query
//   - Ctrl+G / Ctrl+E / Ctrl+R: toggle the Graphs, Explain and Reason tags
//   - Ctrl+T: toggle the tables panel
//   - Ctrl+S: play or pause the last answer
//   - Ctrl+O: restart reading from the beginning
//   - Ctrl+F: cycle the speech rate
//   - Ctrl+L: start or stop listening
//   - Ctrl+Y: copy the last answer
//   - PgUp / PgDn: scroll the transcript
//   - Esc: back to the landing view
//
// Typing /translate toggles translation of answers into the UI language.
package chat
