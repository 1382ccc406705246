// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes a chat transcript to a file on request.
//
// Three formats are supported:
//
//   - Markdown: one heading per turn, tables as GFM pipe tables
//   - HTML: a standalone page using the same bubble markup as the chat view
//   - JSON: turns, roles and tables for scripting
//
// Nothing is written unless the user asks; transcripts are otherwise
// discarded when the session ends.
package export
