// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package markdown renders chat bubble text for the terminal and for HTML.
//
// Terminal output goes through glamour, HTML output through goldmark with
// the GFM extension and a bluemonday UGC policy. Rendering never fails:
// on any renderer error the caller gets the plain text back.
package markdown
