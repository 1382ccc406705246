// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package table parses and renders backend table extractions.
//
// Extractions arrive as JSON strings inside streaming frames. Each one has a
// meta block and a column-oriented data block:
//
//	{"meta": {"table_heading": "T1", "pdf_url": "http://x", "page_number": 1},
//	 "data": {"a": {"0": "v1", "1": "v2"}, "b": {"0": "w1", "1": "w2"}}}
//
// Column and row order follow the payload the way a browser would iterate
// it: integer-like keys ascend first, other keys keep document order.
//
// Rows are taken from the first column. When later columns have a different
// set of row keys, missing cells render empty and extra keys are dropped;
// Validate reports the mismatch so callers can log it.
//
// # Usage
//
//	tables, errs := table.ParseAll(frame.Tables)
//	fmt.Print(table.RenderTerminal(tables, 100))
//	html := table.RenderHTML(tables)
package table
