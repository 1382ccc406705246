// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the waffle packages.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe string truncation with ellipsis
//   - TruncateWidth: Display-width truncation for terminal columns
//   - MaskSecret: Hide all but the edges of an API key
//
// Time:
//   - TimeAgo: Coarse relative age such as "1 DAY AGO"
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//
// # Usage
//
//	// Fit a document name into a list column
//	name := util.TruncateWidth(doc.Name, 32)
//
//	// Write the config file atomically
//	err := util.AtomicWriteFile(path, data, 0600)
package util
