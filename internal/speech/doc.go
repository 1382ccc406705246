// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package speech reads answers aloud and turns spoken queries into text.
//
// Both directions drive external processes. Output goes through an Engine
// (espeak-ng by default) controlled by a Player with a small state machine:
//
//	Idle --Play--> Playing --Pause--> Paused --Resume--> Playing
//	  ^               |                  |
//	  +----end/Stop---+-------Stop-------+
//
// Input comes from a recognizer command that prints one JSON result per
// line on stdout.
package speech
