// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/thewaffle/waffle/internal/model"
	"github.com/thewaffle/waffle/internal/speech"
)

// =============================================================================
// STREAMING MESSAGES
// =============================================================================

// StreamEventMsg carries one streaming event onto the UI loop.
type StreamEventMsg struct {
	Event model.StreamingEvent
}

// =============================================================================
// SPEECH MESSAGES
// =============================================================================

// SpeechStateMsg reports a playback state change the UI did not cause,
// such as the synthesizer finishing.
type SpeechStateMsg struct {
	State speech.State
}

// TranscriptMsg delivers recognized speech for the query input.
type TranscriptMsg struct {
	Text string
}

// =============================================================================
// TRANSLATION MESSAGES
// =============================================================================

// TranslatedMsg carries a translated assistant turn.
type TranslatedMsg struct {
	TurnID string
	Text   string
}

// =============================================================================
// NAVIGATION MESSAGES
// =============================================================================

// BackMsg asks the parent to return to the landing view.
type BackMsg struct{}
