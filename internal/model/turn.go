// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role identifies who produced a conversation turn.
type Role int

const (
	RoleHuman Role = iota
	RoleAssistant
)

// String returns the wire name of the role.
func (r Role) String() string {
	switch r {
	case RoleHuman:
		return "human"
	case RoleAssistant:
		return "assistant"
	default:
		panic(fmt.Sprintf("model: unknown role %d", int(r)))
	}
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleHuman:
		return "You"
	case RoleAssistant:
		return "Waffle"
	default:
		panic(fmt.Sprintf("model: unknown role %d", int(r)))
	}
}

// =============================================================================
// CONVERSATION TURN
// =============================================================================

// ConversationTurn is a single entry of the chat transcript.
// Turns are created once and never mutated.
type ConversationTurn struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// NewHumanTurn creates a turn for a submitted query.
func NewHumanTurn(text string) ConversationTurn {
	return newTurn(RoleHuman, text)
}

// NewAssistantTurn creates a turn for a final backend answer.
func NewAssistantTurn(text string) ConversationTurn {
	return newTurn(RoleAssistant, text)
}

func newTurn(role Role, text string) ConversationTurn {
	return ConversationTurn{
		ID:        "turn_" + uuid.NewString(),
		Role:      role,
		Text:      text,
		CreatedAt: time.Now(),
	}
}

// IsHuman returns true for turns typed by the user.
func (t ConversationTurn) IsHuman() bool {
	return t.Role == RoleHuman
}

// IsAssistant returns true for turns produced by the backend.
func (t ConversationTurn) IsAssistant() bool {
	return t.Role == RoleAssistant
}
