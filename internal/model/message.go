// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Legal AI"
	default:
		return string(r)
	}
}

// =============================================================================
// STATUS TYPE
// =============================================================================

// Status is the delivery state of a message.
type Status string

const (
	// StatusDelivered marks user messages and successful replies.
	StatusDelivered Status = "delivered"
	// StatusFailed marks a reply whose responder returned an error.
	StatusFailed Status = "failed"
)

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single chat message. Messages are values and are never
// modified after creation.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	IsUser    bool      `json:"is_user"`
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// NewUserMessage creates a delivered user message with a fresh ID.
// The text is kept exactly as given.
func NewUserMessage(text string) Message {
	return Message{
		ID:        NewID(),
		Text:      text,
		IsUser:    true,
		Status:    StatusDelivered,
		Timestamp: time.Now(),
	}
}

// NewAssistantMessage creates a delivered assistant reply.
func NewAssistantMessage(text string) Message {
	return Message{
		ID:        NewID(),
		Text:      text,
		Status:    StatusDelivered,
		Timestamp: time.Now(),
	}
}

// NewFailedMessage creates an assistant message describing a failed reply.
func NewFailedMessage(text string) Message {
	msg := NewAssistantMessage(text)
	msg.Status = StatusFailed
	return msg
}

// Role returns the sender role derived from IsUser.
func (m Message) Role() Role {
	if m.IsUser {
		return RoleUser
	}
	return RoleAssistant
}

// Failed reports whether the message records a failed reply.
func (m Message) Failed() bool {
	return m.Status == StatusFailed
}

// IsEmpty returns true if the message has no text.
func (m Message) IsEmpty() bool {
	return len(m.Text) == 0
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// NewID returns a new message ID. IDs are ULIDs with monotonic entropy,
// so IDs generated within one process never repeat.
func NewID() string {
	return ulid.Make().String()
}
