// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"encoding/json"
	"strings"

	"github.com/jeranaias/selfjustice/internal/util"
)

// EmptyPreview is shown for a conversation with no messages.
const EmptyPreview = "Empty conversation"

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is an ordered, append-only list of messages with an
// integer identity. A conversation with no messages is a draft.
type Conversation struct {
	ID       int
	messages []Message
}

// NewConversation creates an empty conversation with the given ID.
func NewConversation(id int) *Conversation {
	return &Conversation{
		ID:       id,
		messages: make([]Message, 0),
	}
}

// =============================================================================
// MESSAGE ACCESS
// =============================================================================

// Append adds a message to the end of the conversation.
func (c *Conversation) Append(msg Message) {
	c.messages = append(c.messages, msg)
}

// Messages returns a copy of the messages in display order.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// IsEmpty returns true if the conversation has no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.messages) == 0
}

// First returns the first message, if any.
func (c *Conversation) First() (Message, bool) {
	if len(c.messages) == 0 {
		return Message{}, false
	}
	return c.messages[0], true
}

// Last returns the most recent message, if any.
func (c *Conversation) Last() (Message, bool) {
	if len(c.messages) == 0 {
		return Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}

// LastReply returns the most recent assistant message, if any.
func (c *Conversation) LastReply() (Message, bool) {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if !c.messages[i].IsUser {
			return c.messages[i], true
		}
	}
	return Message{}, false
}

// Preview returns the first message's text cut to maxWidth display cells
// with "..." appended, or EmptyPreview for a draft.
// Line breaks are folded into spaces so the preview fits one row.
func (c *Conversation) Preview(maxWidth int) string {
	first, ok := c.First()
	if !ok {
		return EmptyPreview
	}
	text, _ := util.CutWidth(strings.TrimSpace(util.SingleLine(first.Text)), maxWidth)
	return text + util.Ellipsis
}

// =============================================================================
// SERIALIZATION
// =============================================================================

type conversationJSON struct {
	ID       int       `json:"id"`
	Messages []Message `json:"messages"`
}

// MarshalJSON encodes the conversation with its messages.
func (c *Conversation) MarshalJSON() ([]byte, error) {
	return json.Marshal(conversationJSON{ID: c.ID, Messages: c.Messages()})
}

// UnmarshalJSON decodes a conversation written by MarshalJSON.
func (c *Conversation) UnmarshalJSON(data []byte) error {
	var raw conversationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.ID = raw.ID
	c.messages = raw.Messages
	if c.messages == nil {
		c.messages = make([]Message, 0)
	}
	return nil
}
