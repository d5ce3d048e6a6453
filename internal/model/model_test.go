// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewUserMessage(t *testing.T) {
	msg := NewUserMessage("  keep my spacing  ")

	if !msg.IsUser {
		t.Error("user message should have IsUser set")
	}
	if msg.Text != "  keep my spacing  " {
		t.Errorf("text should be stored as typed, got %q", msg.Text)
	}
	if msg.Status != StatusDelivered {
		t.Errorf("status = %q, want %q", msg.Status, StatusDelivered)
	}
	if msg.ID == "" {
		t.Error("message should have an ID")
	}
	if msg.Timestamp.IsZero() {
		t.Error("message should have a timestamp")
	}
	if msg.Role() != RoleUser {
		t.Errorf("Role() = %q, want user", msg.Role())
	}
}

func TestNewFailedMessage(t *testing.T) {
	msg := NewFailedMessage("The reply timed out.")

	if msg.IsUser {
		t.Error("failed reply must be an assistant message")
	}
	if !msg.Failed() {
		t.Error("Failed() should be true")
	}
	if msg.Role() != RoleAssistant {
		t.Errorf("Role() = %q, want assistant", msg.Role())
	}
}

func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 10000; i++ {
		id := NewID()
		if seen[id] {
			t.Fatalf("duplicate ID after %d iterations: %s", i, id)
		}
		seen[id] = true
	}
}

func TestRole_DisplayName(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleUser, "You"},
		{RoleAssistant, "Legal AI"},
		{Role("other"), "other"},
	}

	for _, tc := range tests {
		if got := tc.role.DisplayName(); got != tc.want {
			t.Errorf("%q.DisplayName() = %q, want %q", tc.role, got, tc.want)
		}
	}
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestConversation_AppendPreservesOrder(t *testing.T) {
	conv := NewConversation(1)
	if !conv.IsEmpty() {
		t.Fatal("new conversation should be empty")
	}

	conv.Append(NewUserMessage("first"))
	conv.Append(NewAssistantMessage("second"))
	conv.Append(NewUserMessage("third"))

	msgs := conv.Messages()
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	for i, want := range []string{"first", "second", "third"} {
		if msgs[i].Text != want {
			t.Errorf("message %d = %q, want %q", i, msgs[i].Text, want)
		}
	}
}

func TestConversation_MessagesIsCopy(t *testing.T) {
	conv := NewConversation(1)
	conv.Append(NewUserMessage("original"))

	msgs := conv.Messages()
	msgs[0].Text = "changed"
	_ = append(msgs, NewUserMessage("extra"))

	if conv.Len() != 1 {
		t.Errorf("Len() = %d, want 1", conv.Len())
	}
	if got := conv.Messages()[0].Text; got != "original" {
		t.Errorf("conversation was mutated through copy: %q", got)
	}
}

func TestConversation_LastReply(t *testing.T) {
	conv := NewConversation(1)
	if _, ok := conv.LastReply(); ok {
		t.Error("empty conversation has no reply")
	}

	conv.Append(NewUserMessage("q1"))
	conv.Append(NewAssistantMessage("a1"))
	conv.Append(NewUserMessage("q2"))

	reply, ok := conv.LastReply()
	if !ok || reply.Text != "a1" {
		t.Errorf("LastReply() = %q, %v", reply.Text, ok)
	}

	last, _ := conv.Last()
	if last.Text != "q2" {
		t.Errorf("Last() = %q, want q2", last.Text)
	}
}

func TestConversation_Preview(t *testing.T) {
	tests := []struct {
		name  string
		first string
		want  string
	}{
		{"empty", "", EmptyPreview},
		{"short", "Hi", "Hi..."},
		{"exactly 30", "abcdefghijklmnopqrstuvwxyz0123", "abcdefghijklmnopqrstuvwxyz0123..."},
		{"long", "What are my rights as a tenant in California?", "What are my rights as a tenant..."},
		{"multiline", "line one\nline two", "line one line two..."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			conv := NewConversation(1)
			if tc.first != "" {
				conv.Append(NewUserMessage(tc.first))
			}
			if got := conv.Preview(30); got != tc.want {
				t.Errorf("Preview(30) = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestConversation_JSON(t *testing.T) {
	conv := NewConversation(7)
	conv.Append(NewUserMessage("hello"))
	conv.Append(NewFailedMessage("failed"))

	data, err := json.Marshal(conv)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded Conversation
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.ID != 7 || decoded.Len() != 2 {
		t.Fatalf("decoded = id %d, %d messages", decoded.ID, decoded.Len())
	}
	if !decoded.Messages()[1].Failed() {
		t.Error("failed status lost in JSON")
	}
}
