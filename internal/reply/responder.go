// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reply

import (
	"context"
	"fmt"
	"strings"

	"github.com/jeranaias/selfjustice/internal/model"
)

// Placeholder is replaced with the user's text in a reply template.
const Placeholder = "{input}"

// DefaultTemplate is the mock legal-AI reply.
const DefaultTemplate = `You said: "` + Placeholder + `". This is a mock response.`

// Responder produces the assistant reply for a conversation. history holds
// the conversation's messages at the time the user message was sent, ending
// with that message.
type Responder interface {
	Respond(ctx context.Context, history []model.Message) (string, error)
}

// ResponderFunc adapts a function to the Responder interface.
type ResponderFunc func(ctx context.Context, history []model.Message) (string, error)

// Respond calls f.
func (f ResponderFunc) Respond(ctx context.Context, history []model.Message) (string, error) {
	return f(ctx, history)
}

// =============================================================================
// MOCK RESPONDER
// =============================================================================

// MockResponder answers every message with a fixed template.
type MockResponder struct {
	Template string
}

// NewMockResponder creates a mock responder. An empty template selects
// DefaultTemplate.
func NewMockResponder(template string) *MockResponder {
	if template == "" {
		template = DefaultTemplate
	}
	return &MockResponder{Template: template}
}

// Respond echoes the last user message through the template.
func (m *MockResponder) Respond(ctx context.Context, history []model.Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].IsUser {
			return Render(m.Template, history[i].Text), nil
		}
	}
	return "", fmt.Errorf("no user message in history: %w", ErrMalformed)
}

// Render substitutes input into template.
func Render(template, input string) string {
	return strings.ReplaceAll(template, Placeholder, input)
}
