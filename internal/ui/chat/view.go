// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/selfjustice/internal/model"
)

// =============================================================================
// TEXT
// =============================================================================

const (
	headerTitle   = "SELF JUSTICE -- YOUR LEGAL AI"
	emptyTitle    = "How can I help you today?"
	emptySubtitle = "Ask me anything!"
	footerText    = "Legal AI can make mistakes. Check important info."
	typingText    = "Legal AI is typing..."
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the chat screen.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	body := m.viewport.View()
	if m.panelOpen {
		body = panelLayout(m.renderPanel(m.bodyHeight()), body)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderInput(),
		m.renderStatusBar(),
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render(headerTitle)
	hint := m.theme.HeaderHint.Render("ctrl+b chats")

	// Header has horizontal padding of 1 on each side.
	gap := m.width - 2 - lipgloss.Width(title) - lipgloss.Width(hint)
	if gap < 1 {
		return m.theme.Header.Width(m.width).Render(title)
	}
	return m.theme.Header.Width(m.width).Render(title + strings.Repeat(" ", gap) + hint)
}

func (m Model) renderInput() string {
	// InputContainer has a border and padding on both sides.
	return m.theme.InputContainer.Width(m.width - 2).Render(m.input.View())
}

func (m Model) renderStatusBar() string {
	var line string
	switch {
	case m.store.HasPending(m.store.Active()):
		line = m.spinner.View() + " " + m.theme.ThinkingText.Render(typingText)
	case m.statusMsg != "" && m.statusError:
		line = m.theme.ErrorText.Render(m.statusMsg)
	case m.statusMsg != "":
		line = m.theme.Notice.Render(m.statusMsg)
	case m.panelOpen:
		line = m.renderShortcuts(m.keyMap.PanelHelp())
	default:
		line = m.renderShortcuts(m.keyMap.ShortHelp())
	}
	return m.theme.StatusBar.MaxWidth(m.width).Render(line)
}

func (m Model) renderShortcuts(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, m.theme.ShortcutKey.Render(h.Key)+" "+m.theme.ShortcutDesc.Render(h.Desc))
	}
	return strings.Join(parts, m.theme.ShortcutDesc.Render("  "))
}

func (m Model) renderFooter() string {
	return m.theme.Footer.Width(m.width).Render(footerText)
}

// =============================================================================
// MESSAGES
// =============================================================================

// renderMessages renders the active conversation for an area of width cells.
func (m *Model) renderMessages(width int) string {
	conv := m.store.Active()
	if conv.IsEmpty() {
		return m.renderEmptyState(width)
	}

	msgs := conv.Messages()
	parts := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		parts = append(parts, m.renderMessage(msg, width))
	}
	return strings.Join(parts, "\n")
}

// renderMessage renders one bubble, user on the right and Legal AI on the left.
func (m *Model) renderMessage(msg model.Message, width int) string {
	bubbleWidth := m.theme.BubbleWidth(width)
	// Bubbles carry a border and padding of up to 4 cells.
	textWidth := bubbleWidth - 4
	if textWidth < 8 {
		textWidth = 8
	}

	var rendered string
	switch {
	case msg.IsUser:
		text := wrapText(msg.Text, textWidth)
		rendered = m.theme.UserBubble.Render(text)
	case msg.Failed():
		text := wrapText(msg.Text, textWidth)
		rendered = m.theme.FailedBubble.Render(text)
	default:
		rendered = m.theme.AssistantBubble.Render(m.renderReplyText(msg.Text, textWidth))
	}

	if m.showTimestamps {
		stamp := m.theme.Timestamp.Render(msg.Role().DisplayName() + " " + formatTimestamp(msg.Timestamp, m.now()))
		if msg.IsUser {
			rendered = lipgloss.JoinVertical(lipgloss.Right, rendered, stamp)
		} else {
			rendered = lipgloss.JoinVertical(lipgloss.Left, rendered, stamp)
		}
	}

	align := lipgloss.Left
	if msg.IsUser {
		align = lipgloss.Right
	}
	return lipgloss.NewStyle().
		MarginTop(1).
		Render(lipgloss.PlaceHorizontal(width-1, align, rendered))
}

// renderReplyText renders a reply as markdown when enabled.
func (m *Model) renderReplyText(text string, width int) string {
	if m.markdown == nil {
		return wrapText(text, width)
	}
	// Glamour adds a two-cell margin on each side.
	out := m.markdown.Render(text, width-4)
	if lipgloss.Width(out) > width {
		return wrapText(text, width)
	}
	return out
}

// renderEmptyState is shown for a conversation with no messages.
func (m *Model) renderEmptyState(width int) string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		m.theme.EmptyTitle.Render(emptyTitle),
		"",
		m.theme.EmptySubtitle.Render(emptySubtitle),
	)
	return lipgloss.Place(width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, content)
}
