// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/selfjustice/internal/util"
)

// =============================================================================
// CONVERSATION PANEL
// =============================================================================

// Row 0 of the panel is "New Chat"; row i > 0 is Displayed()[i-1].
const newChatRow = 0

func (m *Model) openPanel() {
	m.panelOpen = true
	m.panelCursor = newChatRow
	// Start on the active conversation when it is persisted.
	for i, conv := range m.store.Displayed() {
		if conv == m.store.Active() {
			m.panelCursor = i + 1
			break
		}
	}
	m.refreshViewport()
}

func (m *Model) closePanel() {
	m.panelOpen = false
	m.refreshViewport()
}

// panelRows is the number of selectable rows, "New Chat" included.
func (m Model) panelRows() int {
	return len(m.store.Conversations()) + 1
}

// handlePanelKey handles keys while the panel has focus.
func (m Model) handlePanelKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Cancel), key.Matches(msg, m.keyMap.TogglePanel):
		m.closePanel()

	case key.Matches(msg, m.keyMap.Up):
		if m.panelCursor > 0 {
			m.panelCursor--
		}

	case key.Matches(msg, m.keyMap.Down):
		if m.panelCursor < m.panelRows()-1 {
			m.panelCursor++
		}

	case key.Matches(msg, m.keyMap.NewChat):
		m.startNewConversation()

	case key.Matches(msg, m.keyMap.Submit):
		m.selectPanelRow()
	}
	return m, nil
}

// selectPanelRow acts on the row under the cursor.
func (m *Model) selectPanelRow() {
	if m.panelCursor == newChatRow {
		m.startNewConversation()
		return
	}

	displayed := m.store.Displayed()
	i := m.panelCursor - 1
	if i < 0 || i >= len(displayed) {
		return
	}
	conv := displayed[i]
	if m.store.SelectConversation(conv) {
		m.logger.Info().Int("conversation_id", conv.ID).Msg("conversation selected")
	}
	m.panelOpen = false
	m.refreshViewport()
}

// renderPanel draws the "Recent Chats" panel at the given height.
func (m Model) renderPanel(height int) string {
	width := m.effectivePanelWidth()
	// Panel style has a right border and horizontal padding.
	inner := width - 3
	if inner < 4 {
		inner = 4
	}

	var b strings.Builder
	b.WriteString(m.theme.PanelTitle.Render("Recent Chats"))
	b.WriteString("\n")

	newChat := m.theme.PanelNewChat
	if m.panelCursor == newChatRow {
		newChat = newChat.Underline(true)
	}
	b.WriteString(newChat.Render("+ New Chat"))
	b.WriteString("\n\n")

	displayed := m.store.Displayed()
	if len(displayed) == 0 {
		b.WriteString(m.theme.PanelEmpty.Render("No conversations yet"))
	}

	active := m.store.Active()
	for i, conv := range displayed {
		row := i + 1
		label := util.TruncateWidth(conv.Preview(previewWidth), inner-2)
		if m.store.HasPending(conv) {
			label = util.TruncateWidth(label, inner-4) + " " + m.spinner.View()
		}

		style := m.theme.PanelItem
		switch {
		case row == m.panelCursor:
			style = m.theme.PanelItemSelected
		case conv == active:
			style = m.theme.PanelItemActive
		}
		b.WriteString(style.Width(inner).Render(label))
		if i < len(displayed)-1 {
			b.WriteString("\n")
		}
	}

	return m.theme.Panel.
		Width(width - 1).
		Height(height).
		MaxHeight(height).
		Render(b.String())
}

// panelLayout joins the panel to the left of body.
func panelLayout(panel, body string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, panel, body)
}
