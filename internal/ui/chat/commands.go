// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/selfjustice/internal/export"
	"github.com/jeranaias/selfjustice/internal/reply"
)

// =============================================================================
// REPLY DELIVERY
// =============================================================================

// waitForReply blocks until the scheduler posts a result. The update loop
// re-issues it after every ReplyMsg.
func waitForReply(results <-chan reply.Result) tea.Cmd {
	return func() tea.Msg {
		res, ok := <-results
		if !ok {
			return RepliesClosedMsg{}
		}
		return ReplyMsg{Result: res}
	}
}

// =============================================================================
// CLIPBOARD
// =============================================================================

// copyCmd writes text to the system clipboard off the update loop.
func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboardWrite(text); err != nil {
			return StatusMsg{Text: fmt.Sprintf("Copy failed: %v", err), Error: true}
		}
		return StatusMsg{Text: "Copied!"}
	}
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

const exportCommand = "/export"

// parseExportCommand reports whether input is an /export command and returns
// the requested format ("" for the configured default).
func parseExportCommand(input string) (format string, ok bool) {
	fields := strings.Fields(input)
	if len(fields) == 0 || fields[0] != exportCommand {
		return "", false
	}
	if len(fields) > 1 {
		format = fields[1]
	}
	return format, true
}

// runExport writes the active conversation and returns the status to show.
// It runs on the update loop because the conversation is owned there.
func (m *Model) runExport(format string) StatusMsg {
	if format == "" {
		format = m.exportFormat
	}
	conv := m.store.Active()

	path, err := export.Export(conv, format, m.exportOpts)
	if err != nil {
		m.logger.Warn().Err(err).Int("conversation_id", conv.ID).Str("format", format).Msg("export failed")
		if errors.Is(err, export.ErrEmptyConversation) {
			return StatusMsg{Text: "Nothing to export yet", Error: true}
		}
		return StatusMsg{Text: fmt.Sprintf("Export failed: %v", err), Error: true}
	}

	m.logger.Info().Int("conversation_id", conv.ID).Str("path", path).Msg("conversation exported")
	return StatusMsg{Text: "Exported to " + path}
}
