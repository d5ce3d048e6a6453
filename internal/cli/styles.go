// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Line-mode styling, drawn from the TUI palette so both modes
// share one look.

package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/selfjustice/internal/ui/styles"
)

func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// separatorWidth is the default RenderSeparator width.
const separatorWidth = 30

var (
	// TitleStyle is used for banners and section titles
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(styles.Blue)

	// LabelStyle pads the left column of help and config listings
	LabelStyle = lipgloss.NewStyle().Foreground(styles.TextSecondary).Width(20)

	ValueStyle = lipgloss.NewStyle().Foreground(styles.TextPrimary)

	SuccessStyle = lipgloss.NewStyle().Bold(true).Foreground(styles.Emerald)

	// ErrorStyle marks errors and failed replies
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(styles.Rose)

	// WarningStyle marks warnings and cancelled replies
	WarningStyle = lipgloss.NewStyle().Foreground(styles.Amber)

	DimStyle  = lipgloss.NewStyle().Foreground(styles.TextMuted)
	InfoStyle = lipgloss.NewStyle().Foreground(styles.Slate)

	// PromptStyle labels the user's lines, AssistantStyle the replies.
	PromptStyle    = lipgloss.NewStyle().Bold(true).Foreground(styles.Blue)
	AssistantStyle = lipgloss.NewStyle().Bold(true).Foreground(styles.Slate)
)

// RenderSeparator renders a dim horizontal rule, separatorWidth cells unless
// a positive width is given.
func RenderSeparator(width ...int) string {
	w := separatorWidth
	if len(width) > 0 && width[0] > 0 {
		w = width[0]
	}
	return DimStyle.Render(strings.Repeat("-", w))
}
