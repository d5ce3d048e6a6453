// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/mattn/go-runewidth"
)

// clipboardWrite is swapped out in tests.
var clipboardWrite = clipboard.WriteAll

// =============================================================================
// FORMATTING UTILITIES
// =============================================================================

// formatTimestamp formats a message timestamp for display under a bubble.
//   - Today: just time (e.g., "15:04")
//   - This week: day and time (e.g., "Mon 15:04")
//   - Older: date and time (e.g., "Jan 2 15:04")
func formatTimestamp(t, now time.Time) string {
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04")
	}
	if now.Sub(t) < 7*24*time.Hour {
		return t.Format("Mon 15:04")
	}
	return t.Format("Jan 2 15:04")
}

// wrapText wraps text to maxWidth display cells. Existing line breaks are
// kept and long lines break at the last space that fits.
func wrapText(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return text
	}

	var result strings.Builder
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			result.WriteString("\n")
		}
		for runewidth.StringWidth(line) > maxWidth {
			head := runewidth.Truncate(line, maxWidth, "")
			if head == "" {
				// A single rune wider than the line; emit it to make progress.
				r := []rune(line)
				head = string(r[0])
			}
			if cut := strings.LastIndexByte(head, ' '); cut > 0 {
				head = head[:cut]
			}
			result.WriteString(head)
			result.WriteString("\n")
			line = strings.TrimLeft(line[len(head):], " ")
		}
		result.WriteString(line)
	}
	return result.String()
}
