// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - Terminal detection for selfjustice.
//
// The TUI needs a terminal on both stdin and stdout; without one main falls
// back to line mode. Colored output respects NO_COLOR and FORCE_COLOR.

package cli

import (
	"os"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const (
	// DefaultTerminalWidth is used when stdout is not a terminal.
	DefaultTerminalWidth = 80

	// MinTerminalWidth keeps markdown wrapping readable in narrow windows.
	MinTerminalWidth = 40
)

func isTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// IsTTY reports whether stdin is a terminal.
func IsTTY() bool { return isTerminal(os.Stdin) }

// IsStdoutTTY reports whether stdout is a terminal.
func IsStdoutTTY() bool { return isTerminal(os.Stdout) }

// CanRunTUI reports whether both stdin and stdout are terminals.
func CanRunTUI() bool {
	return IsTTY() && IsStdoutTTY()
}

// GetTerminalWidth returns the width of stdout, clamped to MinTerminalWidth,
// or DefaultTerminalWidth when it is unknown.
func GetTerminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	switch {
	case err != nil, w <= 0:
		return DefaultTerminalWidth
	case w < MinTerminalWidth:
		return MinTerminalWidth
	default:
		return w
	}
}

// ColorsEnabled is decided once per process: NO_COLOR wins over
// FORCE_COLOR, which wins over terminal detection (https://no-color.org/).
var ColorsEnabled = sync.OnceValue(func() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	return IsStdoutTTY()
})

// GetColorProfile returns termenv.Ascii when colors are off, otherwise the
// profile the terminal supports.
func GetColorProfile() termenv.Profile {
	if !ColorsEnabled() {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}
