// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the selfjustice TUI.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection. NewTheme accepts "auto", "dark" or "light"; auto asks the
terminal for its background through termenv.

# Colors (colors.go)

	Blue     - brand, user bubbles, primary actions
	Slate    - assistant accents
	Rose     - failed replies and errors
	Amber    - pending replies and warnings
	Emerald  - success notices

# Theme (theme.go)

The Theme groups the header, bubble, input, status bar and conversation
panel styles, and tracks the terminal size for responsive layouts.
*/
package styles
