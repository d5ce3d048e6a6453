// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

// =============================================================================
// THEME TESTS
// =============================================================================

func TestNewTheme_Modes(t *testing.T) {
	if !NewTheme(ModeDark).IsDark {
		t.Error("dark mode should report IsDark")
	}
	if NewTheme(ModeLight).IsDark {
		t.Error("light mode should not report IsDark")
	}
	if NewTheme(ModeAuto) == nil {
		t.Fatal("auto mode returned nil")
	}
}

func TestTheme_StylesRender(t *testing.T) {
	theme := NewTheme(ModeDark)

	for name, rendered := range map[string]string{
		"UserBubble":      theme.UserBubble.Render("hello"),
		"AssistantBubble": theme.AssistantBubble.Render("hello"),
		"FailedBubble":    theme.FailedBubble.Render("hello"),
		"PanelItem":       theme.PanelItem.Render("hello"),
		"Footer":          theme.Footer.Render("hello"),
	} {
		if !strings.Contains(rendered, "hello") {
			t.Errorf("%s did not render its content: %q", name, rendered)
		}
	}
}

func TestTheme_LayoutMode(t *testing.T) {
	theme := NewTheme(ModeDark)

	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{80, LayoutMedium},
		{120, LayoutWide},
	}

	for _, tc := range tests {
		theme.SetSize(tc.width, 24)
		if got := theme.GetLayoutMode(); got != tc.want {
			t.Errorf("width %d: layout = %v, want %v", tc.width, got, tc.want)
		}
	}
}

func TestTheme_BubbleWidth(t *testing.T) {
	theme := NewTheme(ModeDark)

	if got := theme.BubbleWidth(100); got != 75 {
		t.Errorf("BubbleWidth(100) = %d, want 75", got)
	}
	if got := theme.BubbleWidth(50); got != 48 {
		t.Errorf("BubbleWidth(50) = %d, want 48", got)
	}
	if got := theme.BubbleWidth(0); got != 40 {
		t.Errorf("BubbleWidth(0) = %d, want 40", got)
	}
}

// =============================================================================
// STATUS RENDERING TESTS
// =============================================================================

func TestRenderStatusHelpers(t *testing.T) {
	tests := []struct {
		got       string
		indicator string
	}{
		{RenderSuccess("saved"), StatusIndicators.Success},
		{RenderError("failed"), StatusIndicators.Error},
		{RenderWarning("careful"), StatusIndicators.Warning},
		{RenderInfo("note"), StatusIndicators.Info},
	}

	for _, tc := range tests {
		if !strings.Contains(tc.got, tc.indicator) {
			t.Errorf("%q missing indicator %q", tc.got, tc.indicator)
		}
	}
}
