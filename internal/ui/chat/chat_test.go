// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/selfjustice/internal/export"
	"github.com/jeranaias/selfjustice/internal/reply"
	"github.com/jeranaias/selfjustice/internal/store"
	"github.com/jeranaias/selfjustice/internal/ui/styles"
)

// =============================================================================
// HELPERS
// =============================================================================

func newTestModel(t *testing.T, opts ...reply.Option) (Model, *reply.Scheduler, string) {
	t.Helper()

	dir := t.TempDir()
	st := store.New(zerolog.Nop())
	sched := reply.NewScheduler(reply.NewMockResponder(""),
		append([]reply.Option{reply.WithDelay(0)}, opts...)...)
	t.Cleanup(sched.Close)

	m := New(Options{
		Store:         st,
		Scheduler:     sched,
		Theme:         styles.NewTheme(styles.ModeDark),
		Logger:        zerolog.Nop(),
		ExportFormat:  "md",
		ExportOptions: &export.Options{OutputDir: dir, IncludeMetadata: true},
	})
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, sched, dir
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, _ := m.Update(msg)
	out, ok := updated.(Model)
	require.True(t, ok, "Update returned %T", updated)
	return out
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	return send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func press(t *testing.T, m Model, k tea.KeyType) Model {
	t.Helper()
	return send(t, m, tea.KeyMsg{Type: k})
}

func awaitReply(t *testing.T, sched *reply.Scheduler) reply.Result {
	t.Helper()
	select {
	case res := <-sched.Results():
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reply")
		return reply.Result{}
	}
}

// chat submits text and applies its reply.
func chat(t *testing.T, m Model, sched *reply.Scheduler, text string) Model {
	t.Helper()
	m = typeText(t, m, text)
	m = press(t, m, tea.KeyEnter)
	return send(t, m, ReplyMsg{Result: awaitReply(t, sched)})
}

// =============================================================================
// SUBMIT / REPLY
// =============================================================================

func TestSubmitAndReply(t *testing.T) {
	m, sched, _ := newTestModel(t)

	m = typeText(t, m, "hello")
	assert.Equal(t, "hello", m.Store().Input())

	m = press(t, m, tea.KeyEnter)
	active := m.Store().Active()
	require.Equal(t, 1, active.Len())
	assert.Empty(t, m.Store().Input())
	assert.True(t, m.Store().HasPending(active))
	assert.Contains(t, m.View(), typingText)

	m = send(t, m, ReplyMsg{Result: awaitReply(t, sched)})
	msgs := m.Store().Active().Messages()
	require.Len(t, msgs, 2)
	assert.True(t, msgs[0].IsUser)
	assert.Equal(t, "hello", msgs[0].Text)
	assert.False(t, msgs[1].IsUser)
	assert.Equal(t, `You said: "hello". This is a mock response.`, msgs[1].Text)
	assert.Len(t, m.Store().Conversations(), 1)
	assert.False(t, m.Store().HasPending(active))

	view := m.View()
	assert.Contains(t, view, "hello")
	assert.Contains(t, view, "This is a mock response.")
	assert.NotContains(t, view, typingText)
}

func TestEmptySubmitIgnored(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"spaces", "   "},
		{"tab", "\t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, _ := newTestModel(t)
			if tt.input != "" {
				m = typeText(t, m, tt.input)
			}
			m = press(t, m, tea.KeyEnter)

			assert.True(t, m.Store().Active().IsEmpty())
			assert.Empty(t, m.Store().Pending())
			assert.Empty(t, m.Store().Conversations())
		})
	}
}

func TestReplyRoutedToSubmittingConversation(t *testing.T) {
	m, sched, _ := newTestModel(t)

	m = typeText(t, m, "first")
	m = press(t, m, tea.KeyEnter)
	submitted := m.Store().Active()

	// Switch away before the reply is applied.
	m = press(t, m, tea.KeyCtrlN)
	require.NotSame(t, submitted, m.Store().Active())

	m = send(t, m, ReplyMsg{Result: awaitReply(t, sched)})

	assert.True(t, m.Store().Active().IsEmpty())
	require.Len(t, m.Store().Conversations(), 1)
	assert.Same(t, submitted, m.Store().Conversations()[0])
	assert.Equal(t, 2, submitted.Len())
}

func TestFailedReplyShowsFailedBubble(t *testing.T) {
	m, _, _ := newTestModel(t)

	m = typeText(t, m, "hello")
	m = press(t, m, tea.KeyEnter)
	key := m.Store().Pending()[0].Key

	m = send(t, m, ReplyMsg{Result: reply.Result{Key: key, Err: reply.ErrTimeout}})

	last, ok := m.Store().Active().Last()
	require.True(t, ok)
	assert.True(t, last.Failed())
	assert.Contains(t, m.View(), "took too long")
}

// =============================================================================
// CANCEL
// =============================================================================

func TestEscCancelsPendingReply(t *testing.T) {
	m, sched, _ := newTestModel(t, reply.WithDelay(time.Hour))

	m = typeText(t, m, "hello")
	m = press(t, m, tea.KeyEnter)
	require.Len(t, m.Store().Pending(), 1)

	m = press(t, m, tea.KeyEsc)
	assert.Empty(t, m.Store().Pending())
	assert.Equal(t, 1, m.Store().Active().Len())
	assert.Equal(t, "Reply canceled", m.Status())
	assert.Empty(t, m.Store().Conversations())

	select {
	case res := <-sched.Results():
		t.Fatalf("canceled reply posted a result: %+v", res)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEscOnNewDraftKeepsOtherDraftReply(t *testing.T) {
	m, sched, _ := newTestModel(t, reply.WithDelay(time.Hour))

	m = press(t, m, tea.KeyCtrlN)
	m = typeText(t, m, "hello")
	m = press(t, m, tea.KeyEnter)
	first := m.Store().Active()
	require.Len(t, m.Store().Pending(), 1)

	m = press(t, m, tea.KeyCtrlN)
	draft := m.Store().Active()
	require.NotSame(t, first, draft)
	require.Equal(t, first.ID, draft.ID, "unsaved drafts share an ID")
	assert.NotContains(t, m.View(), typingText)

	m = press(t, m, tea.KeyEsc)
	assert.Empty(t, m.Status())
	require.Len(t, m.Store().Pending(), 1)
	assert.Same(t, first, m.Store().Pending()[0].Conversation)
	assert.Len(t, sched.Pending(), 1)
}

func TestEscWithoutPendingIsQuiet(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = press(t, m, tea.KeyEsc)
	assert.Empty(t, m.Status())
}

// =============================================================================
// PANEL
// =============================================================================

func TestPanelToggle(t *testing.T) {
	m, _, _ := newTestModel(t)

	m = press(t, m, tea.KeyCtrlB)
	assert.True(t, m.PanelOpen())
	view := m.View()
	assert.Contains(t, view, "Recent Chats")
	assert.Contains(t, view, "New Chat")
	assert.Contains(t, view, "No conversations yet")

	m = press(t, m, tea.KeyEsc)
	assert.False(t, m.PanelOpen())

	m = press(t, m, tea.KeyTab)
	assert.True(t, m.PanelOpen())
	m = press(t, m, tea.KeyTab)
	assert.False(t, m.PanelOpen())
}

func TestPanelSelectConversation(t *testing.T) {
	m, sched, _ := newTestModel(t)

	m = chat(t, m, sched, "first question")
	m = press(t, m, tea.KeyCtrlN)
	m = chat(t, m, sched, "second question")
	require.Len(t, m.Store().Conversations(), 2)
	require.Equal(t, 1, m.Store().Active().ID)

	m = press(t, m, tea.KeyCtrlB)
	view := m.View()
	assert.Contains(t, view, "first question...")
	assert.Contains(t, view, "second question...")
	// Most recent first: the view lists conversation 1 above conversation 0.
	assert.Less(t, strings.Index(view, "second question..."), strings.Index(view, "first question..."))

	// Cursor starts on the active conversation; down moves to conversation 0.
	m = press(t, m, tea.KeyDown)
	m = press(t, m, tea.KeyEnter)

	assert.False(t, m.PanelOpen())
	assert.Equal(t, 0, m.Store().Active().ID)

	m = chat(t, m, sched, "follow up")
	conv, ok := m.Store().Find(0)
	require.True(t, ok)
	assert.Equal(t, 4, conv.Len())
	assert.Len(t, m.Store().Conversations(), 2)
}

func TestPanelNewChatRow(t *testing.T) {
	m, sched, _ := newTestModel(t)
	m = chat(t, m, sched, "hello")

	m = press(t, m, tea.KeyCtrlB)
	m = press(t, m, tea.KeyUp)
	m = press(t, m, tea.KeyUp) // clamps at the top
	m = press(t, m, tea.KeyEnter)

	assert.False(t, m.PanelOpen())
	assert.Equal(t, 1, m.Store().Active().ID)
	assert.True(t, m.Store().Active().IsEmpty())
	assert.Contains(t, m.View(), emptyTitle)
}

func TestPanelCtrlNClosesPanel(t *testing.T) {
	m, sched, _ := newTestModel(t)
	m = chat(t, m, sched, "hello")

	m = press(t, m, tea.KeyCtrlB)
	m = press(t, m, tea.KeyCtrlN)
	assert.False(t, m.PanelOpen())
	assert.True(t, m.Store().Active().IsEmpty())
}

func TestPanelCursorClampsAtBottom(t *testing.T) {
	m, sched, _ := newTestModel(t)
	m = chat(t, m, sched, "only")

	m = press(t, m, tea.KeyCtrlB)
	for i := 0; i < 5; i++ {
		m = press(t, m, tea.KeyDown)
	}
	assert.Equal(t, 1, m.panelCursor)
}

// =============================================================================
// COPY
// =============================================================================

func TestCopyLastReply(t *testing.T) {
	var copied string
	orig := clipboardWrite
	clipboardWrite = func(text string) error {
		copied = text
		return nil
	}
	t.Cleanup(func() { clipboardWrite = orig })

	m, sched, _ := newTestModel(t)
	m = chat(t, m, sched, "hello")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	require.NotNil(t, cmd)
	msg := cmd()
	status, ok := msg.(StatusMsg)
	require.True(t, ok)
	assert.Equal(t, "Copied!", status.Text)
	assert.Equal(t, `You said: "hello". This is a mock response.`, copied)

	m = send(t, m, status)
	assert.Equal(t, "Copied!", m.Status())
}

func TestCopyWithoutReply(t *testing.T) {
	m, _, _ := newTestModel(t)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Nil(t, cmd)
	assert.Equal(t, "No reply to copy", updated.(Model).Status())
}

// =============================================================================
// EXPORT
// =============================================================================

func TestExportCommand(t *testing.T) {
	m, sched, dir := newTestModel(t)
	m = chat(t, m, sched, "hello")

	m = typeText(t, m, "/export json")
	m = press(t, m, tea.KeyEnter)

	require.True(t, strings.HasPrefix(m.Status(), "Exported to "), m.Status())
	path := strings.TrimPrefix(m.Status(), "Exported to ")
	assert.True(t, strings.HasPrefix(path, dir))
	assert.True(t, strings.HasSuffix(path, ".json"))
	_, err := os.Stat(path)
	require.NoError(t, err)

	// The command is not sent as a message.
	assert.Equal(t, 2, m.Store().Active().Len())
	assert.Empty(t, m.Store().Input())
}

func TestExportEmptyConversation(t *testing.T) {
	m, _, _ := newTestModel(t)

	m = typeText(t, m, "/export")
	m = press(t, m, tea.KeyEnter)
	assert.Equal(t, "Nothing to export yet", m.Status())
}

func TestExportUnknownFormat(t *testing.T) {
	m, sched, _ := newTestModel(t)
	m = chat(t, m, sched, "hello")

	m = typeText(t, m, "/export pdf")
	m = press(t, m, tea.KeyEnter)
	assert.Contains(t, m.Status(), "unsupported export format")
}

func TestParseExportCommand(t *testing.T) {
	tests := []struct {
		input  string
		format string
		ok     bool
	}{
		{"/export", "", true},
		{"/export md", "md", true},
		{"  /export json  ", "json", true},
		{"/exports", "", false},
		{"please /export", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		format, ok := parseExportCommand(tt.input)
		if ok != tt.ok || format != tt.format {
			t.Errorf("parseExportCommand(%q) = (%q, %v), want (%q, %v)", tt.input, format, ok, tt.format, tt.ok)
		}
	}
}

// =============================================================================
// VIEW / MISC
// =============================================================================

func TestViewBeforeResize(t *testing.T) {
	st := store.New(zerolog.Nop())
	sched := reply.NewScheduler(reply.NewMockResponder(""))
	t.Cleanup(sched.Close)

	m := New(Options{Store: st, Scheduler: sched, Theme: styles.NewTheme(styles.ModeLight)})
	assert.Equal(t, "Initializing...", m.View())
}

func TestViewEmptyState(t *testing.T) {
	m, _, _ := newTestModel(t)
	view := m.View()

	assert.Contains(t, view, headerTitle)
	assert.Contains(t, view, emptyTitle)
	assert.Contains(t, view, emptySubtitle)
	assert.Contains(t, view, footerText)
}

func TestCtrlCQuits(t *testing.T) {
	m, _, _ := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestSpinnerStopsWhenIdle(t *testing.T) {
	m, sched, _ := newTestModel(t)
	m = chat(t, m, sched, "hello")

	_, cmd := m.Update(spinner.TickMsg{})
	assert.Nil(t, cmd)
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"fits", "hello", 10, "hello"},
		{"break at space", "hello world", 8, "hello\nworld"},
		{"long word", "abcdefghij", 4, "abcd\nefgh\nij"},
		{"keeps newlines", "a\nb", 10, "a\nb"},
		{"wide runes", "日本語テキスト", 6, "日本語\nテキス\nト"},
		{"zero width", "hello", 0, "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrapText(tt.text, tt.width))
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"today", time.Date(2025, 3, 14, 9, 5, 0, 0, time.UTC), "09:05"},
		{"this week", time.Date(2025, 3, 12, 9, 5, 0, 0, time.UTC), "Wed 09:05"},
		{"older", time.Date(2025, 1, 2, 9, 5, 0, 0, time.UTC), "Jan 2 09:05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatTimestamp(tt.t, now))
		})
	}
}
