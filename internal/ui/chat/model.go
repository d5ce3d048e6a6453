// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jeranaias/selfjustice/internal/export"
	"github.com/jeranaias/selfjustice/internal/reply"
	"github.com/jeranaias/selfjustice/internal/store"
	"github.com/jeranaias/selfjustice/internal/ui/styles"
)

// =============================================================================
// LAYOUT
// =============================================================================

const (
	headerHeight = 2 // title + bottom border
	inputHeight  = 3 // rounded border around one line
	statusHeight = 1
	footerHeight = 1

	// DefaultPanelWidth is the width of the conversation panel.
	DefaultPanelWidth = 36

	// previewWidth is the number of cells of a conversation preview.
	previewWidth = 30

	inputCharLimit = 4096
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures a chat Model.
type Options struct {
	Store     *store.Store
	Scheduler *reply.Scheduler
	Theme     *styles.Theme
	Logger    zerolog.Logger

	PanelWidth     int
	ShowTimestamps bool
	Markdown       bool

	ExportFormat  string
	ExportOptions *export.Options

	// Now overrides the clock used for timestamps.
	Now func() time.Time
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	store     *store.Store
	scheduler *reply.Scheduler
	theme     *styles.Theme
	logger    zerolog.Logger
	keyMap    KeyMap

	// Components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	markdown *markdownRenderer

	// Conversation panel
	panelOpen   bool
	panelCursor int
	panelWidth  int

	showTimestamps bool
	exportFormat   string
	exportOpts     *export.Options
	now            func() time.Time

	// Layout
	width  int
	height int
	ready  bool

	// Status line
	statusMsg   string
	statusError bool
	spinning    bool
}

// New creates a chat model over the given store and scheduler.
func New(opts Options) Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(styles.ModeAuto)
	}

	input := textinput.New()
	input.Prompt = "> "
	input.PromptStyle = theme.InputPrompt
	input.Placeholder = "Ask a legal question..."
	input.PlaceholderStyle = theme.InputPlaceholder
	input.CharLimit = inputCharLimit
	input.SetValue(opts.Store.Input())
	input.Focus()

	vp := viewport.New(80, 20)

	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 8,
	}
	s.Style = theme.Spinner

	panelWidth := opts.PanelWidth
	if panelWidth <= 0 {
		panelWidth = DefaultPanelWidth
	}

	exportOpts := opts.ExportOptions
	if exportOpts == nil {
		exportOpts = export.DefaultOptions()
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	m := Model{
		store:          opts.Store,
		scheduler:      opts.Scheduler,
		theme:          theme,
		logger:         opts.Logger.With().Str("component", "chat").Logger(),
		keyMap:         DefaultKeyMap(),
		viewport:       vp,
		input:          input,
		spinner:        s,
		panelWidth:     panelWidth,
		showTimestamps: opts.ShowTimestamps,
		exportFormat:   opts.ExportFormat,
		exportOpts:     exportOpts,
		now:            now,
	}
	if opts.Markdown {
		m.markdown = newMarkdownRenderer(theme.IsDark)
	}
	return m
}

// Init starts the cursor blink and the reply listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForReply(m.scheduler.Results()))
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles a Bubble Tea message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleResize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ReplyMsg:
		return m.handleReply(msg.Result)

	case RepliesClosedMsg:
		m.logger.Debug().Msg("reply channel closed")
		return m, nil

	case StatusMsg:
		m.setStatus(msg)
		return m, nil

	case spinner.TickMsg:
		if !m.spinning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey routes a key press to the panel or the chat.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMap.Quit) {
		return m, tea.Quit
	}

	m.clearStatus()

	if m.panelOpen {
		return m.handlePanelKey(msg)
	}

	switch {
	case key.Matches(msg, m.keyMap.Submit):
		return m.submit()

	case key.Matches(msg, m.keyMap.TogglePanel):
		m.openPanel()
		return m, nil

	case key.Matches(msg, m.keyMap.NewChat):
		m.startNewConversation()
		return m, nil

	case key.Matches(msg, m.keyMap.Cancel):
		m.cancelActiveReplies()
		return m, nil

	case key.Matches(msg, m.keyMap.Copy):
		return m, m.copyLastReply()

	case key.Matches(msg, m.keyMap.PageUp), key.Matches(msg, m.keyMap.PageDown),
		key.Matches(msg, m.keyMap.Up), key.Matches(msg, m.keyMap.Down):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.store.SetInput(m.input.Value())
	return m, cmd
}

// submit sends the input buffer, or runs it as a slash command.
func (m Model) submit() (tea.Model, tea.Cmd) {
	m.store.SetInput(m.input.Value())

	if format, ok := parseExportCommand(m.store.Input()); ok {
		m.input.Reset()
		m.store.SetInput("")
		m.setStatus(m.runExport(format))
		return m, nil
	}

	p, ok := m.store.Submit()
	if !ok {
		return m, nil
	}
	m.input.Reset()

	if _, err := m.scheduler.Schedule(p.Request()); err != nil {
		m.logger.Error().Err(err).Str("key", p.Key).Msg("schedule reply")
		m.store.FailReply(p.Key, err)
	} else {
		m.logger.Debug().Str("key", p.Key).Int("conversation_id", p.Conversation.ID).Msg("reply scheduled")
	}

	m.refreshViewport()
	return m, m.startSpinner()
}

// handleReply applies a scheduler result and keeps listening.
func (m Model) handleReply(res reply.Result) (tea.Model, tea.Cmd) {
	if m.store.Apply(res) {
		m.refreshViewport()
	}
	if len(m.store.Pending()) == 0 {
		m.spinning = false
	}
	return m, waitForReply(m.scheduler.Results())
}

// cancelActiveReplies cancels the active conversation's pending replies.
func (m *Model) cancelActiveReplies() {
	active := m.store.Active()
	keys := m.store.PendingFor(active)
	for _, k := range keys {
		m.scheduler.Cancel(k)
		m.store.CancelReply(k)
	}
	if len(keys) > 0 {
		m.logger.Info().Int("conversation_id", active.ID).Int("count", len(keys)).Msg("replies canceled")
		m.setStatus(StatusMsg{Text: "Reply canceled"})
	}
	if len(m.store.Pending()) == 0 {
		m.spinning = false
	}
}

// startNewConversation makes a fresh draft active and closes the panel.
func (m *Model) startNewConversation() {
	conv := m.store.StartNewConversation()
	m.logger.Info().Int("conversation_id", conv.ID).Msg("new chat")
	m.panelOpen = false
	m.refreshViewport()
}

// copyLastReply copies the active conversation's last reply.
func (m *Model) copyLastReply() tea.Cmd {
	msg, ok := m.store.Active().LastReply()
	if !ok {
		m.setStatus(StatusMsg{Text: "No reply to copy", Error: true})
		return nil
	}
	return copyCmd(msg.Text)
}

func (m *Model) startSpinner() tea.Cmd {
	if m.spinning || len(m.store.Pending()) == 0 {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

func (m *Model) setStatus(s StatusMsg) {
	m.statusMsg = s.Text
	m.statusError = s.Error
}

func (m *Model) clearStatus() {
	m.statusMsg = ""
	m.statusError = false
}

// =============================================================================
// LAYOUT
// =============================================================================

// handleResize recomputes component sizes for a new terminal size.
func (m *Model) handleResize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)

	m.viewport.Width = m.chatWidth()
	m.viewport.Height = m.bodyHeight()

	inputWidth := width - 8
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.input.Width = inputWidth

	m.ready = true
	m.refreshViewport()
}

// bodyHeight is the height between the header and the input.
func (m Model) bodyHeight() int {
	h := m.height - headerHeight - inputHeight - statusHeight - footerHeight
	if h < 1 {
		h = 1
	}
	return h
}

// chatWidth is the width of the message area, less the panel when open.
func (m Model) chatWidth() int {
	w := m.width
	if m.panelOpen {
		w -= m.effectivePanelWidth()
	}
	if w < 10 {
		w = 10
	}
	return w
}

// effectivePanelWidth caps the panel at half the terminal.
func (m Model) effectivePanelWidth() int {
	w := m.panelWidth
	if m.width > 0 && w > m.width/2 {
		w = m.width / 2
	}
	return w
}

// refreshViewport re-renders the messages and scrolls to the newest one.
func (m *Model) refreshViewport() {
	m.viewport.Width = m.chatWidth()
	m.viewport.SetContent(m.renderMessages(m.viewport.Width))
	m.viewport.GotoBottom()
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Store returns the store the model observes.
func (m Model) Store() *store.Store {
	return m.store
}

// PanelOpen reports whether the conversation panel is shown.
func (m Model) PanelOpen() bool {
	return m.panelOpen
}

// Status returns the current status line text.
func (m Model) Status() string {
	return m.statusMsg
}
