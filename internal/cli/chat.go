// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Line-mode chat for selfjustice.
//
// Command: chat
// Short:   Chat with the legal AI without the full-screen TUI
//
// Commands inside the chat:
//   /new                Start a new conversation
//   /list               List conversations, most recent first
//   /open N             Open conversation N
//   /history            Show the current conversation
//   /export [md|json]   Export the current conversation
//   /help               Show chat commands
//   /quit               Leave the chat
//
// Ctrl+C while waiting cancels the pending reply; at the prompt it exits,
// as does Ctrl+D.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/peterh/liner"
	"github.com/rs/zerolog"

	"github.com/jeranaias/selfjustice/internal/config"
	"github.com/jeranaias/selfjustice/internal/export"
	"github.com/jeranaias/selfjustice/internal/model"
	"github.com/jeranaias/selfjustice/internal/reply"
	"github.com/jeranaias/selfjustice/internal/store"
)

const (
	chatPrompt  = "you> "
	footerText  = "Legal AI can make mistakes. Check important info."
	historyName = "chat_history"
)

// errInterrupted is returned by waitForReply when Ctrl+C arrives.
var errInterrupted = errors.New("interrupted")

// =============================================================================
// INPUT HISTORY
// =============================================================================

// LineReader reads one line of input per prompt.
type LineReader interface {
	ReadInput(prompt string) (string, error)
	Close()
}

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI and loads its history file.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, historyName),
	}
	c.LoadHistory()
	return c
}

// LoadHistory loads command history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		_, _ = c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists command history to file (0600).
func (c *ChatCLI) SaveHistory() {
	if err := os.MkdirAll(filepath.Dir(c.historyFile), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// SESSION STATE
// =============================================================================

// ChatSession holds the state for an interactive chat session. It owns the
// store: replies are applied on the session's goroutine only.
type ChatSession struct {
	Store     *store.Store
	Scheduler *reply.Scheduler
	Input     LineReader
	Out       io.Writer

	Quiet        bool
	Markdown     bool
	ExportFormat string
	ExportOpts   *export.Options

	// Interrupt delivers Ctrl+C while a reply is pending.
	Interrupt <-chan os.Signal

	logger zerolog.Logger
}

// NewChatSession creates a chat session over a fresh store.
func NewChatSession(env *Env, input LineReader, sched *reply.Scheduler) *ChatSession {
	return &ChatSession{
		Store:        store.New(env.Logger),
		Scheduler:    sched,
		Input:        input,
		Out:          env.Stdout,
		ExportFormat: env.Config.Export.Format,
		ExportOpts:   ExportOptions(env.Config),
		logger:       env.Logger.With().Str("component", "chat").Logger(),
	}
}

// ExportOptions returns the export options described by cfg.
func ExportOptions(cfg *config.Config) *export.Options {
	opts := export.DefaultOptions()
	opts.OutputDir = cfg.Export.Dir
	return opts
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChatCommand runs the line-mode chat until /quit, Ctrl+C or Ctrl+D.
func HandleChatCommand(env *Env, args Args) error {
	sched := NewScheduler(env.Config, env.Logger)
	defer sched.Close()

	input := NewChatCLI()
	defer input.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	session := NewChatSession(env, input, sched)
	session.Quiet = args.Quiet
	session.Markdown = env.Config.UI.Markdown && IsStdoutTTY()
	session.Interrupt = sigChan

	env.Logger.Info().Msg("line-mode chat started")
	return session.Run(context.Background())
}

// Run is the REPL loop.
func (s *ChatSession) Run(ctx context.Context) error {
	if !s.Quiet {
		s.printWelcome()
	}

	for {
		// liner rejects prompts containing escape sequences, so this one stays unstyled.
		input, err := s.Input.ReadInput(chatPrompt)
		if err != nil {
			fmt.Fprintln(s.Out)
			s.printExitSummary()
			// Ctrl+C at the prompt and Ctrl+D both end the session.
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}
			return NewCommandError("chat", "read", "input failed", err)
		}

		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, "/") {
			cont, err := s.handleSlashCommand(trimmed)
			if err != nil {
				fmt.Fprintf(s.Out, "%s %v\n", ErrorStyle.Render("[Error]"), err)
			}
			if !cont {
				s.printExitSummary()
				return nil
			}
			continue
		}

		if err := s.processMessage(ctx, input); err != nil {
			return err
		}
	}
}

// =============================================================================
// MESSAGE PROCESSING
// =============================================================================

// processMessage submits text exactly as typed and prints the reply.
// It returns an error only when ctx ends the session.
func (s *ChatSession) processMessage(ctx context.Context, text string) error {
	p, ok := s.Store.SubmitMessage(text)
	if !ok {
		return nil
	}

	if _, err := s.Scheduler.Schedule(p.Request()); err != nil {
		s.logger.Error().Err(err).Str("key", p.Key).Msg("schedule reply")
		s.Store.FailReply(p.Key, err)
		s.printLastReply(p.Conversation)
		return nil
	}

	res, err := s.waitForReply(ctx, p.Key)
	if err != nil {
		s.Scheduler.Cancel(p.Key)
		s.Store.CancelReply(p.Key)
		fmt.Fprintln(s.Out, WarningStyle.Render("[Cancelled]"))
		if errors.Is(err, errInterrupted) {
			return nil
		}
		return err
	}

	s.Store.Apply(res)
	s.printLastReply(p.Conversation)
	return nil
}

// waitForReply blocks until the result for key arrives. Results for other
// keys are applied as they come.
func (s *ChatSession) waitForReply(ctx context.Context, key string) (reply.Result, error) {
	for {
		select {
		case res, ok := <-s.Scheduler.Results():
			if !ok {
				return reply.Result{}, reply.ErrClosed
			}
			if res.Key != key {
				s.Store.Apply(res)
				continue
			}
			return res, nil
		case <-s.Interrupt:
			return reply.Result{}, errInterrupted
		case <-ctx.Done():
			return reply.Result{}, ctx.Err()
		}
	}
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleSlashCommand processes slash commands.
// Returns (shouldContinue, error) where shouldContinue=false means exit.
func (s *ChatSession) handleSlashCommand(cmd string) (bool, error) {
	parts := strings.Fields(cmd)
	command := strings.ToLower(parts[0])
	args := parts[1:]

	switch command {
	case "/help", "/h", "/?", "/":
		s.printHelp()
		return true, nil

	case "/new", "/n":
		conv := s.Store.StartNewConversation()
		fmt.Fprintln(s.Out, InfoStyle.Render(fmt.Sprintf("[New conversation %d]", conv.ID)))
		return true, nil

	case "/list", "/l":
		s.printList()
		return true, nil

	case "/open", "/o":
		if len(args) == 0 {
			return true, ErrMissingArgument("conversation", "/open 2")
		}
		return true, s.openConversation(args[0])

	case "/history":
		s.printConversation(s.Store.Active())
		return true, nil

	case "/export", "/e":
		format := s.ExportFormat
		if len(args) > 0 {
			format = args[0]
		}
		return true, s.exportActive(format)

	case "/quit", "/q", "/exit":
		return false, nil

	default:
		return true, fmt.Errorf("unknown command: %s (type /help for commands)", command)
	}
}

func (s *ChatSession) openConversation(arg string) error {
	id, err := ParseIntWithValidation(arg, "conversation")
	if err != nil {
		return NewValidationError("conversation", arg, err.Error())
	}
	conv, ok := s.Store.Find(id)
	if !ok {
		return fmt.Errorf("conversation not found: %d (type /list)", id)
	}
	s.Store.SelectConversation(conv)
	s.logger.Info().Int("conversation_id", id).Msg("conversation selected")

	fmt.Fprintln(s.Out, InfoStyle.Render(fmt.Sprintf("[Opened conversation %d]", id)))
	s.printConversation(conv)
	return nil
}

func (s *ChatSession) exportActive(format string) error {
	conv := s.Store.Active()
	path, err := export.Export(conv, format, s.ExportOpts)
	if err != nil {
		if errors.Is(err, export.ErrEmptyConversation) {
			return errors.New("nothing to export yet")
		}
		return err
	}
	s.logger.Info().Int("conversation_id", conv.ID).Str("path", path).Msg("conversation exported")
	fmt.Fprintln(s.Out, SuccessStyle.Render("[Exported to "+path+"]"))
	return nil
}

// =============================================================================
// DISPLAY FUNCTIONS
// =============================================================================

func (s *ChatSession) printWelcome() {
	fmt.Fprintln(s.Out)
	fmt.Fprintln(s.Out, TitleStyle.Render("SELF JUSTICE -- YOUR LEGAL AI"))
	fmt.Fprintln(s.Out, RenderSeparator())
	fmt.Fprintln(s.Out, InfoStyle.Render("How can I help you today? Commands: /help, /quit"))
	fmt.Fprintln(s.Out, DimStyle.Render(footerText))
	fmt.Fprintln(s.Out)
}

func (s *ChatSession) printHelp() {
	commands := []struct {
		cmd  string
		desc string
	}{
		{"/new", "Start a new conversation"},
		{"/list", "List conversations, most recent first"},
		{"/open N", "Open conversation N"},
		{"/history", "Show the current conversation"},
		{"/export [md|json]", "Export the current conversation"},
		{"/help", "Show this help"},
		{"/quit", "Leave the chat"},
	}

	fmt.Fprintln(s.Out)
	fmt.Fprintln(s.Out, TitleStyle.Render("Available Commands"))
	for _, c := range commands {
		fmt.Fprintf(s.Out, "  %s  %s\n", LabelStyle.Render(c.cmd), DimStyle.Render(c.desc))
	}
	fmt.Fprintln(s.Out)
	fmt.Fprintln(s.Out, DimStyle.Render("Tip: Ctrl+C cancels a pending reply, Ctrl+D exits"))
	fmt.Fprintln(s.Out)
}

// printList prints the collection most recent first; * marks the active one.
func (s *ChatSession) printList() {
	displayed := s.Store.Displayed()
	if len(displayed) == 0 {
		fmt.Fprintln(s.Out, DimStyle.Render("No conversations yet"))
		return
	}

	active := s.Store.Active()
	fmt.Fprintln(s.Out, TitleStyle.Render("Recent Chats"))
	for _, conv := range displayed {
		marker := " "
		if conv == active {
			marker = "*"
		}
		fmt.Fprintf(s.Out, "%s %s  %s\n", marker,
			InfoStyle.Render(fmt.Sprintf("%3s", strconv.Itoa(conv.ID))),
			conv.Preview(30))
	}
}

func (s *ChatSession) printConversation(conv *model.Conversation) {
	if conv.IsEmpty() {
		fmt.Fprintln(s.Out, DimStyle.Render(model.EmptyPreview))
		return
	}
	for _, msg := range conv.Messages() {
		s.printMessage(msg)
	}
}

// printLastReply prints the newest message of conv, which is the reply.
func (s *ChatSession) printLastReply(conv *model.Conversation) {
	if msg, ok := conv.Last(); ok && !msg.IsUser {
		s.printMessage(msg)
	}
}

func (s *ChatSession) printMessage(msg model.Message) {
	switch {
	case msg.IsUser:
		fmt.Fprintf(s.Out, "%s %s\n", PromptStyle.Render(msg.Role().DisplayName()+":"), msg.Text)
	case msg.Failed():
		fmt.Fprintf(s.Out, "%s %s\n", ErrorStyle.Render(msg.Role().DisplayName()+" (failed):"), msg.Text)
	default:
		fmt.Fprintf(s.Out, "%s %s\n", AssistantStyle.Render(msg.Role().DisplayName()+":"), s.render(msg.Text))
	}
}

func (s *ChatSession) render(text string) string {
	if !s.Markdown {
		return text
	}
	return strings.TrimSpace(renderMarkdown(text))
}

func (s *ChatSession) printExitSummary() {
	if s.Quiet {
		return
	}
	messages := 0
	for _, conv := range s.Store.Conversations() {
		messages += conv.Len()
	}
	fmt.Fprintf(s.Out, "%s %d conversations, %d messages\n",
		DimStyle.Render("Session:"), len(s.Store.Conversations()), messages)
}
