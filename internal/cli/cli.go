// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and shared command plumbing for selfjustice.
package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jeranaias/selfjustice/internal/config"
	"github.com/jeranaias/selfjustice/internal/reply"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdConfig
	CmdVersion
	CmdHelp
	CmdUnknown
)

// String returns the command name as typed on the command line.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdAsk:
		return "ask"
	case CmdChat:
		return "chat"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	ConfigPath string
	LogLevel   string
	Quiet      bool
	JSON       bool // Output in JSON format

	// Command-specific
	Query      string
	Raw        bool // ask: print the reply without markdown rendering
	Subcommand string
	ConfigKey  string
	ConfigVal  string

	// Name is the command word as typed, kept for error messages.
	Name string

	// Rest holds the arguments after the command word.
	Rest []string
}

const usageText = `selfjustice - your legal AI in the terminal

Usage:
  selfjustice                     Start the chat TUI (default)
  selfjustice tui                 Start the chat TUI
  selfjustice chat                Line-mode chat with history
  selfjustice ask "question"      Ask a single question and print the reply
  selfjustice config [subcommand] View and modify configuration
  selfjustice version             Show version information
  selfjustice help                Show this help

Global flags:
  --config PATH        Use a specific config file (TOML or .json)
  --log-level LEVEL    Override log.level (trace|debug|info|warn|error)
  -q, --quiet          Suppress banners
  --json               Machine-readable output (ask, config, version)

Ask flags:
  --raw                Print the reply without markdown rendering
  If no question is given and stdin is not a terminal, it is read from stdin.

Chat commands:
  /new                 Start a new conversation
  /list                List conversations, most recent first
  /open N              Open conversation N
  /export [md|json]    Export the current conversation
  /help                Show chat commands
  /quit                Leave the chat

Config subcommands:
  show                 Show the current configuration (default)
  get KEY              Print one setting, e.g. reply.delay_ms
  set KEY VALUE        Change a setting and save the config file
  keys                 List all setting keys
  path                 Show the config file location
  reset                Write the default configuration

TUI keys:
  enter                Send
  ctrl+b / tab         Recent chats panel
  ctrl+n               New chat
  esc                  Cancel the pending reply / close the panel
  ctrl+y               Copy the last reply
  /export [md|json]    Export the current conversation
  ctrl+c               Quit

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "selfjustice version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
	fmt.Fprintf(w, "  Go version: %s\n", runtime.Version())
}

// =============================================================================
// PARSING
// =============================================================================

// Parse parses os.Args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses command-line arguments (without the program name) and
// returns the command and args.
func ParseArgs(argv []string) (Command, Args) {
	remaining, parsedArgs := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Name = cmd
	parsedArgs.Rest = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs

	case "ask", "a":
		parseAskArgs(&parsedArgs, remaining)
		return CmdAsk, parsedArgs

	case "chat", "c":
		return CmdChat, parsedArgs

	case "config", "cfg":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs

	case "version", "-v", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		return CmdUnknown, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "--json":
			parsedArgs.JSON = true
		case "--config":
			if i+1 < len(args) {
				i++
				parsedArgs.ConfigPath = args[i]
			}
		case "--log-level":
			if i+1 < len(args) {
				i++
				parsedArgs.LogLevel = args[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--config="):
				parsedArgs.ConfigPath = strings.TrimPrefix(arg, "--config=")
			case strings.HasPrefix(arg, "--log-level="):
				parsedArgs.LogLevel = strings.TrimPrefix(arg, "--log-level=")
			default:
				remaining = append(remaining, arg)
			}
		}
	}

	return remaining, parsedArgs
}

// parseAskArgs parses ask command specific arguments.
func parseAskArgs(args *Args, remaining []string) {
	p := NewArgParser(remaining, "raw")
	args.Raw = p.BoolFlag("raw")
	args.Query = JoinPositionalArgs(p, 0)
}

// parseConfigArgs parses config command specific arguments.
func parseConfigArgs(args *Args, remaining []string) {
	p := NewArgParser(remaining)
	args.Subcommand = p.Subcommand()
	args.ConfigKey = p.Positional(1)
	args.ConfigVal = JoinPositionalArgs(p, 2)
}

// =============================================================================
// SHARED PLUMBING
// =============================================================================

// Env carries what every command needs.
type Env struct {
	Config     *config.Config
	ConfigPath string // explicit --config path, "" for the default location
	Logger     zerolog.Logger

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewEnv returns an Env bound to the process's standard streams.
func NewEnv(cfg *config.Config, configPath string, logger zerolog.Logger) *Env {
	return &Env{
		Config:     cfg,
		ConfigPath: configPath,
		Logger:     logger,
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
	}
}

// NewScheduler builds the reply scheduler described by cfg.
func NewScheduler(cfg *config.Config, logger zerolog.Logger) *reply.Scheduler {
	return reply.NewScheduler(
		reply.NewMockResponder(cfg.Reply.Template),
		reply.WithDelay(cfg.Delay()),
		reply.WithTimeout(cfg.Timeout()),
		reply.WithLogger(logger),
	)
}

// =============================================================================
// COMMAND HANDLERS
// =============================================================================

// HandleVersion handles the "version" command with JSON output support.
func HandleVersion(env *Env, args Args) error {
	if args.JSON {
		return NewJSONResponse("version", VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}).Fprint(env.Stdout)
	}
	PrintVersion(env.Stdout)
	return nil
}

// HandleHelp handles the "help" command.
func HandleHelp(env *Env) error {
	PrintUsage(env.Stdout)
	return nil
}

// UnknownCommandError reports an unrecognised command word.
func UnknownCommandError(args Args) error {
	return NewValidationErrorWithExample("command", args.Name, "unknown command", "selfjustice help")
}
