// selfjustice - a legal AI chat for the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jeranaias/selfjustice/internal/cli"
	"github.com/jeranaias/selfjustice/internal/config"
	"github.com/jeranaias/selfjustice/internal/logging"
	"github.com/jeranaias/selfjustice/internal/store"
	"github.com/jeranaias/selfjustice/internal/ui/chat"
	"github.com/jeranaias/selfjustice/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	if err := run(cmd, args); err != nil {
		cli.DisplayError(os.Stderr, cmd.String(), err, args.JSON)
		os.Exit(cli.GetExitCode(err))
	}
}

func run(cmd cli.Command, args cli.Args) error {
	// Help and version never need a valid config.
	switch cmd {
	case cli.CmdHelp:
		return cli.HandleHelp(cli.NewEnv(config.Default(), args.ConfigPath, zerolog.Nop()))
	case cli.CmdVersion:
		return cli.HandleVersion(cli.NewEnv(config.Default(), args.ConfigPath, zerolog.Nop()), args)
	case cli.CmdUnknown:
		return cli.UnknownCommandError(args)
	}

	cfg, err := config.Load(args.ConfigPath)
	if err != nil {
		return cli.NewConfigError(args.ConfigPath, err)
	}
	if args.LogLevel != "" {
		if !logging.ValidLevel(args.LogLevel) {
			return cli.NewValidationErrorWithExample("log level", args.LogLevel,
				"unknown level", "selfjustice --log-level debug")
		}
		cfg.Log.Level = args.LogLevel
	}

	logger, closer, err := logging.New(logging.Options{
		Level:     cfg.Log.Level,
		Path:      cfg.LogFile(),
		SessionID: logging.NewSessionID(),
	})
	if err != nil {
		// Logging is not worth refusing to start over.
		fmt.Fprintf(os.Stderr, "%s %v\n", cli.WarningStyle.Render("Warning:"), err)
	}
	defer closer.Close()

	logger.Info().Str("command", cmd.String()).Str("version", Version).Msg("starting")
	env := cli.NewEnv(cfg, args.ConfigPath, logger)

	switch cmd {
	case cli.CmdTUI:
		if !cli.CanRunTUI() {
			logger.Info().Msg("no terminal, falling back to line-mode chat")
			return cli.HandleChatCommand(env, args)
		}
		return runTUI(env)
	case cli.CmdChat:
		return cli.HandleChatCommand(env, args)
	case cli.CmdAsk:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return cli.HandleAskCommand(ctx, env, args)
	case cli.CmdConfig:
		return cli.HandleConfig(env, args)
	default:
		return cli.UnknownCommandError(args)
	}
}

// runTUI starts the full-screen chat.
func runTUI(env *cli.Env) error {
	cfg := env.Config

	sched := cli.NewScheduler(cfg, env.Logger)
	defer sched.Close()

	m := chat.New(chat.Options{
		Store:          store.New(env.Logger),
		Scheduler:      sched,
		Theme:          styles.NewTheme(cfg.UI.Theme),
		Logger:         env.Logger,
		PanelWidth:     cfg.UI.PanelWidth,
		ShowTimestamps: cfg.UI.ShowTimestamps,
		Markdown:       cfg.UI.Markdown,
		ExportFormat:   cfg.Export.Format,
		ExportOptions:  cli.ExportOptions(cfg),
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if err != nil {
		return cli.NewCommandError("tui", "run", "terminal program failed", err)
	}

	if fm, ok := final.(chat.Model); ok {
		env.Logger.Info().
			Int("conversations", len(fm.Store().Conversations())).
			Msg("tui exited")
	}
	return nil
}
