// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the non-TUI commands of
// selfjustice.
//
// # Key Types
//
//   - Command: Enumeration of the CLI commands
//   - Args: Parsed global and command-specific arguments
//   - Env: Config, logger and standard streams shared by all commands
//   - ChatSession: The line-mode chat REPL over a store.Store
//
// # Usage
//
//	cmd, args := cli.Parse()
//	env := cli.NewEnv(cfg, args.ConfigPath, logger)
//	switch cmd {
//	case cli.CmdAsk:
//	    err = cli.HandleAskCommand(ctx, env, args)
//	case cli.CmdChat:
//	    err = cli.HandleChatCommand(env, args)
//	}
//	os.Exit(cli.GetExitCode(err))
//
// # Commands Overview
//
//   - tui (default): full-screen chat, started by main
//   - chat: line-mode chat with history and slash commands
//   - ask: one question, one reply
//   - config: show, get, set, keys, reset, path
//   - version, help
//
// # Exit Codes
//
//   - 0: success
//   - 1: general error
//   - 2: usage error (ValidationError)
//   - 3: configuration error (ConfigError)
//   - 130: interrupted (Ctrl+C during ask)
package cli
