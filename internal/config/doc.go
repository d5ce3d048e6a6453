// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for selfjustice.
//
// # Key Types
//
//   - Config: Main configuration structure
//   - ReplyConfig: Reply delay, timeout and template
//   - UIConfig: Theme and panel settings
//   - LogConfig, ExportConfig: Log file and export defaults
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (SELFJUSTICE_*), including those from ./.env
//   - --config PATH, or ~/.selfjustice/config.toml
//   - ~/.selfjustice/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	sched := reply.NewScheduler(reply.NewMockResponder(cfg.Reply.Template),
//	    reply.WithDelay(cfg.Delay()), reply.WithTimeout(cfg.Timeout()))
package config
