// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Config command implementation for selfjustice.
//
// Command: config [subcommand]
// Short:   View and modify configuration
//
// Subcommands:
//   show (default)      Display current configuration
//   get <key>           Display one setting
//   set <key> <value>   Set a configuration value and save
//   keys                List setting keys
//   reset               Reset to default configuration
//   path                Show configuration file path
//
// Examples:
//   selfjustice config
//   selfjustice config get reply.delay_ms
//   selfjustice config set reply.delay_ms 1500
//   selfjustice config set ui.theme light
//   selfjustice --json config show

package cli

import (
	"fmt"

	"github.com/jeranaias/selfjustice/internal/config"
)

// HandleConfig handles the "config" command.
func HandleConfig(env *Env, args Args) error {
	switch args.Subcommand {
	case "", "show":
		return handleConfigShow(env, args)
	case "get":
		return handleConfigGet(env, args)
	case "set":
		return handleConfigSet(env, args)
	case "keys":
		for _, k := range config.GetAllKeys() {
			fmt.Fprintln(env.Stdout, k)
		}
		return nil
	case "reset":
		return handleConfigReset(env)
	case "path":
		path, err := configFilePath(env)
		if err != nil {
			return NewConfigError("", err)
		}
		fmt.Fprintln(env.Stdout, path)
		return nil
	default:
		return NewValidationErrorWithExample("config subcommand", args.Subcommand,
			"unknown subcommand", "selfjustice config [show|get|set|keys|reset|path]")
	}
}

// configFilePath is the file that set and reset write to.
func configFilePath(env *Env) (string, error) {
	if env.ConfigPath != "" {
		return env.ConfigPath, nil
	}
	return config.ConfigPathTOML()
}

func handleConfigShow(env *Env, args Args) error {
	path, _ := configFilePath(env)
	if args.JSON {
		settings := make(map[string]interface{})
		for _, k := range config.GetAllKeys() {
			v, err := env.Config.Get(k)
			if err != nil {
				return NewConfigError(path, err)
			}
			settings[k] = v
		}
		return NewJSONResponse("config", ConfigData{Path: path, Settings: settings}).Fprint(env.Stdout)
	}

	fmt.Fprintln(env.Stdout, TitleStyle.Render("Configuration"))
	fmt.Fprintf(env.Stdout, "%s %s\n\n", LabelStyle.Render("File:"), ValueStyle.Render(path))
	fmt.Fprint(env.Stdout, env.Config.String())
	return nil
}

func handleConfigGet(env *Env, args Args) error {
	if args.ConfigKey == "" {
		return ErrMissingArgument("key", "selfjustice config get reply.delay_ms")
	}
	v, err := env.Config.Get(args.ConfigKey)
	if err != nil {
		return NewValidationError("key", args.ConfigKey, err.Error())
	}
	if args.JSON {
		return NewJSONResponse("config", ConfigData{
			Settings: map[string]interface{}{args.ConfigKey: v},
		}).Fprint(env.Stdout)
	}
	fmt.Fprintln(env.Stdout, v)
	return nil
}

// handleConfigSet changes one setting on a copy of the loaded config,
// validates it and saves it. Environment overrides in effect are saved too.
func handleConfigSet(env *Env, args Args) error {
	if args.ConfigKey == "" || args.ConfigVal == "" {
		return ErrMissingArgument("key and value", "selfjustice config set reply.delay_ms 1500")
	}

	updated := *env.Config
	if err := updated.Set(args.ConfigKey, args.ConfigVal); err != nil {
		return NewValidationError(args.ConfigKey, args.ConfigVal, err.Error())
	}
	if err := updated.Validate(); err != nil {
		return NewValidationError(args.ConfigKey, args.ConfigVal, err.Error())
	}

	path, err := configFilePath(env)
	if err != nil {
		return NewConfigError("", err)
	}
	if err := config.Save(&updated, path); err != nil {
		return NewConfigError(path, err)
	}
	*env.Config = updated

	env.Logger.Info().Str("key", args.ConfigKey).Str("path", path).Msg("config updated")
	fmt.Fprintf(env.Stdout, "%s %s = %s\n", SuccessStyle.Render("[OK]"), args.ConfigKey, args.ConfigVal)
	return nil
}

func handleConfigReset(env *Env) error {
	path, err := configFilePath(env)
	if err != nil {
		return NewConfigError("", err)
	}
	if err := config.Save(config.Default(), path); err != nil {
		return NewConfigError(path, err)
	}
	cfg := config.Default()
	cfg.SetDefaults()
	*env.Config = *cfg

	env.Logger.Info().Str("path", path).Msg("config reset")
	fmt.Fprintf(env.Stdout, "%s configuration reset: %s\n", SuccessStyle.Render("[OK]"), path)
	return nil
}
