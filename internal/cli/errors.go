// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Error handling shared by all selfjustice commands.
//
// Commands always return errors and never print and return nil; main
// decides how to display them and which exit code to use.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Exit codes by error category.
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitUsageError   = 2 // ValidationError
	ExitConfigError  = 3 // ConfigError
	ExitInterrupted  = 130
)

// CommandError is a failed step of a command, e.g. "ask reply failed".
type CommandError struct {
	Command string
	Action  string
	Reason  string
	Err     error
}

func (e *CommandError) Error() string {
	msg := e.Command + " " + e.Action + " failed: " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// ValidationError is bad user input: an argument, a flag or a setting.
type ValidationError struct {
	Field   string
	Value   string
	Reason  string
	Example string // shown as a hint, optional
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	if e.Value != "" {
		msg += fmt.Sprintf(" (got: %s)", e.Value)
	}
	if e.Example != "" {
		msg += " (try: " + e.Example + ")"
	}
	return msg
}

// ConfigError wraps a failure to load, validate or save configuration.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("config: %v", e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NewCommandError creates a new command error.
func NewCommandError(command, action, reason string, err error) error {
	return &CommandError{Command: command, Action: action, Reason: reason, Err: err}
}

// NewValidationError creates a new validation error.
func NewValidationError(field, value, reason string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

// NewValidationErrorWithExample is NewValidationError with a usage hint.
func NewValidationErrorWithExample(field, value, reason, example string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason, Example: example}
}

// NewConfigError creates a new config error.
func NewConfigError(path string, err error) error {
	return &ConfigError{Path: path, Err: err}
}

// ErrMissingArgument reports a required argument that was not given.
func ErrMissingArgument(argName, usage string) error {
	return NewValidationErrorWithExample(argName, "", "required argument missing", usage)
}

// DisplayError writes err for the user, or as a JSON error response in
// JSON mode. An interrupt is reported as a single "Cancelled" line.
func DisplayError(w io.Writer, command string, err error, jsonMode bool) {
	switch {
	case err == nil:
	case jsonMode:
		_ = NewJSONErrorResponse(command, err).Fprint(w)
	case GetExitCode(err) == ExitInterrupted:
		fmt.Fprintln(w, WarningStyle.Render("Cancelled"))
	default:
		fmt.Fprintf(w, "%s %v\n", ErrorStyle.Render("Error:"), err)
	}
}

// GetExitCode maps an error to its exit code. Wrapped errors are unwrapped,
// so a CommandError around a ConfigError still exits with ExitConfigError.
func GetExitCode(err error) int {
	var (
		validationErr *ValidationError
		configErr     *ConfigError
	)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &validationErr):
		return ExitUsageError
	case errors.As(err, &configErr):
		return ExitConfigError
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	default:
		return ExitGeneralError
	}
}
