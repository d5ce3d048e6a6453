// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging sets up the structured logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// StderrPath selects human-readable logging to stderr instead of a file.
const StderrPath = "-"

// Options configures New.
type Options struct {
	// Level is a zerolog level name ("debug", "info", "warn", ...).
	Level string

	// Path is the log file. Empty disables logging; StderrPath logs to stderr.
	Path string

	// SessionID is attached to every event.
	SessionID string
}

// New builds a logger from opts. The returned closer releases the log file
// and must be called on exit.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	level := ParseLevel(opts.Level)

	var (
		logger zerolog.Logger
		closer io.Closer = nopCloser{}
	)

	switch opts.Path {
	case "":
		return zerolog.Nop(), closer, nil
	case StderrPath:
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	default:
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0700); err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("failed to open log file: %w", err)
		}
		logger = zerolog.New(f)
		closer = f
	}

	ctx := logger.Level(level).With().Timestamp()
	if opts.SessionID != "" {
		ctx = ctx.Str("session_id", opts.SessionID)
	}
	return ctx.Logger(), closer, nil
}

// ParseLevel converts a level name, defaulting to info.
func ParseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// ValidLevel reports whether name is a known level.
func ValidLevel(name string) bool {
	_, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	return err == nil
}

// NewSessionID returns an identifier for one program run.
func NewSessionID() string {
	return uuid.NewString()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
