// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME at an empty directory and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, key := range []string{
		"SELFJUSTICE_REPLY_DELAY_MS",
		"SELFJUSTICE_LOG_LEVEL",
		"SELFJUSTICE_LOG_PATH",
		"SELFJUSTICE_THEME",
		"SELFJUSTICE_EXPORT_DIR",
	} {
		t.Setenv(key, "")
	}
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

// =============================================================================
// DEFAULTS
// =============================================================================

func TestConfig_Default(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 500*time.Millisecond, cfg.Delay())
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, `You said: "{input}". This is a mock response.`, cfg.Reply.Template)
	assert.Equal(t, "auto", cfg.UI.Theme)
	assert.Equal(t, "md", cfg.Export.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoFiles(t *testing.T) {
	home := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Reply.DelayMs)
	assert.Equal(t, filepath.Join(home, ".selfjustice", "selfjustice.log"), cfg.LogFile())
}

// =============================================================================
// FILE LOADING
// =============================================================================

func TestLoad_TOML(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".selfjustice", "config.toml"), `
[reply]
delay_ms = 0
template = "Noted: {input}"

[ui]
theme = "light"
show_timestamps = true
`)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Reply.DelayMs, "explicit zero delay is kept")
	assert.Equal(t, 30000, cfg.Reply.TimeoutMs, "missing keys keep defaults")
	assert.Equal(t, "Noted: {input}", cfg.Reply.Template)
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.True(t, cfg.UI.ShowTimestamps)
}

func TestLoad_JSONFallback(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".selfjustice", "config.json"), `{"export": {"format": "json"}}`)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Export.Format)
}

func TestLoad_ExplicitPath(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.toml")
	writeFile(t, path, "[log]\nlevel = \"debug\"\npath = \"off\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Empty(t, cfg.LogFile())
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoad_UnknownKey(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bad.toml")
	writeFile(t, path, "[reply]\ndelay = 5\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reply.delay")
}

func TestLoad_Invalid(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bad.toml")
	writeFile(t, path, "[ui]\ntheme = \"neon\"\n")

	_, err := Load(path)
	require.Error(t, err)

	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "ui.theme", verrs[0].Field)
}

// =============================================================================
// ENVIRONMENT
// =============================================================================

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("SELFJUSTICE_REPLY_DELAY_MS", "1200")
	t.Setenv("SELFJUSTICE_THEME", "DARK")
	t.Setenv("SELFJUSTICE_EXPORT_DIR", "/tmp/exports")
	t.Setenv("SELFJUSTICE_LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 1200*time.Millisecond, cfg.Delay())
	assert.Equal(t, "dark", cfg.UI.Theme)
	assert.Equal(t, "/tmp/exports", cfg.Export.Dir)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_EnvBadDelay(t *testing.T) {
	isolate(t)
	t.Setenv("SELFJUSTICE_REPLY_DELAY_MS", "soon")

	_, err := Load("")
	var verr ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "SELFJUSTICE_REPLY_DELAY_MS", verr.Field)
}

func TestLoad_DotEnv(t *testing.T) {
	isolate(t)
	os.Unsetenv("SELFJUSTICE_THEME")
	t.Cleanup(func() { os.Unsetenv("SELFJUSTICE_THEME") })
	writeFile(t, ".env", "SELFJUSTICE_THEME=light\n")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "light", cfg.UI.Theme)
}

func TestLoad_MalformedDotEnv(t *testing.T) {
	isolate(t)
	writeFile(t, ".env", "SELFJUSTICE_THEME=\"light\n")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".env")
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		field   string
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, "", false},
		{"negative delay", func(c *Config) { c.Reply.DelayMs = -1 }, "reply.delay_ms", true},
		{"huge delay", func(c *Config) { c.Reply.DelayMs = 120000 }, "reply.delay_ms", true},
		{"negative timeout", func(c *Config) { c.Reply.TimeoutMs = -5 }, "reply.timeout_ms", true},
		{"blank template", func(c *Config) { c.Reply.Template = "  " }, "reply.template", true},
		{"template without placeholder", func(c *Config) { c.Reply.Template = "No comment." }, "reply.template", true},
		{"template with placeholder only", func(c *Config) { c.Reply.Template = "{input}" }, "", false},
		{"narrow panel", func(c *Config) { c.UI.PanelWidth = 5 }, "ui.panel_width", true},
		{"bad level", func(c *Config) { c.Log.Level = "chatty" }, "log.level", true},
		{"bad format", func(c *Config) { c.Export.Format = "pdf" }, "export.format", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var verrs ValidateErrors
			require.True(t, errors.As(err, &verrs))
			assert.Equal(t, tt.field, verrs[0].Field)
		})
	}
}

// =============================================================================
// GET / SET / SAVE
// =============================================================================

func TestConfig_GetSet(t *testing.T) {
	cfg := Default()

	val, err := cfg.Get("reply.delay_ms")
	require.NoError(t, err)
	assert.Equal(t, 500, val)

	require.NoError(t, cfg.Set("ui.theme", "dark"))
	require.NoError(t, cfg.Set("reply.delay_ms", "250"))
	require.NoError(t, cfg.Set("ui.show_timestamps", "yes"))
	assert.Equal(t, "dark", cfg.UI.Theme)
	assert.Equal(t, 250, cfg.Reply.DelayMs)
	assert.True(t, cfg.UI.ShowTimestamps)

	_, err = cfg.Get("invalid.key")
	assert.Error(t, err)
	_, err = cfg.Get("reply")
	assert.Error(t, err, "sections are not settings")
	assert.Error(t, cfg.Set("reply.delay_ms", "soon"))
}

func TestGetAllKeys_Resolve(t *testing.T) {
	cfg := Default()
	for _, key := range GetAllKeys() {
		_, err := cfg.Get(key)
		assert.NoError(t, err, key)
	}
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "out", "config.toml")

	cfg := Default()
	cfg.Reply.DelayMs = 42
	cfg.UI.Theme = "light"
	require.NoError(t, SaveTOML(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 42, loaded.Reply.DelayMs)
	assert.Equal(t, "light", loaded.UI.Theme)
	assert.Equal(t, cfg.Reply.Template, loaded.Reply.Template)
}

func TestSave_PicksFormatByExtension(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	cfg := Default()
	cfg.Export.Format = "json"

	jsonPath := filepath.Join(dir, "config.json")
	require.NoError(t, Save(cfg, jsonPath))
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"format": "json"`)

	loaded, err := Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "json", loaded.Export.Format)

	tomlPath := filepath.Join(dir, "config.toml")
	require.NoError(t, Save(cfg, tomlPath))
	loaded, err = Load(tomlPath)
	require.NoError(t, err)
	assert.Equal(t, "json", loaded.Export.Format)
}
