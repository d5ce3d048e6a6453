// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for selfjustice.
//
// Configuration file locations (in order of precedence):
//   - --config PATH
//   - ~/.selfjustice/config.toml
//   - ~/.selfjustice/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/jeranaias/selfjustice/internal/logging"
	"github.com/jeranaias/selfjustice/internal/reply"
	"github.com/jeranaias/selfjustice/internal/util"
)

// LogOff disables the log file.
const LogOff = "off"

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete selfjustice configuration.
type Config struct {
	Reply  ReplyConfig  `toml:"reply" json:"reply"`
	UI     UIConfig     `toml:"ui" json:"ui"`
	Log    LogConfig    `toml:"log" json:"log"`
	Export ExportConfig `toml:"export" json:"export"`
}

// ReplyConfig controls the simulated assistant.
type ReplyConfig struct {
	// DelayMs is how long a reply waits before it is produced.
	DelayMs int `toml:"delay_ms" json:"delay_ms"`

	// TimeoutMs bounds one responder call. 0 disables the timeout.
	TimeoutMs int `toml:"timeout_ms" json:"timeout_ms"`

	// Template is the reply text; {input} is replaced with the user's message.
	Template string `toml:"template" json:"template"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Theme          string `toml:"theme" json:"theme"` // auto, dark, light
	PanelWidth     int    `toml:"panel_width" json:"panel_width"`
	ShowTimestamps bool   `toml:"show_timestamps" json:"show_timestamps"`
	Markdown       bool   `toml:"markdown" json:"markdown"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level" json:"level"`
	Path  string `toml:"path" json:"path"` // "off" disables file logging
}

// ExportConfig holds conversation export settings.
type ExportConfig struct {
	Dir    string `toml:"dir" json:"dir"`
	Format string `toml:"format" json:"format"` // md, json
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Reply: ReplyConfig{
			DelayMs:   int(reply.DefaultDelay / time.Millisecond),
			TimeoutMs: int(reply.DefaultTimeout / time.Millisecond),
			Template:  reply.DefaultTemplate,
		},
		UI: UIConfig{
			Theme:      "auto",
			PanelWidth: 36,
			Markdown:   true,
		},
		Log: LogConfig{
			Level: "info",
		},
		Export: ExportConfig{
			Dir:    ".",
			Format: "md",
		},
	}
}

// Delay returns the reply delay.
func (c *Config) Delay() time.Duration {
	return time.Duration(c.Reply.DelayMs) * time.Millisecond
}

// Timeout returns the responder timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Reply.TimeoutMs) * time.Millisecond
}

// LogFile returns the log file path, or "" when logging is off.
func (c *Config) LogFile() string {
	if strings.EqualFold(c.Log.Path, LogOff) {
		return ""
	}
	return c.Log.Path
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the selfjustice configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".selfjustice"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// DefaultLogPath returns ~/.selfjustice/selfjustice.log.
func DefaultLogPath() string {
	dir, err := ConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "selfjustice.log")
	}
	return filepath.Join(dir, "selfjustice.log")
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads the configuration. An explicit path must exist; otherwise
// the TOML file is tried first, then JSON, then defaults. A .env file in
// the working directory is loaded into the environment before overrides
// are applied.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadFromPath(path)
	}

	cfg := Default()

	tomlPath, err := ConfigPathTOML()
	if err == nil && fileExists(tomlPath) {
		if err := LoadTOML(cfg, tomlPath); err != nil {
			return nil, fmt.Errorf("failed to load TOML config: %w", err)
		}
		return finish(cfg)
	}

	jsonPath, err := ConfigPathJSON()
	if err == nil && fileExists(jsonPath) {
		if err := LoadJSON(cfg, jsonPath); err != nil {
			return nil, fmt.Errorf("failed to load JSON config: %w", err)
		}
		return finish(cfg)
	}

	return finish(cfg)
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finish(cfg)
}

// LoadTOML decodes a TOML file over cfg. Keys missing from the file keep
// their current values.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// finish applies .env and environment overrides, fills defaults and validates.
func finish(cfg *Config) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadDotEnv loads ./.env if present. Variables already set win. A .env
// that exists but cannot be parsed is an error.
func loadDotEnv() error {
	if !fileExists(".env") {
		return nil
	}
	if err := godotenv.Load(".env"); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// SetDefaults fills empty string settings with defaults.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Reply.Template == "" {
		c.Reply.Template = defaults.Reply.Template
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.PanelWidth == 0 {
		c.UI.PanelWidth = defaults.UI.PanelWidth
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.Path == "" {
		c.Log.Path = DefaultLogPath()
	}
	if c.Export.Dir == "" {
		c.Export.Dir = defaults.Export.Dir
	}
	if c.Export.Format == "" {
		c.Export.Format = defaults.Export.Format
	}
	if c.Export.Format == "markdown" {
		c.Export.Format = "md"
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// SaveTOML saves the configuration to a TOML file.
func SaveTOML(cfg *Config, path string) error {
	var buf strings.Builder
	buf.WriteString("# selfjustice configuration file\n")
	buf.WriteString("# {input} in reply.template is replaced with your message\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, []byte(buf.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Save writes cfg to path, as JSON for a .json path and TOML otherwise.
func Save(cfg *Config, path string) error {
	if strings.HasSuffix(path, ".json") {
		return SaveJSON(cfg, path)
	}
	return SaveTOML(cfg, path)
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Reply.DelayMs < 0 || c.Reply.DelayMs > 60000 {
		errs = append(errs, ValidationError{"reply.delay_ms", "must be between 0 and 60000"})
	}
	if c.Reply.TimeoutMs < 0 {
		errs = append(errs, ValidationError{"reply.timeout_ms", "must not be negative"})
	}
	if strings.TrimSpace(c.Reply.Template) == "" {
		errs = append(errs, ValidationError{"reply.template", "must not be empty"})
	} else if !strings.Contains(c.Reply.Template, reply.Placeholder) {
		errs = append(errs, ValidationError{"reply.template", "must contain " + reply.Placeholder})
	}

	switch c.UI.Theme {
	case "auto", "dark", "light":
	default:
		errs = append(errs, ValidationError{"ui.theme", fmt.Sprintf("unknown theme %q (use auto, dark or light)", c.UI.Theme)})
	}
	if c.UI.PanelWidth < 20 || c.UI.PanelWidth > 80 {
		errs = append(errs, ValidationError{"ui.panel_width", "must be between 20 and 80"})
	}

	if !logging.ValidLevel(c.Log.Level) {
		errs = append(errs, ValidationError{"log.level", fmt.Sprintf("unknown level %q", c.Log.Level)})
	}

	switch c.Export.Format {
	case "md", "json":
	default:
		errs = append(errs, ValidationError{"export.format", fmt.Sprintf("unknown format %q (use md or json)", c.Export.Format)})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - SELFJUSTICE_REPLY_DELAY_MS: overrides reply.delay_ms
//   - SELFJUSTICE_LOG_LEVEL: overrides log.level
//   - SELFJUSTICE_LOG_PATH: overrides log.path
//   - SELFJUSTICE_THEME: overrides ui.theme
//   - SELFJUSTICE_EXPORT_DIR: overrides export.dir
func (c *Config) ApplyEnvOverrides() error {
	if delay := os.Getenv("SELFJUSTICE_REPLY_DELAY_MS"); delay != "" {
		ms, err := strconv.Atoi(strings.TrimSpace(delay))
		if err != nil {
			return ValidationError{"SELFJUSTICE_REPLY_DELAY_MS", fmt.Sprintf("not an integer: %q", delay)}
		}
		c.Reply.DelayMs = ms
	}

	if level := os.Getenv("SELFJUSTICE_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}

	if path := os.Getenv("SELFJUSTICE_LOG_PATH"); path != "" {
		c.Log.Path = path
	}

	if theme := os.Getenv("SELFJUSTICE_THEME"); theme != "" {
		c.UI.Theme = strings.ToLower(theme)
	}

	if dir := os.Getenv("SELFJUSTICE_EXPORT_DIR"); dir != "" {
		c.Export.Dir = dir
	}

	return nil
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "reply.delay_ms").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "ui.theme").
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

// lookup walks a dotted key down the config struct.
func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			if field.Kind() == reflect.Struct {
				return reflect.Value{}, fmt.Errorf("'%s' is a section, not a setting", key)
			}
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			lower := strings.ToLower(strVal)
			field.SetBool(lower == "1" || lower == "true" || lower == "yes")
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"reply.delay_ms",
		"reply.timeout_ms",
		"reply.template",
		"ui.theme",
		"ui.panel_width",
		"ui.show_timestamps",
		"ui.markdown",
		"log.level",
		"log.path",
		"export.dir",
		"export.format",
	}
}

// String returns the configuration as TOML.
func (c *Config) String() string {
	var buf strings.Builder
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return buf.String()
}
