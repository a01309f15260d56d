// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/jeranaias/suaibot/internal/util"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "SUAIBOT_"

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete suaibot configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// API is the remote answer service.
	API APIConfig `toml:"api" json:"api" envPrefix:"API_"`

	Chat    ChatConfig    `toml:"chat" json:"chat" envPrefix:"CHAT_"`
	History HistoryConfig `toml:"history" json:"history" envPrefix:"HISTORY_"`
	UI      UIConfig      `toml:"ui" json:"ui" envPrefix:"UI_"`
	Storage StorageConfig `toml:"storage" json:"storage" envPrefix:"STORAGE_"`
}

// APIConfig contains the HTTP client settings.
type APIConfig struct {
	// BaseURL is the service root, e.g. http://localhost:8000
	BaseURL string `toml:"base_url" json:"base_url" env:"BASE_URL"`
	// ChatPath is appended to BaseURL for every chat endpoint.
	ChatPath string `toml:"chat_path" json:"chat_path" env:"CHAT_PATH"`
	// TimeoutSecs bounds a single request. 0 disables the client timeout.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs" env:"TIMEOUT_SECS"`
	// Debug logs every request and response at debug level.
	Debug bool `toml:"debug" json:"debug" env:"DEBUG"`
	// RateLimit is requests per second (0 = unlimited).
	RateLimit float64 `toml:"rate_limit" json:"rate_limit" env:"RATE_LIMIT"`
	RateBurst int     `toml:"rate_burst" json:"rate_burst" env:"RATE_BURST"`
}

// ChatConfig contains conversation behavior.
type ChatConfig struct {
	// SaveHistory is forwarded as save_history on every send.
	SaveHistory bool `toml:"save_history" json:"save_history" env:"SAVE_HISTORY"`
	// Greeting overrides the localized greeting when non-empty.
	Greeting string `toml:"greeting" json:"greeting" env:"GREETING"`
}

// HistoryConfig contains history fetch limits.
type HistoryConfig struct {
	UserLimit    int `toml:"user_limit" json:"user_limit" env:"USER_LIMIT"`
	SessionLimit int `toml:"session_limit" json:"session_limit" env:"SESSION_LIMIT"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is "auto", "dark" or "light". A theme saved with the toggle wins over this.
	Theme string `toml:"theme" json:"theme" env:"THEME"`
	// Language is "ru" or "en".
	Language    string `toml:"language" json:"language" env:"LANGUAGE"`
	ShowSources bool   `toml:"show_sources" json:"show_sources" env:"SHOW_SOURCES"`
	WordWrap    int    `toml:"word_wrap" json:"word_wrap" env:"WORD_WRAP"`
}

// StorageConfig selects where identity keys live.
type StorageConfig struct {
	// Backend is "file", "sqlite" or "memory".
	Backend string `toml:"backend" json:"backend" env:"BACKEND"`
	// Dir overrides the config directory for identity and log files.
	Dir string `toml:"dir" json:"dir" env:"DIR"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1",
		API: APIConfig{
			BaseURL:     "http://localhost:8000",
			ChatPath:    "/api/chat",
			TimeoutSecs: 30,
			Debug:       false,
			RateLimit:   5,
			RateBurst:   5,
		},
		Chat: ChatConfig{
			SaveHistory: true,
		},
		History: HistoryConfig{
			UserLimit:    50,
			SessionLimit: 100,
		},
		UI: UIConfig{
			Theme:       "auto",
			Language:    "ru",
			ShowSources: true,
			WordWrap:    80,
		},
		Storage: StorageConfig{
			Backend: "file",
		},
	}
}

// ChatBaseURL returns BaseURL joined with ChatPath.
func (c *Config) ChatBaseURL() string {
	return strings.TrimRight(c.API.BaseURL, "/") + c.API.ChatPath
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSecs) * time.Second
}

// DataDir returns the directory for identity and log files.
func (c *Config) DataDir() (string, error) {
	if c.Storage.Dir != "" {
		return c.Storage.Dir, nil
	}
	return ConfigDir()
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the suaibot configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".suaibot"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from ~/.suaibot/config.toml, falling back to
// defaults when the file does not exist. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPathTOML()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific file path with full validation.
// A missing file is not an error.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, statErr := os.Stat(path); statErr == nil {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config: %w", err)
		}
	}

	loadDotEnv()
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file on top of cfg.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// loadDotEnv reads .env from the working directory. Variables already set in
// the environment are not overwritten.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: could not read .env: %v\n", err)
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// SaveTOML writes the configuration atomically with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var b strings.Builder
	b.WriteString("# suaibot configuration file\n")
	b.WriteString("# Environment variables SUAIBOT_* override these values\n\n")

	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
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

	if u, err := url.Parse(c.API.BaseURL); err != nil || u.Host == "" {
		errs = append(errs, ValidationError{"api.base_url", fmt.Sprintf("invalid URL %q", c.API.BaseURL)})
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, ValidationError{"api.base_url", fmt.Sprintf("unsupported scheme %q (must be http or https)", u.Scheme)})
	}
	if !strings.HasPrefix(c.API.ChatPath, "/") {
		errs = append(errs, ValidationError{"api.chat_path", "must start with /"})
	}
	if c.API.TimeoutSecs < 0 || c.API.TimeoutSecs > 600 {
		errs = append(errs, ValidationError{"api.timeout_secs", "must be between 0 and 600"})
	}
	if c.API.RateLimit < 0 {
		errs = append(errs, ValidationError{"api.rate_limit", "must not be negative"})
	}
	if c.API.RateLimit > 0 && c.API.RateBurst < 1 {
		errs = append(errs, ValidationError{"api.rate_burst", "must be at least 1 when rate_limit is set"})
	}

	if c.History.UserLimit < 1 || c.History.UserLimit > 1000 {
		errs = append(errs, ValidationError{"history.user_limit", "must be between 1 and 1000"})
	}
	if c.History.SessionLimit < 1 || c.History.SessionLimit > 1000 {
		errs = append(errs, ValidationError{"history.session_limit", "must be between 1 and 1000"})
	}

	switch c.UI.Theme {
	case "auto", "dark", "light":
	default:
		errs = append(errs, ValidationError{"ui.theme", fmt.Sprintf("unknown theme %q (auto, dark, light)", c.UI.Theme)})
	}
	switch c.UI.Language {
	case "ru", "en":
	default:
		errs = append(errs, ValidationError{"ui.language", fmt.Sprintf("unknown language %q (ru, en)", c.UI.Language)})
	}
	if c.UI.WordWrap < 20 {
		errs = append(errs, ValidationError{"ui.word_wrap", "must be at least 20"})
	}

	switch c.Storage.Backend {
	case "file", "sqlite", "memory":
	default:
		errs = append(errs, ValidationError{"storage.backend", fmt.Sprintf("unknown backend %q (file, sqlite, memory)", c.Storage.Backend)})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults sets default values for any missing or zero-value fields.
// Booleans are left alone since false is a valid choice.
func (c *Config) SetDefaults() {
	d := Default()

	if c.Version == "" {
		c.Version = d.Version
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = d.API.BaseURL
	}
	if c.API.ChatPath == "" {
		c.API.ChatPath = d.API.ChatPath
	}
	if c.API.RateLimit > 0 && c.API.RateBurst == 0 {
		c.API.RateBurst = d.API.RateBurst
	}
	if c.History.UserLimit == 0 {
		c.History.UserLimit = d.History.UserLimit
	}
	if c.History.SessionLimit == 0 {
		c.History.SessionLimit = d.History.SessionLimit
	}
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
	if c.UI.Language == "" {
		c.UI.Language = d.UI.Language
	}
	if c.UI.WordWrap == 0 {
		c.UI.WordWrap = d.UI.WordWrap
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = d.Storage.Backend
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies SUAIBOT_* environment variables to the config.
//
// Examples:
//   - SUAIBOT_API_BASE_URL: Override api.base_url
//   - SUAIBOT_API_TIMEOUT_SECS: Override api.timeout_secs
//   - SUAIBOT_API_DEBUG: Enable request logging
//   - SUAIBOT_UI_LANGUAGE: Override ui.language
//   - SUAIBOT_STORAGE_BACKEND: Override storage.backend
//
// VITE_API_BASE_URL is honored when SUAIBOT_API_BASE_URL is unset so the
// front end's .env files can be reused as is.
func (c *Config) ApplyEnvOverrides() error {
	if v := os.Getenv("VITE_API_BASE_URL"); v != "" && os.Getenv(EnvPrefix+"API_BASE_URL") == "" {
		c.API.BaseURL = v
	}
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("failed to parse environment overrides: %w", err)
	}
	return nil
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "api.base_url").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "api.base_url").
// String values are converted to the field's type.
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
				return reflect.Value{}, fmt.Errorf("'%s' is a section, not a value", key)
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
		result.WriteString(strings.ToUpper(part[:1]))
		result.WriteString(strings.ToLower(part[1:]))
	}
	return result.String()
}

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
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			boolVal, err := strconv.ParseBool(strings.ToLower(strVal))
			if err != nil {
				boolVal = strings.EqualFold(strVal, "yes") || strings.EqualFold(strVal, "on")
				if !boolVal && !strings.EqualFold(strVal, "no") && !strings.EqualFold(strVal, "off") {
					return fmt.Errorf("invalid boolean value: %q", strVal)
				}
			}
			field.SetBool(boolVal)
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

// AllKeys returns all configuration keys in dot notation.
func AllKeys() []string {
	return []string{
		"version",
		"api.base_url",
		"api.chat_path",
		"api.timeout_secs",
		"api.debug",
		"api.rate_limit",
		"api.rate_burst",
		"chat.save_history",
		"chat.greeting",
		"history.user_limit",
		"history.session_limit",
		"ui.theme",
		"ui.language",
		"ui.show_sources",
		"ui.word_wrap",
		"storage.backend",
		"storage.dir",
	}
}
