// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, "http://localhost:8000/api/chat", cfg.ChatBaseURL())
	assert.Equal(t, 30, cfg.API.TimeoutSecs)
	assert.True(t, cfg.Chat.SaveHistory)
	assert.Equal(t, 50, cfg.History.UserLimit)
	assert.Equal(t, 100, cfg.History.SessionLimit)
	assert.Equal(t, "ru", cfg.UI.Language)
	assert.NoError(t, cfg.Validate())
}

func TestChatBaseURL_TrimsTrailingSlash(t *testing.T) {
	cfg := Default()
	cfg.API.BaseURL = "https://bot.example.edu/"
	assert.Equal(t, "https://bot.example.edu/api/chat", cfg.ChatBaseURL())
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default().API.BaseURL, cfg.API.BaseURL)
}

func TestSaveAndLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.API.BaseURL = "https://rag.suai.example"
	cfg.API.Debug = true
	cfg.Chat.SaveHistory = false
	cfg.History.UserLimit = 20
	cfg.UI.Language = "en"
	cfg.Storage.Backend = "sqlite"
	require.NoError(t, SaveTOML(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	if os.PathSeparator == '/' {
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "https://rag.suai.example", loaded.API.BaseURL)
	assert.True(t, loaded.API.Debug)
	assert.False(t, loaded.Chat.SaveHistory)
	assert.Equal(t, 20, loaded.History.UserLimit)
	assert.Equal(t, "en", loaded.UI.Language)
	assert.Equal(t, "sqlite", loaded.Storage.Backend)
}

func TestLoadTOML_UnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[api]\nbase_uri = \"http://x\"\n"), 0600))

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api.base_uri")
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("SUAIBOT_API_BASE_URL", "http://10.0.0.5:9000")
	t.Setenv("SUAIBOT_API_TIMEOUT_SECS", "5")
	t.Setenv("SUAIBOT_API_DEBUG", "true")
	t.Setenv("SUAIBOT_CHAT_SAVE_HISTORY", "false")
	t.Setenv("SUAIBOT_UI_LANGUAGE", "en")
	t.Setenv("SUAIBOT_STORAGE_BACKEND", "memory")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnvOverrides())

	assert.Equal(t, "http://10.0.0.5:9000", cfg.API.BaseURL)
	assert.Equal(t, 5, cfg.API.TimeoutSecs)
	assert.True(t, cfg.API.Debug)
	assert.False(t, cfg.Chat.SaveHistory)
	assert.Equal(t, "en", cfg.UI.Language)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	// untouched
	assert.Equal(t, 50, cfg.History.UserLimit)
}

func TestApplyEnvOverrides_ViteFallback(t *testing.T) {
	t.Setenv("VITE_API_BASE_URL", "http://vite.local:8000")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnvOverrides())
	assert.Equal(t, "http://vite.local:8000", cfg.API.BaseURL)

	t.Setenv("SUAIBOT_API_BASE_URL", "http://explicit:8000")
	cfg = Default()
	require.NoError(t, cfg.ApplyEnvOverrides())
	assert.Equal(t, "http://explicit:8000", cfg.API.BaseURL)
}

func TestApplyEnvOverrides_BadValue(t *testing.T) {
	t.Setenv("SUAIBOT_API_TIMEOUT_SECS", "soon")
	cfg := Default()
	assert.Error(t, cfg.ApplyEnvOverrides())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad scheme", func(c *Config) { c.API.BaseURL = "ftp://host" }, "api.base_url"},
		{"no host", func(c *Config) { c.API.BaseURL = "localhost" }, "api.base_url"},
		{"chat path", func(c *Config) { c.API.ChatPath = "api/chat" }, "api.chat_path"},
		{"negative timeout", func(c *Config) { c.API.TimeoutSecs = -1 }, "api.timeout_secs"},
		{"burst", func(c *Config) { c.API.RateLimit = 2; c.API.RateBurst = 0 }, "api.rate_burst"},
		{"user limit", func(c *Config) { c.History.UserLimit = 0 }, "history.user_limit"},
		{"session limit", func(c *Config) { c.History.SessionLimit = 5000 }, "history.session_limit"},
		{"theme", func(c *Config) { c.UI.Theme = "solarized" }, "ui.theme"},
		{"language", func(c *Config) { c.UI.Language = "de" }, "ui.language"},
		{"backend", func(c *Config) { c.Storage.Backend = "redis" }, "storage.backend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)

			var verrs ValidateErrors
			require.ErrorAs(t, err, &verrs)
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.field, verrs[0].Field)
		})
	}
}

func TestValidateErrors_Joined(t *testing.T) {
	cfg := Default()
	cfg.UI.Theme = "x"
	cfg.UI.Language = "y"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, 2, strings.Count(err.Error(), "ui."))
	assert.Contains(t, err.Error(), "; ")
}

func TestSetDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()
	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, "/api/chat", cfg.API.ChatPath)
	assert.Equal(t, 50, cfg.History.UserLimit)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.NoError(t, cfg.Validate())
}

func TestGetSet(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("api.base_url", "http://example.org"))
	v, err := cfg.Get("api.base_url")
	require.NoError(t, err)
	assert.Equal(t, "http://example.org", v)

	require.NoError(t, cfg.Set("history.user_limit", "10"))
	assert.Equal(t, 10, cfg.History.UserLimit)

	require.NoError(t, cfg.Set("api.debug", "yes"))
	assert.True(t, cfg.API.Debug)

	require.NoError(t, cfg.Set("api.rate_limit", "0.5"))
	assert.Equal(t, 0.5, cfg.API.RateLimit)

	assert.Error(t, cfg.Set("api.nope", "x"))
	assert.Error(t, cfg.Set("history.user_limit", "many"))
	assert.Error(t, cfg.Set("api.debug", "maybe"))
	_, err = cfg.Get("api")
	assert.Error(t, err)
	_, err = cfg.Get("")
	assert.Error(t, err)
}

func TestAllKeysResolve(t *testing.T) {
	cfg := Default()
	for _, key := range AllKeys() {
		_, err := cfg.Get(key)
		assert.NoError(t, err, key)
	}
}
