// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_WritesToFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	dir := filepath.Join(t.TempDir(), "data")
	closeLog, err := Setup(Options{Dir: dir})
	require.NoError(t, err)

	slog.Info("session adopted", "session", "sess-1")
	slog.Debug("hidden at info level")
	require.NoError(t, closeLog())

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "session adopted")
	assert.Contains(t, string(data), "session=sess-1")
	assert.NotContains(t, string(data), "hidden at info level")

	info, err := os.Stat(filepath.Join(dir, FileName))
	require.NoError(t, err)
	if os.PathSeparator == '/' {
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}
}

func TestSetup_DebugLevel(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	dir := t.TempDir()
	closeLog, err := Setup(Options{Dir: dir, Debug: true})
	require.NoError(t, err)
	slog.Debug("request", "method", "POST")
	require.NoError(t, closeLog())

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "level=DEBUG")
}

func TestSetup_RotatesLargeFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", MaxSize+1)), 0600))

	closeLog, err := Setup(Options{Dir: dir})
	require.NoError(t, err)
	slog.Info("fresh")
	require.NoError(t, closeLog())

	rotated, err := os.Stat(path + ".1")
	require.NoError(t, err)
	assert.Greater(t, rotated.Size(), int64(MaxSize))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fresh")
	assert.Less(t, len(data), 1024)
}

func TestSetup_NoDirDiscards(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	closeLog, err := Setup(Options{})
	require.NoError(t, err)
	slog.Info("nowhere")
	assert.NoError(t, closeLog())
}
