// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging sets up the process-wide slog logger.
//
// The full-screen chat owns the terminal, so log records go to a file in the
// data directory rather than to stderr.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// FileName is the log file inside the data directory.
	FileName = "suaibot.log"

	// MaxSize is the size at which the log is rotated to FileName + ".1".
	MaxSize = 5 << 20
)

// Options configures Setup.
type Options struct {
	// Dir is the directory for the log file. Empty disables file logging.
	Dir string

	// Debug lowers the level to debug.
	Debug bool

	// Stderr also writes records to stderr. Never set for the TUI.
	Stderr bool
}

// Setup installs a text logger as the slog default and returns a function
// that closes the log file.
func Setup(opts Options) (func() error, error) {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}

	var writers []io.Writer
	closer := func() error { return nil }

	if opts.Dir != "" {
		f, err := openLogFile(opts.Dir)
		if err != nil {
			return closer, err
		}
		writers = append(writers, f)
		closer = f.Close
	}
	if opts.Stderr {
		writers = append(writers, os.Stderr)
	}

	var w io.Writer = io.Discard
	switch len(writers) {
	case 0:
	case 1:
		w = writers[0]
	default:
		w = io.MultiWriter(writers...)
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return closer, nil
}

// openLogFile opens FileName for appending, rotating it first when it has
// grown past MaxSize.
func openLogFile(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	path := filepath.Join(dir, FileName)
	if info, err := os.Stat(path); err == nil && info.Size() > MaxSize {
		_ = os.Rename(path, path+".1")
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}
