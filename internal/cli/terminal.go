// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"
	"strconv"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Wrap widths for answers printed outside the TUI.
const (
	DefaultTerminalWidth = 80
	MinTerminalWidth     = 40
)

func isTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// IsTTY reports whether stdin is interactive. The line chat needs it.
func IsTTY() bool { return isTerminal(os.Stdin) }

// IsStdoutTTY reports whether answers go to a terminal rather than a pipe.
func IsStdoutTTY() bool { return isTerminal(os.Stdout) }

// GetTerminalWidth is the width of stdout. When stdout is not a terminal,
// $COLUMNS is used if set, else DefaultTerminalWidth.
func GetTerminalWidth() int {
	width := DefaultTerminalWidth
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	} else if cols, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && cols > 0 {
		width = cols
	}
	return max(width, MinTerminalWidth)
}

// ColorsEnabled decides whether answers are styled.
//
//	NO_COLOR set         never (https://no-color.org)
//	FORCE_COLOR set      always
//	TERM=dumb            never
//	otherwise            when stdout is a terminal
func ColorsEnabled() bool {
	switch {
	case os.Getenv("NO_COLOR") != "":
		return false
	case os.Getenv("FORCE_COLOR") != "":
		return true
	case os.Getenv("TERM") == "dumb":
		return false
	}
	return IsStdoutTTY()
}

// GetColorProfile is the lipgloss profile for CLI output.
func GetColorProfile() termenv.Profile {
	if ColorsEnabled() {
		return termenv.ColorProfile()
	}
	return termenv.Ascii
}
