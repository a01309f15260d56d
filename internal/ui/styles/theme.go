// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Mode is the light or dark variant of the theme.
type Mode string

const (
	Dark  Mode = "dark"
	Light Mode = "light"
)

// Other returns the opposite mode.
func (m Mode) Other() Mode {
	if m == Dark {
		return Light
	}
	return Dark
}

// ResolveMode picks the starting mode: a saved preference wins, then an
// explicit config value, then the terminal background.
func ResolveMode(saved string, configured string) Mode {
	switch Mode(saved) {
	case Dark, Light:
		return Mode(saved)
	}
	switch Mode(configured) {
	case Dark, Light:
		return Mode(configured)
	}
	if termenv.HasDarkBackground() {
		return Dark
	}
	return Light
}

// Theme holds all the styled components for the application.
type Theme struct {
	Mode         Mode
	ColorProfile termenv.Profile

	Width  int
	Height int

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderMeta  lipgloss.Style

	UserBubble lipgloss.Style
	BotBubble  lipgloss.Style
	UserName   lipgloss.Style
	BotName    lipgloss.Style
	Timestamp  lipgloss.Style
	SourceHead lipgloss.Style
	SourceItem lipgloss.Style

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style

	Spinner   lipgloss.Style
	Error     lipgloss.Style
	Notice    lipgloss.Style
	StatusBar lipgloss.Style
	StatusKey lipgloss.Style
	Help      lipgloss.Style
	Muted     lipgloss.Style
}

// NewTheme creates a theme in the given mode and makes lipgloss resolve
// adaptive colors for that mode.
func NewTheme(mode Mode) *Theme {
	t := &Theme{ColorProfile: termenv.ColorProfile()}
	t.SetMode(mode)
	t.initStyles()
	return t
}

// SetMode switches between light and dark.
func (t *Theme) SetMode(mode Mode) {
	if mode != Light {
		mode = Dark
	}
	t.Mode = mode
	lipgloss.SetHasDarkBackground(mode == Dark)
}

// Toggle flips the mode and returns the new one.
func (t *Theme) Toggle() Mode {
	t.SetMode(t.Mode.Other())
	return t.Mode
}

// IsDark reports whether the dark variant is active.
func (t *Theme) IsDark() bool {
	return t.Mode == Dark
}

// GlamourStyle is the glamour standard style name matching the mode.
func (t *Theme) GlamourStyle() string {
	return string(t.Mode)
}

// SetSize records the terminal size.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// QuickAction styles a quick action label in its own color.
func (t *Theme) QuickAction(hex string) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(hex)).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(hex)).
		Padding(0, 1)
}

func (t *Theme) initStyles() {
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Navy)

	t.HeaderMeta = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1).
		MarginLeft(4)

	t.BotBubble = lipgloss.NewStyle().
		Foreground(BotBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(BotBubbleBorder).
		Padding(0, 1).
		MarginRight(4)

	t.UserName = lipgloss.NewStyle().Bold(true).Foreground(Blue)
	t.BotName = lipgloss.NewStyle().Bold(true).Foreground(Navy)
	t.Timestamp = lipgloss.NewStyle().Foreground(TextMuted)

	t.SourceHead = lipgloss.NewStyle().Foreground(TextSecondary).Italic(true)
	t.SourceItem = lipgloss.NewStyle().Foreground(Sky).Underline(true)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().Foreground(Blue).Bold(true)
	t.InputPlaceholder = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)

	t.Spinner = lipgloss.NewStyle().Foreground(Sky)
	t.Error = lipgloss.NewStyle().Foreground(Rose).Bold(true)
	t.Notice = lipgloss.NewStyle().Foreground(Emerald)

	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)
	t.StatusKey = lipgloss.NewStyle().Foreground(Blue).Bold(true)

	t.Help = lipgloss.NewStyle().Foreground(TextMuted)
	t.Muted = lipgloss.NewStyle().Foreground(TextMuted)
}
