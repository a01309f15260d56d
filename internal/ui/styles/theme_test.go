// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestResolveMode(t *testing.T) {
	tests := []struct {
		saved, configured string
		want              Mode
	}{
		{"light", "dark", Light},
		{"dark", "light", Dark},
		{"", "light", Light},
		{"garbage", "dark", Dark},
	}
	for _, tt := range tests {
		if got := ResolveMode(tt.saved, tt.configured); got != tt.want {
			t.Errorf("ResolveMode(%q, %q) = %q, want %q", tt.saved, tt.configured, got, tt.want)
		}
	}

	// auto falls through to terminal detection; just make sure it is valid
	if got := ResolveMode("", "auto"); got != Dark && got != Light {
		t.Errorf("ResolveMode auto = %q", got)
	}
}

func TestToggle(t *testing.T) {
	theme := NewTheme(Dark)
	if !theme.IsDark() || !lipgloss.HasDarkBackground() {
		t.Fatal("expected dark mode")
	}

	if got := theme.Toggle(); got != Light {
		t.Errorf("Toggle() = %q, want light", got)
	}
	if lipgloss.HasDarkBackground() {
		t.Error("lipgloss still resolves dark colors")
	}
	if theme.GlamourStyle() != "light" {
		t.Errorf("GlamourStyle() = %q", theme.GlamourStyle())
	}

	theme.Toggle()
	if theme.Mode != Dark {
		t.Errorf("second Toggle() left mode %q", theme.Mode)
	}
}

func TestSetMode_UnknownIsDark(t *testing.T) {
	theme := NewTheme(Mode("sepia"))
	if theme.Mode != Dark {
		t.Errorf("Mode = %q, want dark", theme.Mode)
	}
}

func TestStylesRender(t *testing.T) {
	theme := NewTheme(Light)
	for name, style := range map[string]lipgloss.Style{
		"UserBubble": theme.UserBubble,
		"BotBubble":  theme.BotBubble,
		"StatusBar":  theme.StatusBar,
		"Error":      theme.Error,
		"Quick":      theme.QuickAction("#3b82f6"),
	} {
		if style.Render("test") == "" {
			t.Errorf("%s rendered empty", name)
		}
	}
}
