// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the suaibot TUI.
//
// All colors are Lip Gloss AdaptiveColor values. The active variant is chosen
// with lipgloss.SetHasDarkBackground, so toggling the theme only flips the
// Mode and the next render picks up the other palette.
//
// # Usage
//
//	theme := styles.NewTheme(styles.ResolveMode(saved, cfg.UI.Theme))
//	theme.Toggle()
package styles
