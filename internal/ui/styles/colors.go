// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// BRAND COLORS
// =============================================================================

// Blue - Primary accent, user messages, focused input
var Blue = lipgloss.AdaptiveColor{Light: "#1E40AF", Dark: "#60A5FA"}

// Navy - Headers and the bot name
var Navy = lipgloss.AdaptiveColor{Light: "#1E3A8A", Dark: "#93C5FD"}

// Sky - Links and sources
var Sky = lipgloss.AdaptiveColor{Light: "#0369A1", Dark: "#38BDF8"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Rose - Errors
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - Warnings and notices
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// Emerald - Success
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// =============================================================================
// SURFACE AND TEXT COLORS
// =============================================================================

var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#0F172A"}
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F1F5F9", Dark: "#1E293B"}
var Overlay = lipgloss.AdaptiveColor{Light: "#CBD5E1", Dark: "#334155"}

var TextPrimary = lipgloss.AdaptiveColor{Light: "#0F172A", Dark: "#E2E8F0"}
var TextSecondary = lipgloss.AdaptiveColor{Light: "#475569", Dark: "#94A3B8"}
var TextMuted = lipgloss.AdaptiveColor{Light: "#94A3B8", Dark: "#64748B"}

// =============================================================================
// MESSAGE BUBBLE COLORS
// =============================================================================

var UserBubbleFg = lipgloss.AdaptiveColor{Light: "#1E3A8A", Dark: "#E0F2FE"}
var UserBubbleBorder = lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#3B82F6"}

var BotBubbleFg = lipgloss.AdaptiveColor{Light: "#0F172A", Dark: "#E2E8F0"}
var BotBubbleBorder = lipgloss.AdaptiveColor{Light: "#06B6D4", Dark: "#0EA5E9"}
