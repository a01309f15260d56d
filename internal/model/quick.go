// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// QuickAction is a shortcut that fills the input with a common question topic.
type QuickAction struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

var quickActions = []QuickAction{
	{ID: 1, Title: "Расписание", Icon: "📅", Color: "#3b82f6"},
	{ID: 2, Title: "Экзамены", Icon: "📝", Color: "#1e40af"},
	{ID: 3, Title: "Стипендии", Icon: "💰", Color: "#1e3a8a"},
	{ID: 4, Title: "Общежития", Icon: "🏠", Color: "#0ea5e9"},
	{ID: 5, Title: "Библиотека", Icon: "📖", Color: "#06b6d4"},
}

// QuickActions returns a copy of the quick action table.
func QuickActions() []QuickAction {
	out := make([]QuickAction, len(quickActions))
	copy(out, quickActions)
	return out
}

// QuickActionByID looks up an action by its 1-based id.
func QuickActionByID(id int) (QuickAction, bool) {
	for _, a := range quickActions {
		if a.ID == id {
			return a, true
		}
	}
	return QuickAction{}, false
}
