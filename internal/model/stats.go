// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// UsageStats counts questions asked and answers received in the current view.
type UsageStats struct {
	Questions int `json:"questions"`
	Answers   int `json:"answers"`
}

// CountBySender returns the number of user and bot messages, greeting included.
func CountBySender(msgs []Message) (user, bot int) {
	for _, m := range msgs {
		if m.IsUser() {
			user++
		} else {
			bot++
		}
	}
	return user, bot
}

// ComputeStats derives usage stats. The greeting is not counted as an answer.
func ComputeStats(msgs []Message) UsageStats {
	var s UsageStats
	for _, m := range msgs {
		switch {
		case m.IsUser():
			s.Questions++
		case !m.Greeting:
			s.Answers++
		}
	}
	return s
}
