// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the full-screen chat view of suaibot.

The view is a Bubble Tea model over a chat state container. It renders the
conversation in a scrollable viewport, answers as markdown through glamour,
and keeps the input line, quick actions and usage statistics on screen.

# Key Components

## Model (model.go)

The Model owns the bubbles widgets (viewport, textinput, spinner) and
forwards user actions to the chat state:
  - enter sends the input; the user message shows before the reply
  - ctrl+n starts a new session, ctrl+x deletes its history after a y/N prompt
  - ctrl+r reloads the history, ctrl+t toggles and persists the theme
  - alt+1..5 fills the input with a quick question

Network calls run as tea.Cmd functions and report back with SendDoneMsg,
HistoryLoadedMsg and HistoryDeletedMsg.

## View Rendering (view.go)

  - Header with the bot name and current session
  - User and bot bubbles with timestamps, sources and images
  - Quick action row in the colors of the web client
  - Input area with error, notice or confirmation line
  - Status bar with user id, question and answer counts and key help

# Usage

	m := chat.New(chat.Options{
		State:       state,
		Identity:    ident,
		Theme:       styles.NewTheme(mode),
		ShowSources: true,
		Changes:     watcher.Changes(),
	})
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
*/
package chat
