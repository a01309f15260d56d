// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat holds the conversation state shared by the TUI and the REPL.
//
// # Key Types
//
//   - State: Messages, input buffer, loading flag, last error, user and session ids
//   - Service: The remote operations State needs (implemented by *api.Client)
//   - Snapshot: Copy of State for rendering
//
// # Usage
//
//	state, err := chat.New(client, identity.New(store), chat.OptionsFrom(cfg))
//	if err != nil {
//	    return err
//	}
//	state.SetInput("Как получить справку?")
//	if err := state.SendMessage(ctx); err != nil {
//	    fmt.Println(state.Error())
//	}
//
// The TUI splits a send into BeginSend and FinishSend so the network call can
// run as a tea.Cmd while the view shows the user's message and a spinner.
package chat
