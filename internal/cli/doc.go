// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the non-TUI commands of
// suaibot.
//
// # Key Types
//
//   - Command: enumeration of the top-level commands
//   - Args: global flags plus the raw arguments of the command
//   - App: configuration, identity store and API client shared by commands
//   - REPL: line-mode chat with readline editing
//
// # Usage
//
//	cmd, args := cli.Parse(os.Args[1:])
//	app, err := cli.NewApp(cfg, args, cli.AppOptions{})
//	if err != nil { ... }
//	defer app.Close()
//	err = app.Run(ctx, cmd)
//
// # Commands
//
//   - (none): full-screen chat, handled by the caller
//   - chat: line-mode chat
//   - ask: one question, answer on stdout
//   - history: server-side history of the session or the user
//   - delete: delete session history (requires --confirm)
//   - session: show, reset or switch the remembered session
//   - config: show, get, set configuration
//   - version, help
//
// # Exit Codes
//
// 0 success, 1 general error, 2 usage or configuration error, 3 API error.
// Errors are printed by DisplayError, as JSON when --json is set.
package cli
