// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"

	"github.com/jeranaias/suaibot/internal/local"
	"github.com/jeranaias/suaibot/internal/model"
)

// =============================================================================
// HISTORY COMMAND
// =============================================================================

// HandleHistory prints the server-side history.
//
//	suaibot history                    current session, or all when none
//	suaibot history --session ID       another session
//	suaibot history --all --limit 20   all of the user's messages
func (a *App) HandleHistory(ctx context.Context) error {
	p := a.Args.Parser("all")

	userID, err := a.Identity.UserID()
	if err != nil {
		return err
	}
	sessionID, err := a.Identity.SessionID()
	if err != nil {
		return err
	}
	if id := p.Flag("session", "s"); id != "" {
		sessionID = &id
	}
	if p.BoolFlag("all") {
		sessionID = nil
	}

	var history *model.ChatHistoryResponse
	if sessionID != nil {
		limit, err := p.FlagInt(a.Config.History.SessionLimit, "limit", "n")
		if err != nil {
			return err
		}
		history, err = a.Client.GetSessionHistory(ctx, *sessionID, limit)
		if err != nil {
			return NewCommandError("history", "load", "request failed", err)
		}
	} else {
		limit, err := p.FlagInt(a.Config.History.UserLimit, "limit", "n")
		if err != nil {
			return err
		}
		history, err = a.Client.GetUserHistory(ctx, userID, nil, limit)
		if err != nil {
			return NewCommandError("history", "load", "request failed", err)
		}
	}

	msgs := model.MessagesFromHistory(history)
	stats := model.ComputeStats(msgs)

	if a.Args.JSON {
		return a.printJSON(CmdHistory, HistoryData{
			UserID:    userID,
			SessionID: sessionID,
			Total:     history.Total,
			Messages:  msgs,
			Stats:     stats,
		})
	}

	lang := a.Language()
	if len(msgs) == 0 {
		fmt.Fprintln(a.Out, DimStyle.Render(local.HistoryLoaded.Format(lang, 0)))
		return nil
	}

	pr := a.printer()
	for i, msg := range msgs {
		if i > 0 {
			fmt.Fprintln(a.Out)
		}
		pr.Message(msg)
	}
	if !a.Args.Quiet {
		fmt.Fprintln(a.Out, RenderSeparator())
		pr.Stats(stats)
	}
	return nil
}

// =============================================================================
// DELETE COMMAND
// =============================================================================

// HandleDelete deletes the current session's history on the server and
// forgets the session locally. --all deletes every session of the user.
// Requires --confirm.
func (a *App) HandleDelete(ctx context.Context) error {
	p := a.Args.Parser("confirm", "all", "yes", "y")
	if !p.BoolFlag("confirm", "yes", "y") {
		return &ValidationError{
			Field:   "--confirm",
			Reason:  "deleting history cannot be undone",
			Example: "suaibot delete --confirm",
		}
	}

	state, err := a.NewState()
	if err != nil {
		return err
	}
	if p.BoolFlag("all") {
		// Without a session id the delete covers the whole user history.
		if err := state.CreateNewSession(); err != nil {
			return err
		}
	}

	sessionID := state.SessionID()
	resp, err := state.DeleteSessionHistory(ctx)
	if err != nil {
		return NewCommandError("history", "delete", "request failed", err)
	}

	if a.Args.JSON {
		return a.printJSON(CmdDelete, DeleteData{
			DeletedCount: resp.DeletedCount,
			UserID:       state.UserID(),
			SessionID:    sessionID,
		})
	}
	fmt.Fprintln(a.Out, SuccessStyle.Render(local.HistoryDeleted.Format(a.Language(), resp.DeletedCount)))
	return nil
}
