// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/jeranaias/suaibot/internal/local"
)

// =============================================================================
// SESSION COMMAND
// =============================================================================

// HandleSession shows or changes the locally remembered ids.
//
//	suaibot session [show]
//	suaibot session new
//	suaibot session set ID
//	suaibot session reset-user --confirm
func (a *App) HandleSession(ctx context.Context) error {
	p := a.Args.Parser("confirm")

	switch sub := strings.ToLower(p.Subcommand()); sub {
	case "", "show", "status":
		return a.showSession()

	case "new", "reset":
		if err := a.Identity.SetSessionID(nil); err != nil {
			return err
		}
		if !a.Args.JSON && !a.Args.Quiet {
			fmt.Fprintln(a.Out, SuccessStyle.Render(local.SessionStarted.Text(a.Language())))
		}
		return a.showSession()

	case "set", "use", "switch":
		id := strings.TrimSpace(p.Positional(1))
		if id == "" {
			return ErrMissingArgument("session id", "suaibot session set 3f2c9a1e-...")
		}
		if err := a.Identity.SetSessionID(&id); err != nil {
			return err
		}
		return a.showSession()

	case "reset-user":
		if !p.BoolFlag("confirm") {
			return &ValidationError{
				Field:   "--confirm",
				Reason:  "a new user id hides your previous history from this client",
				Example: "suaibot session reset-user --confirm",
			}
		}
		if err := a.Identity.ResetUserID(); err != nil {
			return err
		}
		return a.showSession()

	default:
		return NewValidationError("session subcommand", sub, "expected show, new, set or reset-user")
	}
}

func (a *App) showSession() error {
	userID, err := a.Identity.UserID()
	if err != nil {
		return err
	}
	sessionID, err := a.Identity.SessionID()
	if err != nil {
		return err
	}
	theme, _, err := a.Identity.Theme()
	if err != nil {
		return err
	}

	store := a.StorePath
	if store == "" {
		store = "memory"
	}

	if a.Args.JSON {
		return a.printJSON(CmdSession, SessionData{
			UserID:    userID,
			SessionID: sessionID,
			Theme:     theme,
			Store:     store,
		})
	}

	lang := a.Language()
	session := local.SessionNone.Text(lang)
	if sessionID != nil {
		session = *sessionID
	}
	fmt.Fprintln(a.Out, RenderLabel(local.UserLabel.Text(lang), userID))
	fmt.Fprintln(a.Out, RenderLabel(local.SessionLabel.Text(lang), session))
	if !a.Args.Quiet {
		fmt.Fprintln(a.Out, RenderLabel("Theme", string(a.ThemeMode())))
		fmt.Fprintln(a.Out, RenderLabel("Store", store))
	}
	return nil
}
