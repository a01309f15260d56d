// suaibot - terminal client for the Suai Rag Bot university assistant.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/suaibot/internal/cli"
	"github.com/jeranaias/suaibot/internal/config"
	"github.com/jeranaias/suaibot/internal/identity"
	"github.com/jeranaias/suaibot/internal/logging"
	"github.com/jeranaias/suaibot/internal/ui/chat"
	"github.com/jeranaias/suaibot/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	cmd, args := cli.Parse(argv)

	cfg, err := loadConfig(args.ConfigPath)
	if err != nil {
		cli.DisplayError(os.Stderr, err, args.JSON)
		return cli.GetExitCode(err)
	}

	closeLog := setupLogging(cfg, cmd, args)
	defer closeLog()

	app, err := cli.NewApp(cfg, args, cli.AppOptions{})
	if err != nil {
		cli.DisplayError(os.Stderr, err, args.JSON)
		return cli.GetExitCode(err)
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	if cmd == cli.CmdTUI {
		err = runTUI(ctx, app)
	} else {
		err = app.Run(ctx, cmd)
	}
	if err != nil {
		slog.Error("command failed", "command", cmd.String(), "error", err)
		cli.DisplayError(os.Stderr, err, args.JSON)
		return cli.GetExitCode(err)
	}
	return cli.ExitSuccess
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

// setupLogging writes to the data directory. Verbose one-shot commands also
// log to stderr; the TUI never does.
func setupLogging(cfg *config.Config, cmd cli.Command, args cli.Args) func() error {
	dir, err := cfg.DataDir()
	if err != nil {
		dir = ""
	}
	closeLog, err := logging.Setup(logging.Options{
		Dir:    dir,
		Debug:  cfg.API.Debug || args.Verbose,
		Stderr: args.Verbose && cmd != cli.CmdTUI,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	return closeLog
}

// runTUI starts the full-screen chat.
func runTUI(ctx context.Context, app *cli.App) error {
	if !cli.IsTTY() || !cli.IsStdoutTTY() {
		return cli.NewValidationError("terminal", "", "the full-screen chat needs a terminal; try \"suaibot ask\"")
	}

	mode := app.ThemeMode()
	theme := styles.NewTheme(mode)

	state, err := app.NewState()
	if err != nil {
		return err
	}

	opts := chat.Options{
		State:       state,
		Identity:    app.Identity,
		Theme:       theme,
		ShowSources: app.Config.UI.ShowSources,
		WordWrap:    app.Config.UI.WordWrap,
	}

	// Follow ids changed by another suaibot process.
	if app.StorePath != "" {
		w, err := identity.NewWatcher(app.StorePath, identity.DefaultDebounce)
		if err != nil {
			slog.Warn("identity watcher unavailable", "path", app.StorePath, "error", err)
		} else {
			defer w.Close()
			opts.Changes = w.Changes()
		}
	}

	slog.Info("starting tui", "base_url", app.Client.BaseURL(), "theme", string(mode))

	p := tea.NewProgram(
		chat.New(opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
