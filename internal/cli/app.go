// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/suaibot/internal/api"
	"github.com/jeranaias/suaibot/internal/chat"
	"github.com/jeranaias/suaibot/internal/config"
	"github.com/jeranaias/suaibot/internal/identity"
	"github.com/jeranaias/suaibot/internal/local"
	"github.com/jeranaias/suaibot/internal/ui/styles"
)

// =============================================================================
// APPLICATION
// =============================================================================

// App holds what every command needs: configuration, identity, API client.
type App struct {
	Config     *config.Config
	ConfigPath string
	Identity   *identity.Identity
	Client     *api.Client
	Args       Args

	// StorePath is the identity file, "" for the memory backend.
	StorePath string

	Out io.Writer
	Err io.Writer
	In  io.Reader

	store identity.Store
}

// AppOptions overrides the parts of an App that tests replace.
type AppOptions struct {
	Store     identity.Store
	StorePath string
	Client    *api.Client
	Out       io.Writer
	Err       io.Writer
	In        io.Reader
}

// NewApp opens the identity store and creates the API client for cfg.
func NewApp(cfg *config.Config, args Args, opts AppOptions) (*App, error) {
	if args.BaseURL != "" {
		cfg.API.BaseURL = args.BaseURL
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	if args.Verbose {
		cfg.API.Debug = true
	}

	a := &App{
		Config:    cfg,
		Args:      args,
		Out:       opts.Out,
		Err:       opts.Err,
		In:        opts.In,
		store:     opts.Store,
		StorePath: opts.StorePath,
	}
	if a.Out == nil {
		a.Out = os.Stdout
	}
	if a.Err == nil {
		a.Err = os.Stderr
	}
	if a.In == nil {
		a.In = os.Stdin
	}
	a.ConfigPath = args.ConfigPath
	if a.ConfigPath == "" {
		a.ConfigPath, _ = config.ConfigPathTOML()
	}

	if a.store == nil {
		backend := cfg.Storage.Backend
		if args.Ephemeral {
			backend = identity.BackendMemory
		}
		dir, err := cfg.DataDir()
		if err != nil {
			return nil, err
		}
		store, path, err := identity.Open(backend, dir)
		if err != nil {
			return nil, NewCommandError("identity", "open", "cannot open identity store", err)
		}
		a.store, a.StorePath = store, path
	}
	a.Identity = identity.New(a.store)

	a.Client = opts.Client
	if a.Client == nil {
		clientCfg := api.ConfigFrom(cfg)
		clientCfg.Logger = slog.Default()
		a.Client = api.NewClient(clientCfg)
	}

	a.applyTheme()
	return a, nil
}

// Close releases the identity store.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	if errors.Is(err, identity.ErrClosed) {
		return nil
	}
	return err
}

// NewState creates a chat state container over the app's client and identity.
func (a *App) NewState() (*chat.State, error) {
	return chat.New(a.Client, a.Identity, chat.OptionsFrom(a.Config))
}

// Language is the configured UI language.
func (a *App) Language() local.Language {
	return local.ParseLanguage(a.Config.UI.Language)
}

// ThemeMode resolves the theme from the saved preference, the config and the
// terminal background.
func (a *App) ThemeMode() styles.Mode {
	saved, _, err := a.Identity.Theme()
	if err != nil {
		slog.Warn("failed to read saved theme", "error", err)
	}
	return styles.ResolveMode(saved, a.Config.UI.Theme)
}

// applyTheme makes adaptive colors in CLI output follow the resolved theme.
func (a *App) applyTheme() {
	lipgloss.SetHasDarkBackground(a.ThemeMode() == styles.Dark)
}

// =============================================================================
// DISPATCH
// =============================================================================

// Run executes a non-TUI command.
func (a *App) Run(ctx context.Context, cmd Command) error {
	switch cmd {
	case CmdChat:
		return a.HandleChat(ctx)
	case CmdAsk:
		return a.HandleAsk(ctx)
	case CmdHistory:
		return a.HandleHistory(ctx)
	case CmdDelete:
		return a.HandleDelete(ctx)
	case CmdSession:
		return a.HandleSession(ctx)
	case CmdConfig:
		return a.HandleConfig()
	case CmdVersion:
		return a.HandleVersion()
	default:
		return a.HandleHelp()
	}
}

// printJSON writes data in the JSON envelope.
func (a *App) printJSON(cmd Command, data any) error {
	return NewJSONResponse(cmd.String(), data).Print(a.Out)
}

// HandleVersion prints version information.
func (a *App) HandleVersion() error {
	if a.Args.JSON {
		return a.printJSON(CmdVersion, VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: goVersion(),
		})
	}
	PrintVersion(a.Out)
	return nil
}

// HandleHelp prints usage. An unknown command word is a usage error.
func (a *App) HandleHelp() error {
	PrintUsage(a.Out)
	if a.Args.Unknown != "" {
		return NewValidationError("command", a.Args.Unknown, "unknown command")
	}
	return nil
}
