// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - view and modify configuration.
//
// Subcommands:
//
//	show (default)      effective configuration, env overrides included
//	get KEY             one effective value
//	set KEY VALUE       change the config file
//	keys                list keys
//	path                config file location
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jeranaias/suaibot/internal/config"
)

// HandleConfig handles "config".
func (a *App) HandleConfig() error {
	p := a.Args.Parser()

	switch sub := strings.ToLower(p.Subcommand()); sub {
	case "", "show", "list":
		return a.showConfig()

	case "get":
		key := p.Positional(1)
		if key == "" {
			return ErrMissingArgument("key", "suaibot config get api.base_url")
		}
		v, err := a.Config.Get(key)
		if err != nil {
			return NewValidationError("key", key, err.Error())
		}
		if a.Args.JSON {
			return a.printJSON(CmdConfig, map[string]any{key: v})
		}
		fmt.Fprintln(a.Out, v)
		return nil

	case "set":
		key, value := p.Positional(1), strings.Join(p.PositionalFrom(2), " ")
		if key == "" || p.PositionalCount() < 3 {
			return ErrMissingArgument("key and value", "suaibot config set api.base_url http://10.0.0.5:8000")
		}
		return a.setConfig(key, value)

	case "keys":
		keys := config.AllKeys()
		if a.Args.JSON {
			return a.printJSON(CmdConfig, keys)
		}
		for _, k := range keys {
			fmt.Fprintln(a.Out, k)
		}
		return nil

	case "path":
		if a.Args.JSON {
			return a.printJSON(CmdConfig, map[string]string{"path": a.ConfigPath})
		}
		fmt.Fprintln(a.Out, a.ConfigPath)
		return nil

	default:
		return NewValidationError("config subcommand", sub, "expected show, get, set, keys or path")
	}
}

func (a *App) configValues() map[string]string {
	values := make(map[string]string)
	for _, key := range config.AllKeys() {
		v, err := a.Config.Get(key)
		if err != nil {
			continue
		}
		values[key] = fmt.Sprint(v)
	}
	return values
}

func (a *App) showConfig() error {
	values := a.configValues()
	if a.Args.JSON {
		return a.printJSON(CmdConfig, ConfigData{Path: a.ConfigPath, Values: values})
	}

	fmt.Fprintln(a.Out, TitleStyle.Render("suaibot configuration"))
	fmt.Fprintln(a.Out, DimStyle.Render(a.ConfigPath))
	fmt.Fprintln(a.Out)

	section := ""
	for _, key := range config.AllKeys() {
		if head, _, ok := strings.Cut(key, "."); ok && head != section {
			section = head
			fmt.Fprintln(a.Out, TitleStyle.Render("["+section+"]"))
		}
		fmt.Fprintln(a.Out, RenderLabel(key, values[key]))
	}
	return nil
}

// setConfig changes key in the config file only, so environment overrides
// are not written back.
func (a *App) setConfig(key, value string) error {
	fileCfg := config.Default()
	if _, err := os.Stat(a.ConfigPath); err == nil {
		if err := config.LoadTOML(fileCfg, a.ConfigPath); err != nil {
			return NewCommandError("config", "set", "cannot read config file", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return NewCommandError("config", "set", "cannot read config file", err)
	}

	if err := fileCfg.Set(key, value); err != nil {
		return NewValidationError(key, value, err.Error())
	}
	fileCfg.SetDefaults()
	if err := fileCfg.Validate(); err != nil {
		return err
	}
	if err := config.SaveTOML(fileCfg, a.ConfigPath); err != nil {
		return NewCommandError("config", "set", "cannot write config file", err)
	}

	// Keep the effective config of this process in step.
	_ = a.Config.Set(key, value)

	if a.Args.JSON {
		return a.printJSON(CmdConfig, map[string]string{key: value})
	}
	fmt.Fprintf(a.Out, "%s %s = %s\n", SuccessStyle.Render("Saved"), key, value)
	return nil
}
