// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads suaibot settings.
//
// Sources, later ones winning:
//
//	built-in defaults (Default)
//	~/.suaibot/config.toml, or the file given with --config
//	.env in the working directory (never overrides the real environment)
//	SUAIBOT_<SECTION>_<KEY>, e.g. SUAIBOT_API_BASE_URL, SUAIBOT_UI_LANGUAGE
//	VITE_API_BASE_URL, only when SUAIBOT_API_BASE_URL is unset
//
// Sections are [api] (answer service URL, chat path, timeout, debug, rate
// limit), [chat] (save_history, greeting), [history] (fetch limits), [ui]
// (theme, language, sources, wrap width) and [storage] (identity backend and
// directory). Keys are addressed with dots by Get and Set, which back the
// "suaibot config" command:
//
//	cfg, err := config.LoadFromPath(path)
//	v, _ := cfg.Get("api.base_url")
//	err = cfg.Set("ui.theme", "light")
package config
