// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by suaibot packages.
//
// # Files
//
//   - atomic.go: crash-safe file replacement (temp file, fsync, rename)
//   - string.go: rune and terminal-width aware truncation and padding
package util
