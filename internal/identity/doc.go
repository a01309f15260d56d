// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package identity persists the client's user id, session id and theme.
//
// # Key Types
//
//   - Store: Key-value persistence (FileStore, SQLiteStore, MemoryStore)
//   - Identity: User id generation plus session id and theme accessors
//   - Watcher: fsnotify-based notification of changes made by other processes
//
// # Usage
//
//	store, path, err := identity.Open(cfg.Storage.Backend, dir)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	id := identity.New(store)
//	userID, err := id.UserID()
package identity
