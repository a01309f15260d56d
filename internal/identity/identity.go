// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package identity

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Keys stored by Identity. The names match the browser client so exported
// stores stay interchangeable.
const (
	KeyUserID    = "suai-user-id"
	KeySessionID = "suai-session-id"
	KeyTheme     = "srb-theme"
)

// Identity is the client's durable user id and its rotatable session id.
// There is no expiry and no check that the server still knows either id.
type Identity struct {
	store Store
	newID func() string

	mu sync.Mutex
}

// New wraps store. User ids are random UUIDs.
func New(store Store) *Identity {
	return &Identity{
		store: store,
		newID: func() string { return uuid.NewString() },
	}
}

// Store returns the underlying key-value store.
func (i *Identity) Store() Store {
	return i.store
}

// UserID returns the persisted user id, generating and storing one on first use.
func (i *Identity) UserID() (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	id, ok, err := i.store.Get(KeyUserID)
	if err != nil {
		return "", fmt.Errorf("failed to read user id: %w", err)
	}
	if ok && strings.TrimSpace(id) != "" {
		return id, nil
	}

	id = i.newID()
	if err := i.store.Set(KeyUserID, id); err != nil {
		return "", fmt.Errorf("failed to persist user id: %w", err)
	}
	return id, nil
}

// SessionID returns the active session id, or nil when there is none.
func (i *Identity) SessionID() (*string, error) {
	id, ok, err := i.store.Get(KeySessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to read session id: %w", err)
	}
	if !ok || id == "" {
		return nil, nil
	}
	return &id, nil
}

// SetSessionID persists id. A nil or empty id clears the session.
func (i *Identity) SetSessionID(id *string) error {
	if id == nil || *id == "" {
		if err := i.store.Remove(KeySessionID); err != nil {
			return fmt.Errorf("failed to clear session id: %w", err)
		}
		return nil
	}
	if err := i.store.Set(KeySessionID, *id); err != nil {
		return fmt.Errorf("failed to persist session id: %w", err)
	}
	return nil
}

// Theme returns the saved theme name ("dark" or "light") and whether one was saved.
func (i *Identity) Theme() (string, bool, error) {
	theme, ok, err := i.store.Get(KeyTheme)
	if err != nil {
		return "", false, fmt.Errorf("failed to read theme: %w", err)
	}
	if theme != "dark" && theme != "light" {
		return "", false, nil
	}
	return theme, ok, nil
}

// SetTheme saves the theme preference.
func (i *Identity) SetTheme(theme string) error {
	if theme != "dark" && theme != "light" {
		return fmt.Errorf("invalid theme %q", theme)
	}
	if err := i.store.Set(KeyTheme, theme); err != nil {
		return fmt.Errorf("failed to persist theme: %w", err)
	}
	return nil
}

// ResetUserID forgets the user id so the next UserID call generates a new one.
func (i *Identity) ResetUserID() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.store.Remove(KeyUserID)
}
