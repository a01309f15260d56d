// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package identity

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
)

// =============================================================================
// STORE INTERFACE
// =============================================================================

// Store is a persistent string key-value store.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(key, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(key string) error
	// Close releases resources. Later operations return ErrClosed.
	Close() error
}

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("identity store is closed")

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open creates the store for backend inside dir. The returned path is the
// file to watch for external changes; it is empty for the memory backend.
func Open(backend, dir string) (Store, string, error) {
	switch backend {
	case BackendFile, "":
		path := filepath.Join(dir, "identity.json")
		s, err := NewFileStore(path)
		return s, path, err
	case BackendSQLite:
		path := filepath.Join(dir, "identity.db")
		s, err := NewSQLiteStore(path)
		return s, path, err
	case BackendMemory:
		return NewMemoryStore(), "", nil
	default:
		return nil, "", fmt.Errorf("unknown identity backend %q", backend)
	}
}

// =============================================================================
// MEMORY STORE
// =============================================================================

// MemoryStore keeps keys in process memory. Used for --ephemeral runs and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string]string
	closed bool
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return "", false, ErrClosed
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.data[key] = value
	return nil
}

func (m *MemoryStore) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	delete(m.data, key)
	return nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
