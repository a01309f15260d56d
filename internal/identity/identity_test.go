// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package identity

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

// backends returns a fresh store of every kind. reopen returns a new store
// over the same data, simulating a process restart.
func backends(t *testing.T) map[string]func() Store {
	t.Helper()
	dir := t.TempDir()
	mem := NewMemoryStore()

	return map[string]func() Store{
		"memory": func() Store { return mem },
		"file": func() Store {
			s, err := NewFileStore(filepath.Join(dir, "identity.json"))
			require.NoError(t, err)
			return s
		},
		"sqlite": func() Store {
			s, err := NewSQLiteStore(filepath.Join(dir, "identity.db"))
			require.NoError(t, err)
			t.Cleanup(func() { s.Close() })
			return s
		},
	}
}

func TestStore_GetSetRemove(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open()

			_, ok, err := s.Get("missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Set("k", "v1"))
			require.NoError(t, s.Set("k", "v2"))
			v, ok, err := s.Get("k")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "v2", v)

			require.NoError(t, s.Remove("k"))
			require.NoError(t, s.Remove("k"))
			_, ok, err = s.Get("k")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestUserID_GeneratedOnceAndStable(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			first, err := New(open()).UserID()
			require.NoError(t, err)
			_, err = uuid.Parse(first)
			require.NoError(t, err)

			again, err := New(open()).UserID()
			require.NoError(t, err)
			assert.Equal(t, first, again)
		})
	}
}

func TestUserID_BlankValueRegenerated(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Set(KeyUserID, "  "))

	id := New(s)
	id.newID = func() string { return "fixed" }
	got, err := id.UserID()
	require.NoError(t, err)
	assert.Equal(t, "fixed", got)
}

func TestSessionID(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			id := New(open())

			sid, err := id.SessionID()
			require.NoError(t, err)
			assert.Nil(t, sid)

			require.NoError(t, id.SetSessionID(strPtr("sess-1")))
			sid, err = New(open()).SessionID()
			require.NoError(t, err)
			require.NotNil(t, sid)
			assert.Equal(t, "sess-1", *sid)

			require.NoError(t, id.SetSessionID(nil))
			sid, err = id.SessionID()
			require.NoError(t, err)
			assert.Nil(t, sid)

			require.NoError(t, id.SetSessionID(strPtr("")))
			sid, err = id.SessionID()
			require.NoError(t, err)
			assert.Nil(t, sid)
		})
	}
}

func TestTheme(t *testing.T) {
	id := New(NewMemoryStore())

	_, ok, err := id.Theme()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, id.SetTheme("light"))
	theme, ok, err := id.Theme()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "light", theme)

	assert.Error(t, id.SetTheme("sepia"))

	require.NoError(t, id.Store().Set(KeyTheme, "garbage"))
	_, ok, err = id.Theme()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResetUserID(t *testing.T) {
	id := New(NewMemoryStore())
	first, err := id.UserID()
	require.NoError(t, err)

	require.NoError(t, id.ResetUserID())
	second, err := id.UserID()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	s, err := NewFileStore(path)
	require.NoError(t, err)
	_, _, err = s.Get(KeyUserID)
	assert.Error(t, err)
}

func TestStore_Closed(t *testing.T) {
	backends := map[string]func(t *testing.T) Store{
		"file": func(t *testing.T) Store {
			s, err := NewFileStore(filepath.Join(t.TempDir(), "identity.json"))
			require.NoError(t, err)
			return s
		},
		"sqlite": func(t *testing.T) Store {
			s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "identity.db"))
			require.NoError(t, err)
			return s
		},
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			require.NoError(t, s.Set("k", "v"))
			require.NoError(t, s.Close())
			assert.NoError(t, s.Close())

			_, _, err := s.Get("k")
			assert.ErrorIs(t, err, ErrClosed)
			assert.ErrorIs(t, s.Set("k", "v"), ErrClosed)
			assert.ErrorIs(t, s.Remove("k"), ErrClosed)
		})
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, path, err := Open(BackendFile, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "identity.json"), path)
	s.Close()

	s, path, err = Open(BackendSQLite, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "identity.db"), path)
	s.Close()

	s, path, err = Open(BackendMemory, dir)
	require.NoError(t, err)
	assert.Empty(t, path)
	s.Close()

	_, _, err = Open("redis", dir)
	assert.Error(t, err)
}

func TestWatcher_SeesExternalWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "identity.json")

	w, err := NewWatcher(path, 20*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	other, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, New(other).SetSessionID(strPtr("from-cli")))

	select {
	case <-w.Changes():
	case <-time.After(3 * time.Second):
		t.Fatal("no change notification")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(filepath.Join(dir, "identity.json"), 20*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("x"), 0600))

	select {
	case <-w.Changes():
		t.Fatal("unexpected notification")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_CloseClosesChannel(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "identity.json"), 0)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	select {
	case _, ok := <-w.Changes():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel not closed")
	}
}
