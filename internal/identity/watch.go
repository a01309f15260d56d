// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package identity

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events one atomic write produces.
const DefaultDebounce = 150 * time.Millisecond

// Watcher reports changes to a store file made by any process.
//
// The parent directory is watched rather than the file because atomic
// writes replace the file. SQLite WAL and journal siblings count as changes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	base     string
	debounce time.Duration
	events   chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

// NewWatcher starts watching path.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		watcher:  fsw,
		base:     filepath.Base(path),
		debounce: debounce,
		events:   make(chan struct{}, 1),
		ctx:      ctx,
		cancel:   cancel,
	}
	go w.run()
	return w, nil
}

// Changes delivers one value per debounced burst of changes. The channel is
// closed after Close.
func (w *Watcher) Changes() <-chan struct{} {
	return w.events
}

// Close stops watching.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		w.cancel()
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) matches(name string) bool {
	base := filepath.Base(name)
	return base == w.base || strings.HasPrefix(base, w.base+"-")
}

func (w *Watcher) run() {
	defer close(w.events)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.matches(event.Name) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			select {
			case w.events <- struct{}{}:
			default:
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("identity watcher error", "error", err)
		}
	}
}
