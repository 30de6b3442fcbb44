// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package index provides full-text search over answered questions.
package index

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// SNAPSHOT WATCHER INTERFACE
// =============================================================================

// SnapshotWatcher observes the snapshot file and triggers reindexing when
// another process rewrites it.
type SnapshotWatcher interface {
	// Watch starts watching for snapshot changes
	Watch() error

	// Close stops watching and releases resources
	Close() error
}

// =============================================================================
// FSNOTIFY WATCHER
// =============================================================================

// FsnotifyWatcher implements SnapshotWatcher using fsnotify. The snapshot
// is replaced atomically by rename, so the watcher observes the parent
// directory rather than the file itself.
type FsnotifyWatcher struct {
	path     string
	onChange func()
	watcher  *fsnotify.Watcher
	debounce time.Duration
	mu       sync.Mutex
	pending  time.Time
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewFsnotifyWatcher creates a watcher for the snapshot at path. onChange
// runs after writes settle for the debounce interval.
func NewFsnotifyWatcher(path string, debounce time.Duration, onChange func()) (*FsnotifyWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &FsnotifyWatcher{
		path:     path,
		onChange: onChange,
		watcher:  watcher,
		debounce: debounce,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Watch starts watching for snapshot changes
func (fw *FsnotifyWatcher) Watch() error {
	if err := fw.watcher.Add(filepath.Dir(fw.path)); err != nil {
		return err
	}

	go fw.processEvents()
	go fw.processPending()

	return nil
}

// processEvents processes file system events
func (fw *FsnotifyWatcher) processEvents() {
	defer func() {
		// A panicking watcher goroutine must not take the process down.
		if r := recover(); r != nil {
			_ = r
		}
	}()

	for {
		select {
		case <-fw.ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(fw.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				fw.mu.Lock()
				fw.pending = time.Now()
				fw.mu.Unlock()
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			// Non-fatal
			_ = err
		}
	}
}

// processPending fires the change callback once writes settle.
func (fw *FsnotifyWatcher) processPending() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-fw.ctx.Done():
			return

		case <-ticker.C:
			fw.mu.Lock()
			fire := !fw.pending.IsZero() && time.Since(fw.pending) >= fw.debounce
			if fire {
				fw.pending = time.Time{}
			}
			fw.mu.Unlock()

			if fire {
				fw.onChange()
			}
		}
	}
}

// Close stops watching and releases resources
func (fw *FsnotifyWatcher) Close() error {
	fw.cancel()
	if fw.watcher != nil {
		return fw.watcher.Close()
	}
	return nil
}

// =============================================================================
// POLLING WATCHER (FALLBACK)
// =============================================================================

// PollingWatcher implements SnapshotWatcher by polling the snapshot's
// modification time. Used on filesystems where fsnotify is unavailable.
type PollingWatcher struct {
	path     string
	onChange func()
	interval time.Duration
	lastMod  time.Time
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewPollingWatcher creates a polling-based watcher.
func NewPollingWatcher(path string, interval time.Duration, onChange func()) *PollingWatcher {
	ctx, cancel := context.WithCancel(context.Background())

	return &PollingWatcher{
		path:     path,
		onChange: onChange,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Watch starts watching for snapshot changes
func (pw *PollingWatcher) Watch() error {
	if info, err := os.Stat(pw.path); err == nil {
		pw.lastMod = info.ModTime()
	}
	go pw.poll()
	return nil
}

// poll periodically checks the snapshot's modification time.
func (pw *PollingWatcher) poll() {
	ticker := time.NewTicker(pw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-pw.ctx.Done():
			return

		case <-ticker.C:
			info, err := os.Stat(pw.path)
			if err != nil {
				continue
			}
			if !info.ModTime().Equal(pw.lastMod) {
				pw.lastMod = info.ModTime()
				pw.onChange()
			}
		}
	}
}

// Close stops watching
func (pw *PollingWatcher) Close() error {
	pw.cancel()
	return nil
}

// =============================================================================
// WATCHER FACTORY
// =============================================================================

// WatchSnapshot starts a watcher for the snapshot at path, preferring
// fsnotify and falling back to polling.
func WatchSnapshot(path string, debounce time.Duration, onChange func()) (SnapshotWatcher, error) {
	fw, err := NewFsnotifyWatcher(path, debounce, onChange)
	if err == nil {
		if err := fw.Watch(); err == nil {
			return fw, nil
		}
		fw.Close()
	}

	pw := NewPollingWatcher(path, 5*time.Second, onChange)
	if err := pw.Watch(); err != nil {
		return nil, err
	}
	return pw, nil
}
