// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package persist provides durable storage for session snapshots.
package persist

import "sync"

// MemoryAdapter keeps the snapshot in memory. It exists for tests and for
// running the engine without touching the filesystem.
type MemoryAdapter struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryAdapter creates an empty in-memory adapter.
func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{}
}

// Load returns a copy of the stored snapshot, or ErrNoSnapshot.
func (a *MemoryAdapter) Load() ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.data == nil {
		return nil, ErrNoSnapshot
	}
	return append([]byte(nil), a.data...), nil
}

// Save replaces the stored snapshot with a copy of data.
func (a *MemoryAdapter) Save(data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.data = append([]byte(nil), data...)
	return nil
}
