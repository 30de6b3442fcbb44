// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package persist provides durable storage for session snapshots.
package persist

import "errors"

// ErrNoSnapshot is returned by Load when nothing has been stored yet.
// Callers treat it as "start with an empty store", never as a failure.
var ErrNoSnapshot = errors.New("no snapshot stored")

// Adapter is the durable byte store the session engine writes its snapshot
// to after every committed mutation. Implementations must make Save atomic
// with respect to Load: a reader never observes a half-written snapshot.
type Adapter interface {
	// Load returns the last saved snapshot, or ErrNoSnapshot if none.
	Load() ([]byte, error)

	// Save durably replaces the stored snapshot.
	Save(data []byte) error
}
