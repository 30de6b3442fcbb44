// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package index provides full-text search over every answered question,
// backed by SQLite with FTS5. The index is derived state: the session
// snapshot remains the source of truth, and the index can be rebuilt from
// it at any time. A snapshot watcher keeps the index fresh when another
// process rewrites the snapshot file.
//
// # Key Types
//
//   - TurnIndex: the searchable database of committed turns
//   - Hit: one search result
//   - SnapshotWatcher: fsnotify-based change detection with polling fallback
//
// # Usage
//
//	idx, err := index.Open(index.DefaultConfig(dataDir))
//	if err != nil {
//		return err
//	}
//	defer idx.Close()
//
//	if err := idx.Rebuild(ctx, ctrl.Chats()); err != nil {
//		return err
//	}
//	hits, err := idx.Search(ctx, "churn risk", 20)
package index
