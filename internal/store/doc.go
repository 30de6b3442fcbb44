// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store owns the authoritative collection of chats.
//
// The Store is the single source of truth for chat identity, ordering, and
// the active-chat pointer. All mutation goes through a small, invariant
// preserving API: CreateChat, AppendTurn, DeleteChat, ClearChat, SetActive.
// Operations on a missing chat report ErrChatNotFound and mutate nothing,
// so a turn resolved after its chat was deleted is discarded rather than
// silently attached elsewhere.
//
// # Serialization
//
// Snapshot and Restore round-trip the entire store through JSON, preserving
// chat IDs, titles, turn contents, display order, and the active pointer.
// Restore treats absent or malformed data as an empty store.
//
// # Concurrency
//
// All methods are safe for concurrent use. Each mutation is a single
// indivisible step under the internal mutex; accessors return copies.
package store
