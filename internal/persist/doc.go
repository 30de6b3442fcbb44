// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package persist provides durable storage for session snapshots.
//
// # Key Types
//
//   - Adapter: the load/save contract the session engine writes through
//   - FileAdapter: atomic single-file JSON storage (~/.lens/chats.json)
//   - EncryptedAdapter: AES-256-GCM encryption at rest around any Adapter
//   - MemoryAdapter: in-memory storage for tests
//
// # Failure Semantics
//
// Load reports ErrNoSnapshot when nothing has been stored; callers start
// with an empty session store. Save failures are surfaced to the caller
// but are never fatal to the engine: in-memory state stays correct and the
// next committed mutation retries the write.
package persist
