// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chats and turns.
//
// # Key Types
//
//   - Chat: a named session of question/answer exchanges
//   - Turn: one immutable question/answer exchange with reference links
//   - Link: a labeled reference into an external platform
//   - Mode: which analysis pipeline answers a question (company or slack)
//
// # Identity
//
// Chat IDs come from NewChatID, which combines the high-resolution clock
// with a process-wide counter so IDs never collide within a process, even
// under rapid concurrent creation. Turn IDs are UUIDs; turn ordering within
// a chat is positional (newest first), never timestamp-derived.
package model
