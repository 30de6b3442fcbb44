// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history projects chat collections into the read-only views the
// CLI and TUI render: the chat list, grouped recent questions, and
// relative timestamps. Everything here is a pure function over cloned
// chats; nothing mutates the store.
//
// # Key Types
//
//   - ChatSummary: one row of the chat listing
//   - QuestionGroup: a chat's asked questions, newest group first
//
// # Usage
//
//	summaries := history.Chats(ctrl.Chats())
//	fmt.Print(history.RenderChatTable(summaries, time.Now()))
package history
