// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chats and turns.
package model

import (
	"strconv"
	"sync/atomic"
	"time"
)

// chatIDCounter disambiguates chat IDs created within the same clock tick.
// It is never reset, so IDs are collision-free for the process lifetime.
var chatIDCounter atomic.Uint64

// NewChatID allocates a fresh chat ID from the high-resolution clock plus a
// process-wide counter. IDs created later sort after IDs created earlier
// within one process, and rapid concurrent creation cannot collide.
func NewChatID() string {
	n := chatIDCounter.Add(1)
	return "chat_" + strconv.FormatInt(time.Now().UnixNano(), 36) + "_" + strconv.FormatUint(n, 36)
}
