// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store owns the authoritative collection of chats.
package store

import (
	"encoding/json"

	"github.com/jeranaias/lens-tui/internal/model"
)

// SnapshotVersion tracks the serialized snapshot format for migrations.
const SnapshotVersion = 1

// snapshot is the serialized form of a Store. Chats are stored in display
// order so the round-trip preserves ordering exactly.
type snapshot struct {
	Version      int           `json:"version"`
	ActiveChatID string        `json:"active_chat_id,omitempty"`
	Chats        []*model.Chat `json:"chats"`
}

// Snapshot serializes the full store: ids, titles, timestamps, turns with
// links, display order, and the active pointer.
func (s *Store) Snapshot() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := snapshot{
		Version:      SnapshotVersion,
		ActiveChatID: s.active,
		Chats:        make([]*model.Chat, 0, len(s.order)),
	}
	for _, id := range s.order {
		snap.Chats = append(snap.Chats, s.chats[id])
	}
	return json.MarshalIndent(snap, "", "  ")
}

// Restore rebuilds a store from a snapshot. Absent or malformed data yields
// an empty store rather than an error: losing a corrupt history is
// preferable to refusing to start. A persisted active pointer that no
// longer names a present chat is discarded.
func Restore(data []byte) *Store {
	st := New()
	if len(data) == 0 {
		return st
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return st
	}

	for _, chat := range snap.Chats {
		if chat == nil || chat.ID == "" {
			continue
		}
		if _, dup := st.chats[chat.ID]; dup {
			continue
		}
		if chat.Turns == nil {
			chat.Turns = make([]*model.Turn, 0)
		}
		st.chats[chat.ID] = chat
		st.order = append(st.order, chat.ID)
	}

	if _, ok := st.chats[snap.ActiveChatID]; ok {
		st.active = snap.ActiveChatID
	}
	return st
}
