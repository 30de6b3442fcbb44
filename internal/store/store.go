// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store owns the authoritative collection of chats.
package store

import (
	"errors"
	"sync"

	"github.com/jeranaias/lens-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrChatNotFound is returned by any operation that references a chat ID no
// longer present. It is always a benign race outcome, never fatal: a chat
// can vanish between the caller reading an ID and acting on it.
var ErrChatNotFound = errors.New("chat not found")

// =============================================================================
// STORE
// =============================================================================

// Store is the keyed collection of chats plus the active-chat pointer.
//
// Invariants maintained by construction:
//   - the active pointer, when set, always names a chat present in the map
//   - display order holds exactly the chat IDs in the map, most recently
//     created-or-updated first
//   - every mutation is a single indivisible step under the mutex
//
// The Store never reassigns the active pointer on delete; that policy
// belongs to the controller. It only clears the pointer when the active
// chat itself is removed, so it can never dangle.
type Store struct {
	mu     sync.RWMutex
	chats  map[string]*model.Chat
	order  []string // display order, newest created-or-updated first
	active string   // "" when no chat is active
}

// New creates an empty store.
func New() *Store {
	return &Store{
		chats: make(map[string]*model.Chat),
		order: make([]string, 0),
	}
}

// =============================================================================
// MUTATIONS
// =============================================================================

// CreateChat allocates a chat with a title derived from the seed question
// (the default placeholder when seed is empty), inserts it at the front of
// the display order, and returns its ID. Existing chats are never touched.
func (s *Store) CreateChat(seed string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat := model.NewChat(seed)
	s.chats[chat.ID] = chat
	s.order = append([]string{chat.ID}, s.order...)
	return chat.ID
}

// AppendTurn prepends a completed turn to the chat and bumps its recency.
// If the chat no longer exists the turn is discarded and ErrChatNotFound is
// returned; the turn is never attached to a different chat.
func (s *Store) AppendTurn(chatID string, turn *model.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat, ok := s.chats[chatID]
	if !ok {
		return ErrChatNotFound
	}
	chat.Prepend(turn)
	s.moveToFront(chatID)
	return nil
}

// DeleteChat removes the chat. If it was active, the active pointer is
// cleared; the caller decides whether to select another chat.
func (s *Store) DeleteChat(chatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.chats[chatID]; !ok {
		return ErrChatNotFound
	}
	delete(s.chats, chatID)
	for i, id := range s.order {
		if id == chatID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.active == chatID {
		s.active = ""
	}
	return nil
}

// ClearChat empties the chat's turns, keeping its ID and title. The chat's
// UpdatedAt is bumped, moving it to the front of the display order.
func (s *Store) ClearChat(chatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat, ok := s.chats[chatID]
	if !ok {
		return ErrChatNotFound
	}
	chat.ClearTurns()
	s.moveToFront(chatID)
	return nil
}

// SetActive points the active-chat reference at the given chat, or clears
// it when chatID is empty. Selecting a missing chat returns ErrChatNotFound
// and leaves the prior selection in place.
func (s *Store) SetActive(chatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if chatID == "" {
		s.active = ""
		return nil
	}
	if _, ok := s.chats[chatID]; !ok {
		return ErrChatNotFound
	}
	s.active = chatID
	return nil
}

// moveToFront moves an existing chat ID to the front of the display order.
// Must be called with the lock held.
func (s *Store) moveToFront(chatID string) {
	for i, id := range s.order {
		if id == chatID {
			if i == 0 {
				return
			}
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.order = append([]string{chatID}, s.order...)
}

// =============================================================================
// ACCESSORS
// =============================================================================

// ActiveID returns the ID of the active chat, or "" if none.
func (s *Store) ActiveID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// ActiveChat returns a copy of the active chat, or nil if none.
func (s *Store) ActiveChat() *model.Chat {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.active == "" {
		return nil
	}
	return s.chats[s.active].Clone()
}

// Chat returns a copy of the chat with the given ID.
func (s *Store) Chat(chatID string) (*model.Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chat, ok := s.chats[chatID]
	if !ok {
		return nil, ErrChatNotFound
	}
	return chat.Clone(), nil
}

// Chats returns copies of all chats in display order (most recently
// created-or-updated first).
func (s *Store) Chats() []*model.Chat {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.Chat, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.chats[id].Clone())
	}
	return result
}

// Len returns the number of chats.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chats)
}
