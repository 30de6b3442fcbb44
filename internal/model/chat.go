// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chats and turns.
package model

import (
	"strings"
	"time"
)

// =============================================================================
// TITLE DERIVATION
// =============================================================================

const (
	// TitleMaxRunes is the maximum chat title length before truncation.
	TitleMaxRunes = 50

	// DefaultTitle is used for chats created without a seed question.
	DefaultTitle = "New chat"
)

// DeriveTitle builds a chat title from its seed question: the first
// TitleMaxRunes characters plus "..." when the seed is longer, or the
// seed unchanged otherwise. An empty seed yields DefaultTitle.
func DeriveTitle(seed string) string {
	seed = strings.Join(strings.Fields(seed), " ")
	if seed == "" {
		return DefaultTitle
	}
	runes := []rune(seed)
	if len(runes) <= TitleMaxRunes {
		return seed
	}
	return string(runes[:TitleMaxRunes]) + "..."
}

// =============================================================================
// CHAT TYPE
// =============================================================================

// Chat is a named session of question/answer turns, the unit of
// persistence and navigation.
type Chat struct {
	// Identity
	ID    string `json:"id"`
	Title string `json:"title"`

	// Turns, newest first. Ordering is strictly by insertion and does not
	// depend on the per-turn timestamps.
	Turns []*Turn `json:"turns"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewChat creates a chat with a fresh ID and a title derived from the
// seed question (DefaultTitle if the seed is empty).
func NewChat(seed string) *Chat {
	now := time.Now()
	return &Chat{
		ID:        NewChatID(),
		Title:     DeriveTitle(seed),
		Turns:     make([]*Turn, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Prepend inserts a turn at the front (newest first) and bumps UpdatedAt.
func (c *Chat) Prepend(turn *Turn) {
	c.Turns = append([]*Turn{turn}, c.Turns...)
	c.UpdatedAt = time.Now()
}

// ClearTurns empties the chat, keeping its identity and title.
// UpdatedAt is bumped so the chat surfaces in recency ordering.
func (c *Chat) ClearTurns() {
	c.Turns = c.Turns[:0]
	c.UpdatedAt = time.Now()
}

// TurnCount returns the number of turns in the chat.
func (c *Chat) TurnCount() int {
	return len(c.Turns)
}

// IsEmpty reports whether the chat has no turns.
func (c *Chat) IsEmpty() bool {
	return len(c.Turns) == 0
}

// Clone returns an independent copy of the chat. Turns are immutable once
// created, so the copy shares the turn pointers but not the slice.
func (c *Chat) Clone() *Chat {
	clone := *c
	clone.Turns = append([]*Turn(nil), c.Turns...)
	return &clone
}
