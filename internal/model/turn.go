// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chats and turns.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// MODE TYPE
// =============================================================================

// Mode selects which analysis pipeline answers a question.
type Mode string

const (
	// ModeCompany answers questions from customer account data.
	ModeCompany Mode = "company"

	// ModeSlack summarizes team conversation threads.
	ModeSlack Mode = "slack"
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	return string(m)
}

// Valid reports whether the mode is one of the known modes.
func (m Mode) Valid() bool {
	return m == ModeCompany || m == ModeSlack
}

// =============================================================================
// LINK TYPE
// =============================================================================

// Link is a labeled reference into an external platform, attached to an
// answer (e.g. an account profile or a support ticket view).
type Link struct {
	Platform string `json:"platform"`
	Label    string `json:"label"`
	URL      string `json:"url"`
}

// =============================================================================
// TURN TYPE
// =============================================================================

// Turn is one completed question/answer exchange. A turn is immutable once
// created; an in-flight exchange is tracked by the controller and never
// stored as a half-filled turn.
type Turn struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Links     []Link    `json:"links,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTurn creates a completed turn from a question and its answer.
func NewTurn(question, answer string, links []Link) *Turn {
	return &Turn{
		ID:        uuid.New().String(),
		Question:  question,
		Answer:    answer,
		Links:     links,
		Timestamp: time.Now(),
	}
}

// =============================================================================
// QUESTION NORMALIZATION
// =============================================================================

// NormalizeQuestion trims surrounding whitespace and applies NFKC unicode
// normalization so lookalike characters compare and index consistently.
// Returns the empty string for whitespace-only input.
func NormalizeQuestion(s string) string {
	return norm.NFKC.String(strings.TrimSpace(s))
}
