// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chats and turns.
package model

import (
	"strings"
	"sync"
	"testing"
	"time"
)

// =============================================================================
// TITLE DERIVATION TESTS
// =============================================================================

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name string
		seed string
		want string
	}{
		{"short seed unchanged", "What is ARR?", "What is ARR?"},
		{"empty seed", "", DefaultTitle},
		{"whitespace seed", "   \t\n", DefaultTitle},
		{"exactly 50 runes unchanged", strings.Repeat("a", 50), strings.Repeat("a", 50)},
		{"51 runes truncated", strings.Repeat("a", 51), strings.Repeat("a", 50) + "..."},
		{"newlines collapsed", "line one\nline two", "line one line two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveTitle(tt.seed); got != tt.want {
				t.Errorf("DeriveTitle(%q) = %q, want %q", tt.seed, got, tt.want)
			}
		})
	}
}

func TestDeriveTitle_LongSeed(t *testing.T) {
	seed := strings.Repeat("x", 80)
	got := DeriveTitle(seed)

	want := strings.Repeat("x", 50) + "..."
	if got != want {
		t.Errorf("DeriveTitle(80 chars) = %q, want first 50 + ellipsis", got)
	}

	short := "ten chars."
	if got := DeriveTitle(short); got != short {
		t.Errorf("DeriveTitle(%q) = %q, want unmodified", short, got)
	}
}

// =============================================================================
// CHAT TESTS
// =============================================================================

func TestNewChat(t *testing.T) {
	chat := NewChat("What's the health score for Acme Ltd?")

	if chat.ID == "" {
		t.Error("Expected non-empty chat ID")
	}
	if !strings.HasPrefix(chat.ID, "chat_") {
		t.Errorf("Chat ID should start with 'chat_', got %q", chat.ID)
	}
	if chat.Title != "What's the health score for Acme Ltd?" {
		t.Errorf("Title = %q, want seed question", chat.Title)
	}
	if chat.CreatedAt.IsZero() || chat.UpdatedAt.IsZero() {
		t.Error("Timestamps should be set")
	}
	if !chat.UpdatedAt.Equal(chat.CreatedAt) {
		t.Error("UpdatedAt should equal CreatedAt on creation")
	}
	if !chat.IsEmpty() {
		t.Error("New chat should be empty")
	}
}

func TestChat_Prepend(t *testing.T) {
	chat := NewChat("")
	created := chat.CreatedAt

	time.Sleep(2 * time.Millisecond)
	first := NewTurn("q1", "a1", nil)
	chat.Prepend(first)
	second := NewTurn("q2", "a2", nil)
	chat.Prepend(second)

	if chat.TurnCount() != 2 {
		t.Fatalf("TurnCount = %d, want 2", chat.TurnCount())
	}
	// Newest first.
	if chat.Turns[0].ID != second.ID {
		t.Error("Most recent turn should be first")
	}
	if chat.Turns[1].ID != first.ID {
		t.Error("Older turn should be second")
	}
	if !chat.UpdatedAt.After(created) {
		t.Error("Prepend should bump UpdatedAt past CreatedAt")
	}
}

func TestChat_ClearTurns(t *testing.T) {
	chat := NewChat("seed question")
	chat.Prepend(NewTurn("q", "a", nil))
	before := chat.UpdatedAt

	time.Sleep(2 * time.Millisecond)
	chat.ClearTurns()

	if !chat.IsEmpty() {
		t.Error("Chat should be empty after clear")
	}
	if chat.Title != "seed question" {
		t.Error("Clear should keep the title")
	}
	if !chat.UpdatedAt.After(before) {
		t.Error("Clear should bump UpdatedAt")
	}
}

func TestChat_Clone(t *testing.T) {
	chat := NewChat("original")
	chat.Prepend(NewTurn("q", "a", []Link{{Platform: "Planhat", Label: "Profile", URL: "https://planhat.example/acme"}}))

	clone := chat.Clone()
	clone.Prepend(NewTurn("q2", "a2", nil))

	if chat.TurnCount() != 1 {
		t.Error("Mutating the clone should not affect the original")
	}
	if clone.TurnCount() != 2 {
		t.Error("Clone should have the appended turn")
	}
}

// =============================================================================
// ID GENERATION TESTS
// =============================================================================

func TestNewChatID_UniqueUnderConcurrency(t *testing.T) {
	const goroutines = 16
	const perGoroutine = 200

	var mu sync.Mutex
	seen := make(map[string]bool, goroutines*perGoroutine)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]string, 0, perGoroutine)
			for j := 0; j < perGoroutine; j++ {
				local = append(local, NewChatID())
			}
			mu.Lock()
			defer mu.Unlock()
			for _, id := range local {
				if seen[id] {
					t.Errorf("Duplicate chat ID generated: %s", id)
				}
				seen[id] = true
			}
		}()
	}
	wg.Wait()

	if len(seen) != goroutines*perGoroutine {
		t.Errorf("Expected %d unique IDs, got %d", goroutines*perGoroutine, len(seen))
	}
}

// =============================================================================
// NORMALIZATION TESTS
// =============================================================================

func TestNormalizeQuestion(t *testing.T) {
	if got := NormalizeQuestion("  question  "); got != "question" {
		t.Errorf("NormalizeQuestion trim = %q, want %q", got, "question")
	}
	if got := NormalizeQuestion("   "); got != "" {
		t.Errorf("NormalizeQuestion(whitespace) = %q, want empty", got)
	}
	// NFKC folds the fullwidth form to ASCII.
	if got := NormalizeQuestion("ＡＲＲ"); got != "ARR" {
		t.Errorf("NormalizeQuestion(fullwidth) = %q, want %q", got, "ARR")
	}
}

// =============================================================================
// MODE TESTS
// =============================================================================

func TestMode_Valid(t *testing.T) {
	if !ModeCompany.Valid() || !ModeSlack.Valid() {
		t.Error("Known modes should be valid")
	}
	if Mode("email").Valid() {
		t.Error("Unknown mode should be invalid")
	}
}
