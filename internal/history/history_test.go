// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/lens-tui/internal/model"
)

var base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func chatAt(id, title string, created, updated time.Time, questions ...string) *model.Chat {
	chat := &model.Chat{
		ID:        id,
		Title:     title,
		CreatedAt: created,
		UpdatedAt: updated,
	}
	// Newest first, spaced a minute apart ending at updated.
	for i, q := range questions {
		chat.Turns = append(chat.Turns, &model.Turn{
			ID:        id + "-t" + string(rune('a'+i)),
			Question:  q,
			Answer:    "answer",
			Timestamp: updated.Add(-time.Duration(i) * time.Minute),
		})
	}
	return chat
}

// =============================================================================
// CHAT SUMMARY TESTS
// =============================================================================

func TestChats_OrderedByUpdatedDesc(t *testing.T) {
	chats := []*model.Chat{
		chatAt("c1", "oldest", base.Add(-3*time.Hour), base.Add(-3*time.Hour)),
		chatAt("c2", "newest", base.Add(-2*time.Hour), base),
		chatAt("c3", "middle", base.Add(-1*time.Hour), base.Add(-time.Hour)),
	}

	summaries := Chats(chats)
	if len(summaries) != 3 {
		t.Fatalf("Expected 3 summaries, got %d", len(summaries))
	}
	got := []string{summaries[0].ID, summaries[1].ID, summaries[2].ID}
	want := []string{"c2", "c3", "c1"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Position %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestChats_TieBreaksOnCreatedThenID(t *testing.T) {
	chats := []*model.Chat{
		chatAt("b", "same", base.Add(-time.Hour), base),
		chatAt("a", "same", base.Add(-time.Hour), base),
		chatAt("c", "same", base.Add(-2*time.Hour), base),
	}

	summaries := Chats(chats)
	// Equal UpdatedAt: newer CreatedAt wins, then lexical ID.
	got := []string{summaries[0].ID, summaries[1].ID, summaries[2].ID}
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Position %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestChats_CountsTurns(t *testing.T) {
	chats := []*model.Chat{chatAt("c1", "t", base, base, "q1", "q2", "q3")}
	summaries := Chats(chats)
	if summaries[0].TurnCount != 3 {
		t.Errorf("TurnCount = %d, want 3", summaries[0].TurnCount)
	}
}

// =============================================================================
// RECENT QUESTION TESTS
// =============================================================================

func TestRecentQuestions_GroupsByChat(t *testing.T) {
	chats := []*model.Chat{
		chatAt("c1", "older chat", base.Add(-2*time.Hour), base.Add(-2*time.Hour), "q1", "q2"),
		chatAt("c2", "newer chat", base.Add(-time.Hour), base, "q3"),
		chatAt("c3", "empty chat", base, base),
	}

	groups := RecentQuestions(chats, 0)
	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups (empty chat skipped), got %d", len(groups))
	}
	if groups[0].ChatID != "c2" {
		t.Errorf("First group = %s, want c2 (most recent question)", groups[0].ChatID)
	}
	if len(groups[1].Questions) != 2 {
		t.Errorf("c1 group has %d questions, want 2", len(groups[1].Questions))
	}
	if !groups[0].AskedAt.Equal(base) {
		t.Errorf("Group AskedAt = %v, want latest question time %v", groups[0].AskedAt, base)
	}
}

func TestRecentQuestions_Limit(t *testing.T) {
	chats := []*model.Chat{
		chatAt("c1", "a", base, base.Add(-2*time.Hour), "q"),
		chatAt("c2", "b", base, base.Add(-time.Hour), "q"),
		chatAt("c3", "c", base, base, "q"),
	}

	groups := RecentQuestions(chats, 2)
	if len(groups) != 2 {
		t.Fatalf("Expected limit of 2 groups, got %d", len(groups))
	}
	if groups[0].ChatID != "c3" || groups[1].ChatID != "c2" {
		t.Errorf("Got %s, %s; want c3, c2", groups[0].ChatID, groups[1].ChatID)
	}
}

func TestRecentQuestions_TruncatesPreviews(t *testing.T) {
	long := strings.Repeat("x", 100)
	chats := []*model.Chat{chatAt("c1", "t", base, base, long)}

	groups := RecentQuestions(chats, 0)
	preview := groups[0].Questions[0].Question
	if !strings.HasSuffix(preview, "...") {
		t.Errorf("Expected ellipsis suffix, got %q", preview)
	}
	if n := len([]rune(preview)); n > QuestionPreviewRunes {
		t.Errorf("Preview is %d runes, want <= %d", n, QuestionPreviewRunes)
	}
}

// =============================================================================
// RELATIVE TIME TESTS
// =============================================================================

func TestFormatRelative(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		want    string
	}{
		{"just now", 30 * time.Second, "Just now"},
		{"minutes", 5 * time.Minute, "5m ago"},
		{"hours", 3 * time.Hour, "3h ago"},
		{"yesterday", 30 * time.Hour, "Yesterday"},
		{"days", 3 * 24 * time.Hour, "3d ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatRelative(base.Add(-tt.elapsed), base)
			if got != tt.want {
				t.Errorf("FormatRelative(-%v) = %q, want %q", tt.elapsed, got, tt.want)
			}
		})
	}
}

func TestFormatRelative_AbsoluteBeyondWeek(t *testing.T) {
	got := FormatRelative(base.Add(-10*24*time.Hour), base)
	if got != "May 22, 2025" {
		t.Errorf("FormatRelative = %q, want May 22, 2025", got)
	}
}

// =============================================================================
// RENDERING TESTS
// =============================================================================

func TestRenderChatTable(t *testing.T) {
	chats := []*model.Chat{
		chatAt("c1", "frank's chat", base, base.Add(-5*time.Minute), "q"),
	}
	out := RenderChatTable(Chats(chats), base)

	if !strings.Contains(out, "TITLE") || !strings.Contains(out, "UPDATED") {
		t.Errorf("Missing headers in output:\n%s", out)
	}
	if !strings.Contains(out, "frank's chat") {
		t.Errorf("Missing chat title in output:\n%s", out)
	}
	if !strings.Contains(out, "5m ago") {
		t.Errorf("Missing relative time in output:\n%s", out)
	}
}

func TestRenderChatTable_Empty(t *testing.T) {
	out := RenderChatTable(nil, base)
	if !strings.Contains(out, "No chats yet") {
		t.Errorf("Unexpected empty output: %q", out)
	}
}

func TestRenderQuestionGroups(t *testing.T) {
	chats := []*model.Chat{chatAt("c1", "acme research", base, base, "What's the ARR?")}
	out := RenderQuestionGroups(RecentQuestions(chats, 0), base)

	if !strings.Contains(out, "acme research") {
		t.Errorf("Missing group title:\n%s", out)
	}
	if !strings.Contains(out, "- What's the ARR?") {
		t.Errorf("Missing question entry:\n%s", out)
	}
}
