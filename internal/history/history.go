// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history derives read-only views over chat collections.
package history

import (
	"sort"
	"time"

	"github.com/jeranaias/lens-tui/internal/model"
	"github.com/jeranaias/lens-tui/internal/util"
)

// QuestionPreviewRunes caps how much of a question appears in history
// listings.
const QuestionPreviewRunes = 60

// =============================================================================
// CHAT SUMMARIES
// =============================================================================

// ChatSummary is the listing row for one chat.
type ChatSummary struct {
	ID        string
	Title     string
	TurnCount int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Chats projects the given chats into summaries ordered most recently
// updated first. Ties fall back to creation time, newest first, and then
// to ID so the order is stable across runs.
func Chats(chats []*model.Chat) []ChatSummary {
	summaries := make([]ChatSummary, 0, len(chats))
	for _, chat := range chats {
		summaries = append(summaries, ChatSummary{
			ID:        chat.ID,
			Title:     chat.Title,
			TurnCount: chat.TurnCount(),
			CreatedAt: chat.CreatedAt,
			UpdatedAt: chat.UpdatedAt,
		})
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return summaries
}

// =============================================================================
// RECENT QUESTIONS
// =============================================================================

// QuestionEntry is one asked question in a history group.
type QuestionEntry struct {
	TurnID   string
	Question string
	AskedAt  time.Time
}

// QuestionGroup collects a chat's questions under its title. AskedAt is
// the timestamp of the group's most recent question.
type QuestionGroup struct {
	ChatID    string
	ChatTitle string
	AskedAt   time.Time
	Questions []QuestionEntry
}

// RecentQuestions groups every asked question by chat, newest group first.
// Question previews are truncated to QuestionPreviewRunes. A limit of zero
// or less returns every group; otherwise at most limit groups are returned.
// Chats with no turns produce no group.
func RecentQuestions(chats []*model.Chat, limit int) []QuestionGroup {
	groups := make([]QuestionGroup, 0, len(chats))
	for _, chat := range chats {
		if chat.IsEmpty() {
			continue
		}
		group := QuestionGroup{
			ChatID:    chat.ID,
			ChatTitle: chat.Title,
			Questions: make([]QuestionEntry, 0, len(chat.Turns)),
		}
		for _, turn := range chat.Turns {
			if turn.Timestamp.After(group.AskedAt) {
				group.AskedAt = turn.Timestamp
			}
			group.Questions = append(group.Questions, QuestionEntry{
				TurnID:   turn.ID,
				Question: util.TruncateRunes(turn.Question, QuestionPreviewRunes),
				AskedAt:  turn.Timestamp,
			})
		}
		groups = append(groups, group)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if !groups[i].AskedAt.Equal(groups[j].AskedAt) {
			return groups[i].AskedAt.After(groups[j].AskedAt)
		}
		return groups[i].ChatID < groups[j].ChatID
	})
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}
	return groups
}

// =============================================================================
// RELATIVE TIME
// =============================================================================

// FormatRelative renders a timestamp the way the chat list shows it:
// "Just now" under a minute, minutes and hours within a day, "Yesterday"
// within two days, day counts within a week, and a plain date beyond that.
func FormatRelative(t, now time.Time) string {
	elapsed := now.Sub(t)
	switch {
	case elapsed < time.Minute:
		return "Just now"
	case elapsed < time.Hour:
		return util.Int64ToString(int64(elapsed/time.Minute)) + "m ago"
	case elapsed < 24*time.Hour:
		return util.Int64ToString(int64(elapsed/time.Hour)) + "h ago"
	case elapsed < 48*time.Hour:
		return "Yesterday"
	case elapsed < 7*24*time.Hour:
		return util.Int64ToString(int64(elapsed/(24*time.Hour))) + "d ago"
	default:
		return t.Format("Jan 2, 2006")
	}
}
