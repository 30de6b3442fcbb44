// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history derives read-only views over chat collections.
package history

import (
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/lens-tui/internal/util"
)

// =============================================================================
// PLAIN-TEXT RENDERING
// =============================================================================

// RenderChatTable formats chat summaries as an aligned text table for
// terminal output. Column widths adapt to content, measured in display
// cells so wide characters line up.
func RenderChatTable(summaries []ChatSummary, now time.Time) string {
	if len(summaries) == 0 {
		return "No chats yet.\n"
	}

	headers := []string{"TITLE", "TURNS", "UPDATED", "ID"}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Title,
			util.IntToString(s.TurnCount),
			FormatRelative(s.UpdatedAt, now),
			s.ID,
		})
	}
	return renderTable(headers, rows)
}

// RenderQuestionGroups formats recent-question groups as indented text,
// one block per chat.
func RenderQuestionGroups(groups []QuestionGroup, now time.Time) string {
	if len(groups) == 0 {
		return "No questions asked yet.\n"
	}

	var sb strings.Builder
	for i, group := range groups {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(group.ChatTitle)
		sb.WriteString("  (")
		sb.WriteString(FormatRelative(group.AskedAt, now))
		sb.WriteString(")\n")
		for _, q := range group.Questions {
			sb.WriteString("  - ")
			sb.WriteString(q.Question)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// renderTable lays out rows beneath headers with two-space gutters.
func renderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				sb.WriteString("  ")
			}
			if i == len(cells)-1 {
				sb.WriteString(cell)
			} else {
				sb.WriteString(runewidth.FillRight(cell, widths[i]))
			}
		}
		sb.WriteString("\n")
	}
	writeRow(headers)
	for _, row := range rows {
		writeRow(row)
	}
	return sb.String()
}
