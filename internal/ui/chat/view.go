// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// view.go - Rendering for the chat view: header, sidebar, conversation,
// input line, and status bar.
package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/lens-tui/internal/history"
	"github.com/jeranaias/lens-tui/internal/model"
	"github.com/jeranaias/lens-tui/internal/oracle"
	"github.com/jeranaias/lens-tui/internal/util"
)

// Fixed row counts for the chrome around the viewport.
const (
	headerHeight = 2
	inputHeight  = 3
	statusHeight = 1

	sidebarMinTermWidth = 90
	sidebarCols         = 26
)

// sidebarWidth returns the sidebar width, zero on narrow terminals.
func (m Model) sidebarWidth() int {
	if m.width < sidebarMinTermWidth {
		return 0
	}
	return sidebarCols
}

// View renders the full chat screen.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	body := m.viewport.View()
	if w := m.sidebarWidth(); w > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), body)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderInput(),
		m.renderStatus(),
	)
}

// =============================================================================
// CHROME
// =============================================================================

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("lens")

	chatLabel := "no chat"
	if active := m.ctrl.ActiveChat(); active != nil {
		chatLabel = fmt.Sprintf("%s (%d turns)", active.Title, active.TurnCount())
	}

	meta := m.theme.HeaderMeta.Render(chatLabel)
	return m.theme.Header.Width(m.width).Render(title + "  " + meta)
}

func (m Model) renderInput() string {
	prompt := m.theme.InputPrompt.Render("> ")
	return m.theme.InputContainer.Width(m.width).Render(prompt + m.input.View())
}

func (m Model) renderStatus() string {
	modeLabel := m.theme.ModeCompany.Render("COMPANY")
	if m.mode == model.ModeSlack {
		modeLabel = m.theme.ModeSlack.Render("SLACK")
	}

	parts := []string{
		modeLabel,
		m.theme.HelpText.Render(util.IntToString(m.ctrl.Len()) + " chats"),
	}

	if m.state == StateThinking {
		parts = append(parts, m.spinner.View()+m.theme.Thinking.Render("thinking"))
	}
	if m.lastErr != nil {
		parts = append(parts, m.theme.ErrorText.Render(m.lastErr.Error()))
	}

	parts = append(parts, m.theme.HelpText.Render("C-n new | Tab switch | C-s mode | C-h help | C-c quit"))
	return m.theme.StatusBar.Width(m.width).Render(strings.Join(parts, "  "))
}

// =============================================================================
// SIDEBAR
// =============================================================================

// renderSidebar lists chats by recency with the active one highlighted.
func (m Model) renderSidebar() string {
	var b strings.Builder
	b.WriteString(m.theme.SidebarTitle.Render("Chats"))
	b.WriteString("\n\n")

	active := m.ctrl.ActiveID()
	summaries := history.Chats(m.ctrl.Chats())
	if len(summaries) == 0 {
		b.WriteString(m.theme.ChatItem.Render("(none yet)"))
	}

	for _, summary := range summaries {
		title := util.TruncateRunes(summary.Title, sidebarCols-4)
		if summary.ID == active {
			b.WriteString(m.theme.ChatItemFocus.Render("> " + title))
		} else {
			b.WriteString(m.theme.ChatItem.Render("  " + title))
		}
		b.WriteString("\n")
	}

	return m.theme.Sidebar.
		Width(sidebarCols).
		Height(m.viewport.Height).
		Render(b.String())
}

// =============================================================================
// CONVERSATION
// =============================================================================

// refreshViewport re-renders the active conversation into the viewport.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderConversation())
}

// renderConversation renders the active chat's turns oldest-first, the
// pending question last, or suggestions when there is nothing to show.
func (m Model) renderConversation() string {
	width := m.viewport.Width - 2
	if width < 10 {
		width = 10
	}

	active := m.ctrl.ActiveChat()
	if (active == nil || active.IsEmpty()) && m.pendingQuestion == "" {
		return m.renderSuggestions()
	}

	var b strings.Builder
	now := time.Now()

	if active != nil {
		// Turns are stored newest-first; display reads top-down.
		turns := active.Turns
		for i := len(turns) - 1; i >= 0; i-- {
			m.renderTurn(&b, turns[i], width, now)
		}
	}

	if m.pendingQuestion != "" {
		b.WriteString(m.theme.Question.Render("You: " + m.pendingQuestion))
		b.WriteString("\n")
		b.WriteString(m.theme.Thinking.Render("Thinking..."))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderTurn(b *strings.Builder, turn *model.Turn, width int, now time.Time) {
	b.WriteString(m.theme.Question.Render("You: " + turn.Question))
	b.WriteString("  ")
	b.WriteString(m.theme.Timestamp.Render(history.FormatRelative(turn.Timestamp, now)))
	b.WriteString("\n")

	b.WriteString(m.theme.Answer.Width(width).Render(turn.Answer))
	b.WriteString("\n")

	for _, link := range turn.Links {
		b.WriteString("  ")
		b.WriteString(m.theme.LinkLabel.Render("[" + link.Platform + "] " + link.Label))
		b.WriteString(" ")
		b.WriteString(m.theme.Link.Render(link.URL))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

// renderSuggestions shows common questions for the current mode.
func (m Model) renderSuggestions() string {
	var b strings.Builder
	b.WriteString(m.theme.Suggestion.Render("Ask anything about your customers. Common questions:"))
	b.WriteString("\n\n")

	if m.cfg.UI.ShowSuggestions {
		for _, q := range oracle.CommonQuestions(m.mode) {
			b.WriteString(m.theme.Suggestion.Render("  - " + q))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// =============================================================================
// HELP OVERLAY
// =============================================================================

func (m Model) renderHelp() string {
	rows := []struct {
		keys string
		desc string
	}{
		{"Enter", "ask the typed question"},
		{"Ctrl+N", "start a new chat"},
		{"Tab / Shift+Tab", "switch between chats"},
		{"Ctrl+X", "delete the active chat"},
		{"Ctrl+S", "toggle company / Slack mode"},
		{"Up / Down / PgUp / PgDn", "scroll the conversation"},
		{"Ctrl+H", "close this help"},
		{"Ctrl+C", "quit"},
	}

	var b strings.Builder
	b.WriteString(m.theme.HeaderTitle.Render("lens keyboard shortcuts"))
	b.WriteString("\n\n")
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("  %-26s %s\n",
			m.theme.ChatItemFocus.Render(row.keys),
			m.theme.HelpText.Render(row.desc)))
	}
	b.WriteString("\n")
	b.WriteString(m.theme.HelpText.Render("Press Ctrl+H to return."))
	return b.String()
}
