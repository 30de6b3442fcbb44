// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme holds the styled components for the application.
type Theme struct {
	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderMeta  lipgloss.Style

	// ==========================================================================
	// CONVERSATION STYLES
	// ==========================================================================

	Question   lipgloss.Style
	Answer     lipgloss.Style
	Link       lipgloss.Style
	LinkLabel  lipgloss.Style
	Timestamp  lipgloss.Style
	Suggestion lipgloss.Style
	Thinking   lipgloss.Style
	ErrorText  lipgloss.Style

	// ==========================================================================
	// SIDEBAR STYLES
	// ==========================================================================

	Sidebar       lipgloss.Style
	SidebarTitle  lipgloss.Style
	ChatItem      lipgloss.Style
	ChatItemFocus lipgloss.Style

	// ==========================================================================
	// INPUT AND STATUS STYLES
	// ==========================================================================

	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style
	StatusBar      lipgloss.Style
	ModeCompany    lipgloss.Style
	ModeSlack      lipgloss.Style
	HelpText       lipgloss.Style
}

// NewTheme builds the default theme.
func NewTheme() *Theme {
	return &Theme{
		Header: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(Overlay).
			Padding(0, 1),
		HeaderTitle: lipgloss.NewStyle().
			Foreground(Cyan).
			Bold(true),
		HeaderMeta: lipgloss.NewStyle().
			Foreground(TextMuted),

		Question: lipgloss.NewStyle().
			Foreground(TextPrimary).
			Bold(true),
		Answer: lipgloss.NewStyle().
			Foreground(TextPrimary),
		Link: lipgloss.NewStyle().
			Foreground(Blue).
			Underline(true),
		LinkLabel: lipgloss.NewStyle().
			Foreground(TextSecondary),
		Timestamp: lipgloss.NewStyle().
			Foreground(TextMuted),
		Suggestion: lipgloss.NewStyle().
			Foreground(TextSecondary),
		Thinking: lipgloss.NewStyle().
			Foreground(Amber),
		ErrorText: lipgloss.NewStyle().
			Foreground(Rose).
			Bold(true),

		Sidebar: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(Overlay).
			Padding(0, 1),
		SidebarTitle: lipgloss.NewStyle().
			Foreground(Purple).
			Bold(true),
		ChatItem: lipgloss.NewStyle().
			Foreground(TextSecondary),
		ChatItemFocus: lipgloss.NewStyle().
			Foreground(Cyan).
			Bold(true),

		InputContainer: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Overlay).
			Padding(0, 1),
		InputPrompt: lipgloss.NewStyle().
			Foreground(Cyan).
			Bold(true),
		StatusBar: lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1),
		ModeCompany: lipgloss.NewStyle().
			Foreground(Emerald).
			Bold(true),
		ModeSlack: lipgloss.NewStyle().
			Foreground(Amber).
			Bold(true),
		HelpText: lipgloss.NewStyle().
			Foreground(TextMuted),
	}
}
