// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the lens TUI.
package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/lens-tui/internal/config"
	"github.com/jeranaias/lens-tui/internal/controller"
	"github.com/jeranaias/lens-tui/internal/model"
	"github.com/jeranaias/lens-tui/internal/ui/styles"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// State represents the current state of the chat view.
type State int

const (
	StateReady    State = iota // Ready for input
	StateThinking              // Waiting for an answer
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// State
	state State

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int
	ready  bool

	// Domain
	ctrl *controller.Controller
	cfg  *config.Config
	mode model.Mode

	// The question currently awaiting an answer, shown inline until the
	// controller settles the exchange.
	pendingQuestion string

	// UI Components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	// Key bindings
	keyMap KeyMap

	// Error state
	lastErr error

	// Help overlay
	showHelp bool
}

// New creates the chat view model.
func New(ctrl *controller.Controller, cfg *config.Config, mode model.Mode) Model {
	input := textinput.New()
	input.Placeholder = "Ask about a customer..."
	input.Prompt = ""
	input.CharLimit = 500
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Amber)

	return Model{
		state:   StateReady,
		theme:   styles.NewTheme(),
		ctrl:    ctrl,
		cfg:     cfg,
		mode:    mode,
		input:   input,
		spinner: sp,
		keyMap:  DefaultKeyMap(),
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Run starts the TUI program over an assembled controller.
func Run(ctrl *controller.Controller, cfg *config.Config, mode model.Mode) error {
	program := tea.NewProgram(New(ctrl, cfg, mode), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// waitForAnswer blocks on a controller result channel and converts the
// settled exchange into a Bubble Tea message.
func waitForAnswer(results <-chan controller.Result) tea.Cmd {
	return func() tea.Msg {
		result, ok := <-results
		if !ok {
			return ChannelClosedMsg{}
		}
		return AnswerMsg{Result: result}
	}
}
