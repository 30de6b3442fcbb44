// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// update.go - Bubble Tea update loop for the chat view.
package chat

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/lens-tui/internal/model"
)

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case AnswerMsg:
		return m.handleAnswer(msg)

	case ChannelClosedMsg:
		m.state = StateReady
		m.pendingQuestion = ""
		m.refreshViewport()
		return m, nil

	case DismissErrorMsg:
		m.lastErr = nil
		return m, nil

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

// handleResize recomputes component dimensions.
func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height

	contentHeight := m.height - headerHeight - inputHeight - statusHeight
	if contentHeight < 1 {
		contentHeight = 1
	}
	contentWidth := m.width - m.sidebarWidth()
	if contentWidth < 20 {
		contentWidth = 20
	}

	if !m.ready {
		m.viewport = viewport.New(contentWidth, contentHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = contentHeight
	}
	m.input.Width = m.width - 6

	m.refreshViewport()
	return m
}

// handleKey dispatches keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		return m.submitQuestion()

	case key.Matches(msg, m.keyMap.NewChat):
		m.ctrl.NewChat("")
		m.lastErr = nil
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keyMap.NextChat):
		m.cycleChat(1)
		return m, nil

	case key.Matches(msg, m.keyMap.PrevChat):
		m.cycleChat(-1)
		return m, nil

	case key.Matches(msg, m.keyMap.DeleteChat):
		if id := m.ctrl.ActiveID(); id != "" {
			if err := m.ctrl.DeleteChat(id); err != nil {
				m.lastErr = err
			}
			m.refreshViewport()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.ToggleMode):
		if m.mode == model.ModeSlack {
			m.mode = model.ModeCompany
		} else {
			m.mode = model.ModeSlack
		}
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keyMap.ScrollUp):
		m.viewport.LineUp(1)
		return m, nil

	case key.Matches(msg, m.keyMap.ScrollDown):
		m.viewport.LineDown(1)
		return m, nil

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.ViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.ViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitQuestion hands the input line to the controller and starts the
// thinking spinner. Questions queue per chat, so submitting while one is
// pending is allowed.
func (m Model) submitQuestion() (tea.Model, tea.Cmd) {
	question := strings.TrimSpace(m.input.Value())
	if question == "" {
		return m, nil
	}

	results, err := m.ctrl.Submit(context.Background(), question, m.mode)
	if err != nil {
		m.lastErr = err
		return m, nil
	}

	m.input.Reset()
	m.lastErr = nil
	m.state = StateThinking
	m.pendingQuestion = question
	m.refreshViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(m.spinner.Tick, waitForAnswer(results))
}

// handleAnswer processes a settled exchange.
func (m Model) handleAnswer(msg AnswerMsg) (tea.Model, tea.Cmd) {
	m.state = StateReady
	m.pendingQuestion = ""

	switch {
	case msg.Result.Err != nil:
		m.lastErr = msg.Result.Err
	case msg.Result.Turn == nil:
		// Chat deleted while the answer was pending; nothing to show.
	default:
		m.lastErr = nil
	}

	m.refreshViewport()
	m.viewport.GotoBottom()
	return m, nil
}

// cycleChat moves the active pointer through the chat list.
func (m *Model) cycleChat(step int) {
	chats := m.ctrl.Chats()
	if len(chats) < 2 {
		return
	}

	active := m.ctrl.ActiveID()
	idx := 0
	for i, chat := range chats {
		if chat.ID == active {
			idx = i
			break
		}
	}

	next := (idx + step + len(chats)) % len(chats)
	if err := m.ctrl.SelectChat(chats[next].ID); err != nil {
		m.lastErr = err
		return
	}
	m.refreshViewport()
}
