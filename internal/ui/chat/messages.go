// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the lens TUI.
//
// This file defines the Bubble Tea message types used by the chat view:
//   - Answer delivery: completed and dropped exchanges from the controller
//   - UI state: resize and error dismissal
package chat

import (
	"github.com/jeranaias/lens-tui/internal/controller"
)

// AnswerMsg delivers a settled exchange from the controller. The result
// carries either an applied turn or the reason it was dropped.
type AnswerMsg struct {
	Result controller.Result
}

// ChannelClosedMsg signals that a result channel closed without a value.
// Should not happen in practice; treated as a dropped exchange.
type ChannelClosedMsg struct{}

// DismissErrorMsg clears the error banner.
type DismissErrorMsg struct{}
