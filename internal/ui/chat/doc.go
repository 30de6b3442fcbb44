// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the Bubble Tea chat view for the lens TUI.
//
// # Key Types
//
//   - Model: the Bubble Tea model wrapping a controller, viewport,
//     text input, and spinner
//   - KeyMap: keyboard bindings for chat navigation and submission
//   - AnswerMsg: a settled exchange delivered from the controller
//
// # Usage
//
//	err := chat.Run(ctrl, cfg, model.ModeCompany)
//
// The view submits questions through the controller and blocks on the
// returned result channel inside a tea.Cmd, so the update loop stays
// responsive while answers are pending. Questions submitted while one
// is in flight queue per chat in the controller.
package chat
