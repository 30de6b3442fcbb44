// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the lens TUI.
//
// # Key Types
//
//   - Theme: all styled components used by the chat view
//
// Colors are defined as AdaptiveColor pairs so the same palette works on
// light and dark terminals. The chat view owns a single Theme instance
// and resizes styles from WindowSizeMsg events.
package styles
