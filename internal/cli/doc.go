// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the lens command-line interface: argument
// parsing, command handlers, terminal detection, and output styling.
//
// # Key Types
//
//   - Command: which top-level command was requested
//   - Args: parsed flags and operands shared by all handlers
//   - App: assembled controller stack (config, oracle, persistence)
//   - ChatCLI: liner-backed input with persistent history
//
// # Usage
//
//	cmd, args := cli.Parse()
//	switch cmd {
//	case cli.CmdAsk:
//		cli.HandleAsk(args)
//	case cli.CmdChat:
//		cli.HandleChat(args)
//	}
//
// Handlers print user-facing errors to stderr and exit with a code from
// errors.go; the library-style Handle*Command variants return the error
// instead for callers that manage exit themselves.
package cli
