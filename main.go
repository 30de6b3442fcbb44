// lens TUI - Customer insight Q&A for the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jeranaias/lens-tui/internal/cli"
	"github.com/jeranaias/lens-tui/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdAsk:
		cli.HandleAsk(args)
	case cli.CmdChat:
		cli.HandleChat(args)
	case cli.CmdSessions:
		cli.HandleSessions(args)
	case cli.CmdHistory:
		cli.HandleHistory(args)
	case cli.CmdSearch:
		cli.HandleSearch(args)
	case cli.CmdConfig:
		cli.HandleConfig(args)
	case cli.CmdVersion:
		cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.HandleHelp()
	default:
		cli.PrintUsage()
		os.Exit(cli.ExitUsageError)
	}
}

// runTUI assembles the controller stack and starts the full-screen view.
func runTUI(args cli.Args) {
	if err := cli.RequiresTTY("run the TUI"); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Hint: use 'lens ask \"question\"' for non-interactive output")
		os.Exit(cli.ExitUsageError)
	}

	app, err := cli.NewApp(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}

	// Keep the search index current while the TUI runs: the snapshot
	// watcher folds in chat writes from this and other lens processes.
	if idx, err := app.OpenWatchedIndex(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: search index unavailable: %v\n", err)
	} else if idx != nil {
		defer idx.Close()
	}

	if err := chat.Run(app.Controller, app.Config, app.Mode); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitGeneralError)
	}

	// Answers still in flight are committed or dropped before exit.
	app.Controller.Wait()
}
