// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// sessions.go - Chat session management commands: list, select, delete,
// and clear.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jeranaias/lens-tui/internal/export"
	"github.com/jeranaias/lens-tui/internal/history"
)

// HandleSessionsCommand dispatches the "sessions" subcommands.
func HandleSessionsCommand(args Args) error {
	app, err := NewApp(args)
	if err != nil {
		return err
	}

	switch args.Subcommand {
	case "", "list", "ls":
		return runSessionsList(app, args)
	case "select", "switch":
		return runSessionsSelect(app, args)
	case "delete", "rm":
		return runSessionsDelete(app, args)
	case "clear":
		return runSessionsClear(app, args)
	case "export":
		return runSessionsExport(app, args)
	default:
		return NewCommandError("sessions", "parse subcommand",
			fmt.Sprintf("unknown subcommand %q (try: list, select, delete, clear, export)", args.Subcommand), nil)
	}
}

func runSessionsList(app *App, args Args) error {
	summaries := history.Chats(app.Controller.Chats())

	if args.JSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(summaries)
	}

	fmt.Print(history.RenderChatTable(summaries, time.Now()))

	if active := app.Controller.ActiveID(); active != "" && !args.Quiet {
		fmt.Printf("\n%s %s\n", DimStyle.Render("Active:"), active)
	}
	return nil
}

func runSessionsSelect(app *App, args Args) error {
	if args.ChatID == "" {
		return ErrMissingArgument("chat ID", "lens sessions select CHAT_ID")
	}

	chat, err := app.findChat(args.ChatID)
	if err != nil {
		return err
	}
	if err := app.Controller.SelectChat(chat.ID); err != nil {
		return err
	}

	if !args.Quiet {
		fmt.Printf("%s Active chat is now %q (%s)\n",
			SuccessStyle.Render("[OK]"), chat.Title, chat.ID)
	}
	return nil
}

func runSessionsDelete(app *App, args Args) error {
	if args.ChatID == "" {
		return ErrMissingArgument("chat ID", "lens sessions delete CHAT_ID")
	}

	chat, err := app.findChat(args.ChatID)
	if err != nil {
		return err
	}
	if err := app.Controller.DeleteChat(chat.ID); err != nil {
		return err
	}

	if !args.Quiet {
		fmt.Printf("%s Deleted chat %q (%s)\n",
			SuccessStyle.Render("[OK]"), chat.Title, chat.ID)
		if active := app.Controller.ActiveID(); active != "" {
			fmt.Printf("%s %s\n", DimStyle.Render("Active:"), active)
		}
	}
	return nil
}

func runSessionsClear(app *App, args Args) error {
	id := args.ChatID
	if id == "" {
		id = app.Controller.ActiveID()
	}
	if id == "" {
		return ErrMissingArgument("chat ID", "lens sessions clear [CHAT_ID]")
	}

	chat, err := app.findChat(id)
	if err != nil {
		return err
	}
	if err := app.Controller.ClearChat(chat.ID); err != nil {
		return err
	}

	if !args.Quiet {
		fmt.Printf("%s Cleared chat %q\n", SuccessStyle.Render("[OK]"), chat.Title)
	}
	return nil
}

// runSessionsExport writes a chat transcript to the current directory,
// Markdown by default or JSON with --json.
func runSessionsExport(app *App, args Args) error {
	id := args.ChatID
	if id == "" {
		id = app.Controller.ActiveID()
	}
	if id == "" {
		return ErrMissingArgument("chat ID", "lens sessions export [CHAT_ID]")
	}

	chat, err := app.findChat(id)
	if err != nil {
		return err
	}

	opts := export.DefaultOptions()
	var path string
	if args.JSON {
		path, err = export.ExportJSON(chat, opts)
	} else {
		path, err = export.ExportMarkdown(chat, opts)
	}
	if err != nil {
		return NewCommandError("sessions", "export chat", err.Error(), err)
	}

	if args.Quiet {
		fmt.Println(path)
	} else {
		fmt.Printf("%s Exported %q to %s\n", SuccessStyle.Render("[OK]"), chat.Title, path)
	}
	return nil
}
