// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat command handler for lens CLI.
//
// CLI: Comprehensive help and examples for all commands
// USABILITY: Markdown rendering and history for better CLI experience
//
// Handles the "lens chat" command which provides an interactive REPL
// for asking customer-insight questions against the active chat.
//
// Command: chat
// Short:   Start an interactive chat session
// Aliases: (none)
//
// Examples:
//   lens chat                 Start interactive chat (company mode)
//   lens chat --slack         Start in Slack summary mode
//   lens chat --simulate      Force local simulated answers
//
// Interactive Commands (during chat):
//   /help, /h           Show available commands
//   /new                Start a new chat
//   /list, /l           List all chats
//   /select ID          Switch to another chat
//   /delete [ID]        Delete a chat (active chat by default)
//   /clear, /c          Clear the active chat's turns
//   /history            Show recent questions across chats
//   /search QUERY       Full-text search across past answers
//   /slack              Toggle between company and Slack mode
//   /quit, /q           Exit chat
//   Ctrl+C              Abort the current prompt
//   Ctrl+D              Exit chat
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/jeranaias/lens-tui/internal/config"
	"github.com/jeranaias/lens-tui/internal/export"
	"github.com/jeranaias/lens-tui/internal/history"
	"github.com/jeranaias/lens-tui/internal/index"
	"github.com/jeranaias/lens-tui/internal/model"
	"github.com/jeranaias/lens-tui/internal/oracle"
	"github.com/jeranaias/lens-tui/internal/util"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
// USABILITY: Supports arrow keys for history navigation and line editing.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a new ChatCLI with input history support.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		// Fallback to temp directory if config dir unavailable
		configDir = os.TempDir()
	}
	historyFile := filepath.Join(configDir, "chat_history")

	cli := &ChatCLI{
		line:        line,
		historyFile: historyFile,
	}
	cli.LoadHistory()
	return cli
}

// LoadHistory loads command history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
// Supports history navigation with arrow keys.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists command history to file with secure permissions.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}

	// 0600 - owner read/write only
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// SESSION STATE
// =============================================================================

// ChatSession holds the state for an interactive chat session.
type ChatSession struct {
	App   *App
	Mode  model.Mode
	Quiet bool

	// Tracking
	StartTime      time.Time
	QuestionsAsked int

	// Input history handler
	// USABILITY: Provides readline-like input with history
	InputCLI *ChatCLI

	// Index stays open for the whole session. Its snapshot watcher
	// folds in chat writes from other lens processes, including this
	// session's own persisted answers, so /search sees them.
	Index *index.TurnIndex
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChatCommand handles the "chat" command with full interactive support.
func HandleChatCommand(args Args) error {
	if err := RequiresTTY("chat"); err != nil {
		return err
	}

	app, err := NewApp(args)
	if err != nil {
		return err
	}
	defer app.Controller.Wait()

	session := &ChatSession{
		App:       app,
		Mode:      app.Mode,
		Quiet:     args.Quiet,
		StartTime: time.Now(),
		InputCLI:  NewChatCLI(),
	}

	idx, err := app.OpenWatchedIndex(context.Background())
	if err != nil {
		// Search degrades; the chat itself still works.
		fmt.Fprintf(os.Stderr, "%s search index unavailable: %v\n",
			WarningStyle.Render("[Warning]"), err)
	} else if idx != nil {
		session.Index = idx
		defer idx.Close()
	}

	if !session.Quiet {
		printWelcome(session)
	}

	// Ensure input history is saved on exit
	defer session.InputCLI.Close()

	// Main REPL loop using liner for input history
	// USABILITY: Provides readline-like line editing and history navigation
	for {
		input, err := session.InputCLI.ReadInput(PromptStyle.Render("lens> "))
		if err != nil {
			// liner.ErrPromptAborted (Ctrl+C), EOF (Ctrl+D), or other
			// error - exit gracefully either way
			fmt.Println()
			printExitSummary(session)
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			shouldContinue, err := handleSlashCommand(input, session)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("[Error]"), err)
			}
			if !shouldContinue {
				printExitSummary(session)
				return nil
			}
			continue
		}

		// Handle exit/quit without slash
		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			printExitSummary(session)
			return nil
		}

		if err := processQuestion(session, input); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("[Error]"), err)
		}
	}
}

// =============================================================================
// QUESTION PROCESSING
// =============================================================================

// processQuestion submits a question to the controller and renders the
// answer once it arrives.
func processQuestion(session *ChatSession, input string) error {
	start := time.Now()

	results, err := session.App.Controller.Submit(context.Background(), input, session.Mode)
	if err != nil {
		return err
	}

	if !session.Quiet {
		fmt.Println(DimStyle.Render("Thinking..."))
	}

	result := <-results
	if result.Err != nil {
		return result.Err
	}
	if result.Turn == nil {
		fmt.Println(WarningStyle.Render("[The chat was deleted before the answer arrived]"))
		return nil
	}

	fmt.Println()
	printAnswer(result.Turn, session.Quiet)
	fmt.Println()

	session.QuestionsAsked++

	if !session.Quiet {
		fmt.Fprintf(os.Stderr, "%s %s\n",
			DimStyle.Render("[Answered in]"),
			time.Since(start).Round(time.Millisecond))
	}
	return nil
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleSlashCommand processes slash commands.
// Returns (shouldContinue, error) where shouldContinue=false means exit.
func handleSlashCommand(cmd string, session *ChatSession) (bool, error) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return true, nil
	}

	command := strings.ToLower(parts[0])
	rest := parts[1:]

	switch command {
	case "/help", "/h", "/?", "/":
		printChatHelp()
		return true, nil

	case "/new", "/n":
		id := session.App.Controller.NewChat("")
		fmt.Printf("%s Started new chat: %s\n", SuccessStyle.Render("[OK]"), id)
		printSuggestions(session)
		return true, nil

	case "/list", "/l":
		fmt.Print(history.RenderChatTable(history.Chats(session.App.Controller.Chats()), time.Now()))
		return true, nil

	case "/select":
		if len(rest) == 0 {
			return true, fmt.Errorf("usage: /select CHAT_ID")
		}
		chat, err := session.App.findChat(rest[0])
		if err != nil {
			return true, err
		}
		if err := session.App.Controller.SelectChat(chat.ID); err != nil {
			return true, err
		}
		fmt.Printf("%s Switched to %q\n", SuccessStyle.Render("[OK]"), chat.Title)
		return true, nil

	case "/delete", "/d":
		id := session.App.Controller.ActiveID()
		if len(rest) > 0 {
			chat, err := session.App.findChat(rest[0])
			if err != nil {
				return true, err
			}
			id = chat.ID
		}
		if id == "" {
			return true, fmt.Errorf("no chat to delete")
		}
		if err := session.App.Controller.DeleteChat(id); err != nil {
			return true, err
		}
		fmt.Printf("%s Deleted chat %s\n", SuccessStyle.Render("[OK]"), id)
		return true, nil

	case "/clear", "/c":
		id := session.App.Controller.ActiveID()
		if id == "" {
			return true, fmt.Errorf("no active chat")
		}
		if err := session.App.Controller.ClearChat(id); err != nil {
			return true, err
		}
		fmt.Println(SuccessStyle.Render("[Chat cleared]"))
		return true, nil

	case "/history":
		groups := history.RecentQuestions(session.App.Controller.Chats(), 20)
		fmt.Print(history.RenderQuestionGroups(groups, time.Now()))
		return true, nil

	case "/export":
		id := session.App.Controller.ActiveID()
		if id == "" {
			return true, fmt.Errorf("no active chat to export")
		}
		chat, err := session.App.Controller.Chat(id)
		if err != nil {
			return true, err
		}
		path, err := export.ExportMarkdown(chat, export.DefaultOptions())
		if err != nil {
			return true, err
		}
		fmt.Printf("%s Exported to %s\n", SuccessStyle.Render("[OK]"), path)
		return true, nil

	case "/search":
		if len(rest) == 0 {
			return true, fmt.Errorf("usage: /search QUERY")
		}
		query := strings.Join(rest, " ")
		if session.Index != nil {
			return true, searchOpenIndex(context.Background(), session.Index, query, 10)
		}
		return true, runSearch(session.App, query, 10)

	case "/slack":
		if session.Mode == model.ModeSlack {
			session.Mode = model.ModeCompany
			fmt.Println(SuccessStyle.Render("[Mode: company search]"))
		} else {
			session.Mode = model.ModeSlack
			fmt.Println(SuccessStyle.Render("[Mode: Slack summary]"))
		}
		return true, nil

	case "/quit", "/q", "/exit":
		return false, nil

	default:
		return true, fmt.Errorf("unknown command: %s (type /help for commands)", command)
	}
}

// =============================================================================
// DISPLAY FUNCTIONS
// =============================================================================

// printWelcome prints the welcome banner.
func printWelcome(session *ChatSession) {
	fmt.Println()
	fmt.Println(TitleStyle.Render("lens interactive chat"))
	fmt.Println(DimStyle.Render(strings.Repeat("─", 30)))

	modeLabel := "Company search"
	if session.Mode == model.ModeSlack {
		modeLabel = "Slack summary"
	}
	fmt.Printf("%s %s\n", DimStyle.Render("Mode:"), SuccessStyle.Render(modeLabel))

	if active := session.App.Controller.ActiveChat(); active != nil {
		fmt.Printf("%s %s (%d turns)\n",
			DimStyle.Render("Chat:"), active.Title, active.TurnCount())
	} else {
		fmt.Printf("%s %s\n", DimStyle.Render("Chat:"), "none (ask to start one)")
	}

	fmt.Println()
	fmt.Println(DimStyle.Render("Type a question and press Enter. Commands: /help, /quit"))
	fmt.Println()

	printSuggestions(session)
}

// printSuggestions shows common questions when the active chat is empty.
func printSuggestions(session *ChatSession) {
	if !session.App.Config.UI.ShowSuggestions {
		return
	}
	if active := session.App.Controller.ActiveChat(); active != nil && !active.IsEmpty() {
		return
	}

	fmt.Println(DimStyle.Render("Common questions:"))
	for _, q := range oracle.CommonQuestions(session.Mode) {
		fmt.Printf("  %s %s\n", DimStyle.Render("-"), q)
	}
	fmt.Println()
}

// printChatHelp prints available slash commands.
func printChatHelp() {
	fmt.Println()
	fmt.Println(TitleStyle.Render("Available Commands"))
	fmt.Println(DimStyle.Render(strings.Repeat("─", 20)))
	fmt.Println()

	commands := []struct {
		cmd  string
		desc string
	}{
		{"/help, /h", "Show this help"},
		{"/new, /n", "Start a new chat"},
		{"/list, /l", "List all chats"},
		{"/select ID", "Switch to another chat"},
		{"/delete [ID]", "Delete a chat (active by default)"},
		{"/clear, /c", "Clear the active chat's turns"},
		{"/history", "Show recent questions"},
		{"/export", "Export the active chat to Markdown"},
		{"/search QUERY", "Search past answers"},
		{"/slack", "Toggle company/Slack mode"},
		{"/quit, /q", "Exit chat"},
	}

	for _, c := range commands {
		fmt.Printf("  %s  %s\n",
			SuccessStyle.Render(fmt.Sprintf("%-15s", c.cmd)),
			DimStyle.Render(c.desc))
	}

	fmt.Println()
	fmt.Println(DimStyle.Render("Tip: Ctrl+C aborts the prompt, Ctrl+D exits"))
	fmt.Println()
}

// printExitSummary prints the session summary on exit.
func printExitSummary(session *ChatSession) {
	if session.QuestionsAsked == 0 {
		fmt.Println(DimStyle.Render("Goodbye!"))
		return
	}

	elapsed := time.Since(session.StartTime).Round(time.Second)

	fmt.Println()
	fmt.Println(TitleStyle.Render("Session Summary"))
	fmt.Println(DimStyle.Render(strings.Repeat("─", 15)))
	fmt.Printf("  %s %s\n",
		DimStyle.Render("Questions:"), util.IntToString(session.QuestionsAsked))
	fmt.Printf("  %s %d\n",
		DimStyle.Render("Chats:"), session.App.Controller.Len())
	fmt.Printf("  %s %s\n",
		DimStyle.Render("Duration:"), elapsed.String())
	fmt.Println()
	fmt.Println(DimStyle.Render("Goodbye!"))
}
