// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command handlers for lens.
//
// CLI: Comprehensive help and examples for all commands
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdSessions
	CmdHistory
	CmdSearch
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet    bool
	Verbose  bool
	JSON     bool // Output in JSON format
	Slack    bool // Ask in Slack summary mode instead of company search
	Simulate bool // Answer locally without calling the insight service

	// Command-specific
	Query      string
	Subcommand string
	ChatID     string
	Limit      int

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `lens - customer insight Q&A for the terminal

Lens answers questions about your customers by querying CRM, support,
and Slack data, and keeps every conversation as a named chat you can
return to.

Usage:
  lens                       Start TUI (default)
  lens ask "question"        Ask a single question
  lens chat                  Interactive chat
  lens sessions [subcommand] Chat management
  lens history               Recently asked questions, grouped by chat
  lens search <query>        Full-text search over past answers
  lens config [show|set]     Configuration
  lens version               Show version
  lens help                  Show this help

Session Commands:
  lens sessions list          List all chats (default)
  lens sessions select <id>   Make a chat active
  lens sessions delete <id>   Delete a chat
  lens sessions clear <id>    Remove a chat's turns, keep the chat
  lens sessions export [id]   Write a chat transcript (--json for JSON)

History and Search:
  lens history                Show recent questions grouped by chat
    --limit N                 Show at most N chat groups
  lens search "churn risk"    Search questions and answers
    --limit N                 Show at most N hits

Interactive Commands (during chat):
  /new [title]        Start a new chat
  /list               List chats
  /select <id>        Switch to a chat
  /delete <id>        Delete a chat
  /clear              Clear the active chat's turns
  /history            Show recent questions
  /search <query>     Search past answers
  /export             Export the active chat to Markdown
  /slack              Toggle Slack summary mode
  /quit, /q           Exit chat
  Ctrl+D              Exit chat

Global Flags:
  --slack         Ask in Slack summary mode
  --simulate      Answer locally without the insight service
  -q, --quiet     Minimal output
  -v, --verbose   Debug output
  --json          Output in JSON format

Examples:
  lens ask "What's the ARR for Acme Ltd?"
  lens ask --slack "Summarize this week's #customer-success activity"
  lens ask --json "What integrations do they use?"
  lens chat
  lens sessions list
  lens search "health score" --limit 5
  lens config set ui.default_mode slack

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("lens version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
	fmt.Printf("  Go version: %s\n", runtime.Version())
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	return parseArgs(os.Args[1:])
}

// parseArgs is Parse with injectable args for testing.
func parseArgs(args []string) (Command, Args) {
	remaining, parsedArgs := parseGlobalFlags(args)

	// If no remaining args, default to TUI
	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs

	case "ask":
		parseAskArgs(&parsedArgs, remaining)
		return CmdAsk, parsedArgs

	case "chat":
		return CmdChat, parsedArgs

	case "session", "sessions":
		parseSessionArgs(&parsedArgs, remaining)
		return CmdSessions, parsedArgs

	case "history":
		parseHistoryArgs(&parsedArgs, remaining)
		return CmdHistory, parsedArgs

	case "search":
		parseSearchArgs(&parsedArgs, remaining)
		return CmdSearch, parsedArgs

	case "config":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs

	case "version", "-v", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		// Unknown command: treat the whole line as a question.
		parseAskArgs(&parsedArgs, append([]string{cmd}, remaining...))
		return CmdAsk, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	for _, arg := range args {
		switch arg {
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "--verbose":
			parsedArgs.Verbose = true
		case "--json":
			parsedArgs.JSON = true
		case "--slack":
			parsedArgs.Slack = true
		case "--simulate":
			parsedArgs.Simulate = true
		default:
			remaining = append(remaining, arg)
		}
	}

	return remaining, parsedArgs
}

// parseAskArgs parses ask command specific arguments.
func parseAskArgs(args *Args, remaining []string) {
	var query []string

	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]
		if !strings.HasPrefix(arg, "-") {
			query = append(query, arg)
		}
	}

	args.Query = strings.Join(query, " ")
}

// parseSessionArgs parses session command specific arguments.
func parseSessionArgs(args *Args, remaining []string) {
	args.Subcommand = "list"
	if len(remaining) > 0 {
		args.Subcommand = strings.ToLower(remaining[0])
	}
	if len(remaining) > 1 {
		args.ChatID = remaining[1]
	}
}

// parseHistoryArgs parses history command specific arguments.
func parseHistoryArgs(args *Args, remaining []string) {
	args.Limit = parseLimitFlag(remaining)
}

// parseSearchArgs parses search command specific arguments.
func parseSearchArgs(args *Args, remaining []string) {
	args.Limit = parseLimitFlag(remaining)

	var query []string
	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]
		if arg == "--limit" {
			i++
			continue
		}
		if strings.HasPrefix(arg, "--limit=") || strings.HasPrefix(arg, "-") {
			continue
		}
		query = append(query, arg)
	}
	args.Query = strings.Join(query, " ")
}

// parseConfigArgs parses config command specific arguments.
func parseConfigArgs(args *Args, remaining []string) {
	args.Subcommand = "show"
	if len(remaining) > 0 {
		args.Subcommand = strings.ToLower(remaining[0])
		args.Raw = remaining[1:]
	}
}

// parseLimitFlag extracts a --limit flag value, zero when absent.
func parseLimitFlag(remaining []string) int {
	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]
		if arg == "--limit" && i+1 < len(remaining) {
			if n, err := strconv.Atoi(remaining[i+1]); err == nil && n > 0 {
				return n
			}
		}
		if strings.HasPrefix(arg, "--limit=") {
			if n, err := strconv.Atoi(strings.TrimPrefix(arg, "--limit=")); err == nil && n > 0 {
				return n
			}
		}
	}
	return 0
}

// =============================================================================
// TOP-LEVEL HANDLERS
// =============================================================================

// ERROR HANDLING: Errors must not be silently ignored

// HandleAsk handles the "ask" command.
func HandleAsk(args Args) {
	if err := HandleAskCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleChat handles the "chat" command.
func HandleChat(args Args) {
	if err := HandleChatCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleSessions handles the "sessions" command.
func HandleSessions(args Args) {
	if err := HandleSessionsCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleHistory handles the "history" command.
func HandleHistory(args Args) {
	if err := HandleHistoryCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleSearch handles the "search" command.
func HandleSearch(args Args) {
	if err := HandleSearchCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleConfig handles the "config" command.
func HandleConfig(args Args) {
	if err := HandleConfigCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleVersion handles the "version" command.
func HandleVersion(args Args) {
	if args.JSON {
		fmt.Printf("{\"version\":%q,\"git_commit\":%q,\"build_date\":%q,\"go_version\":%q}\n",
			Version, GitCommit, BuildDate, runtime.Version())
		return
	}
	PrintVersion()
}

// HandleHelp handles the "help" command.
func HandleHelp() {
	PrintUsage()
}
