// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"testing"
)

func TestParseArgs_DefaultsToTUI(t *testing.T) {
	cmd, args := parseArgs(nil)
	if cmd != CmdTUI {
		t.Fatalf("expected CmdTUI, got %v", cmd)
	}
	if args.Quiet || args.JSON || args.Slack {
		t.Error("expected zero flags for empty args")
	}
}

func TestParseArgs_AskJoinsQuery(t *testing.T) {
	cmd, args := parseArgs([]string{"ask", "What", "is", "the", "ARR?"})
	if cmd != CmdAsk {
		t.Fatalf("expected CmdAsk, got %v", cmd)
	}
	if args.Query != "What is the ARR?" {
		t.Errorf("query = %q", args.Query)
	}
}

func TestParseArgs_GlobalFlags(t *testing.T) {
	cmd, args := parseArgs([]string{"--slack", "ask", "--json", "-q", "summarize", "the", "week"})
	if cmd != CmdAsk {
		t.Fatalf("expected CmdAsk, got %v", cmd)
	}
	if !args.Slack || !args.JSON || !args.Quiet {
		t.Errorf("flags not parsed: %+v", args)
	}
	if args.Query != "summarize the week" {
		t.Errorf("query = %q", args.Query)
	}
}

func TestParseArgs_UnknownCommandBecomesQuestion(t *testing.T) {
	cmd, args := parseArgs([]string{"what's", "their", "health", "score?"})
	if cmd != CmdAsk {
		t.Fatalf("expected CmdAsk, got %v", cmd)
	}
	if args.Query != "what's their health score?" {
		t.Errorf("query = %q", args.Query)
	}
}

func TestParseArgs_SessionsSubcommands(t *testing.T) {
	tests := []struct {
		args       []string
		subcommand string
		chatID     string
	}{
		{[]string{"sessions"}, "list", ""},
		{[]string{"sessions", "list"}, "list", ""},
		{[]string{"sessions", "select", "chat_abc"}, "select", "chat_abc"},
		{[]string{"sessions", "delete", "chat_abc"}, "delete", "chat_abc"},
		{[]string{"session", "clear", "chat_abc"}, "clear", "chat_abc"},
	}

	for _, tt := range tests {
		cmd, args := parseArgs(tt.args)
		if cmd != CmdSessions {
			t.Fatalf("%v: expected CmdSessions, got %v", tt.args, cmd)
		}
		if args.Subcommand != tt.subcommand {
			t.Errorf("%v: subcommand = %q, want %q", tt.args, args.Subcommand, tt.subcommand)
		}
		if args.ChatID != tt.chatID {
			t.Errorf("%v: chatID = %q, want %q", tt.args, args.ChatID, tt.chatID)
		}
	}
}

func TestParseArgs_SearchWithLimit(t *testing.T) {
	cmd, args := parseArgs([]string{"search", "churn", "risk", "--limit", "5"})
	if cmd != CmdSearch {
		t.Fatalf("expected CmdSearch, got %v", cmd)
	}
	if args.Query != "churn risk" {
		t.Errorf("query = %q", args.Query)
	}
	if args.Limit != 5 {
		t.Errorf("limit = %d, want 5", args.Limit)
	}
}

func TestParseArgs_SearchWithLimitEquals(t *testing.T) {
	_, args := parseArgs([]string{"search", "--limit=3", "integrations"})
	if args.Limit != 3 {
		t.Errorf("limit = %d, want 3", args.Limit)
	}
	if args.Query != "integrations" {
		t.Errorf("query = %q", args.Query)
	}
}

func TestParseArgs_HistoryLimit(t *testing.T) {
	cmd, args := parseArgs([]string{"history", "--limit", "10"})
	if cmd != CmdHistory {
		t.Fatalf("expected CmdHistory, got %v", cmd)
	}
	if args.Limit != 10 {
		t.Errorf("limit = %d, want 10", args.Limit)
	}
}

func TestParseArgs_ConfigOperands(t *testing.T) {
	cmd, args := parseArgs([]string{"config", "set", "ui.default_mode", "slack"})
	if cmd != CmdConfig {
		t.Fatalf("expected CmdConfig, got %v", cmd)
	}
	if args.Subcommand != "set" {
		t.Errorf("subcommand = %q", args.Subcommand)
	}
	if len(args.Raw) != 2 || args.Raw[0] != "ui.default_mode" || args.Raw[1] != "slack" {
		t.Errorf("raw = %v", args.Raw)
	}
}

func TestParseArgs_ConfigDefaultsToShow(t *testing.T) {
	_, args := parseArgs([]string{"config"})
	if args.Subcommand != "show" {
		t.Errorf("subcommand = %q, want show", args.Subcommand)
	}
}

func TestParseArgs_VersionAndHelp(t *testing.T) {
	if cmd, _ := parseArgs([]string{"version"}); cmd != CmdVersion {
		t.Errorf("version: got %v", cmd)
	}
	if cmd, _ := parseArgs([]string{"--version"}); cmd != CmdVersion {
		t.Errorf("--version: got %v", cmd)
	}
	if cmd, _ := parseArgs([]string{"help"}); cmd != CmdHelp {
		t.Errorf("help: got %v", cmd)
	}
	if cmd, _ := parseArgs([]string{"-h"}); cmd != CmdHelp {
		t.Errorf("-h: got %v", cmd)
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{nil, ExitSuccess},
		{errors.New("something broke"), ExitGeneralError},
		{ErrNotFound("chat", "chat_x"), ExitNotFoundError},
		{ErrMissingArgument("query", "lens ask QUESTION"), ExitUsageError},
		{errors.New("request timed out"), ExitTimeoutError},
		{errors.New("connection refused"), ExitNetworkError},
	}

	for _, tt := range tests {
		if got := GetExitCode(tt.err); got != tt.code {
			t.Errorf("GetExitCode(%v) = %d, want %d", tt.err, got, tt.code)
		}
	}
}

func TestWrapText(t *testing.T) {
	wrapped := WrapText("one two three four five", 10)
	for _, line := range splitLines(wrapped) {
		if len(line) > 10 {
			t.Errorf("line %q exceeds width", line)
		}
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
