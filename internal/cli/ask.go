// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question answering: submit a question against the
// active chat, wait for the answer, render it, and exit.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/lens-tui/internal/config"
	"github.com/jeranaias/lens-tui/internal/model"
)

// markdownRenderer is initialized lazily; nil means plain-text fallback.
var markdownRenderer *glamour.TermRenderer

func initMarkdownRenderer() {
	if markdownRenderer != nil {
		return
	}
	width := GetTerminalWidth()
	if width > 100 {
		width = 100
	}

	// Honor the configured theme; "auto" (or anything else) lets
	// glamour pick from the terminal background.
	style := glamour.WithAutoStyle()
	switch config.Global().UI.Theme {
	case "dark":
		style = glamour.WithStandardStyle("dark")
	case "light":
		style = glamour.WithStandardStyle("light")
	}

	renderer, err := glamour.NewTermRenderer(
		style,
		glamour.WithWordWrap(width),
	)
	if err != nil {
		// Fall back to plain text output.
		return
	}
	markdownRenderer = renderer
}

// renderMarkdown renders answer text for the terminal, falling back to
// the raw text when glamour is unavailable or rendering fails.
func renderMarkdown(text string) string {
	if !IsStdoutTTY() {
		return text
	}
	initMarkdownRenderer()
	if markdownRenderer == nil {
		return text
	}
	rendered, err := markdownRenderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(rendered, "\n") + "\n"
}

// askJSONResult is the --json output shape for a single exchange.
type askJSONResult struct {
	ChatID   string       `json:"chat_id"`
	TurnID   string       `json:"turn_id"`
	Question string       `json:"question"`
	Answer   string       `json:"answer"`
	Links    []model.Link `json:"links,omitempty"`
	Mode     string       `json:"mode"`
}

// HandleAskCommand submits a one-shot question and prints the answer.
func HandleAskCommand(args Args) error {
	question := strings.TrimSpace(args.Query)
	if question == "" {
		return ErrMissingArgument("question", "lens ask \"What is the ARR of Acme Ltd?\"")
	}

	app, err := NewApp(args)
	if err != nil {
		return err
	}
	defer app.Controller.Wait()

	results, err := app.Controller.Submit(context.Background(), question, app.Mode)
	if err != nil {
		return NewCommandError("ask", "submit question", err.Error(), err)
	}

	if !args.Quiet && !args.JSON {
		fmt.Println(QuestionStyle.Render(question))
		fmt.Println(DimStyle.Render("Thinking..."))
	}

	result := <-results
	if result.Err != nil {
		return NewCommandError("ask", "fetch answer", result.Err.Error(), result.Err)
	}
	if result.Turn == nil {
		return NewCommandError("ask", "fetch answer", "the chat was deleted before the answer arrived", nil)
	}

	if args.JSON {
		return printAskJSON(result.ChatID, result.Turn, app.Mode)
	}

	printAnswer(result.Turn, args.Quiet)
	return nil
}

func printAskJSON(chatID string, turn *model.Turn, mode model.Mode) error {
	out := askJSONResult{
		ChatID:   chatID,
		TurnID:   turn.ID,
		Question: turn.Question,
		Answer:   turn.Answer,
		Links:    turn.Links,
		Mode:     mode.String(),
	}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// printAnswer renders an answered turn: markdown body first, then the
// source links grouped under a separator.
func printAnswer(turn *model.Turn, quiet bool) {
	fmt.Print(renderMarkdown(turn.Answer))

	if len(turn.Links) == 0 || quiet {
		return
	}

	fmt.Println()
	fmt.Println(RenderSeparator(0))
	fmt.Println(DimStyle.Render("Sources:"))
	for _, link := range turn.Links {
		label := LinkLabelStyle.Render("[" + link.Platform + "]")
		fmt.Printf("  %s %s\n    %s\n", label, link.Label, LinkStyle.Render(link.URL))
	}
}
