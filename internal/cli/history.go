// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// history.go - Recent-question listing and full-text search commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jeranaias/lens-tui/internal/history"
	"github.com/jeranaias/lens-tui/internal/index"
)

// HandleHistoryCommand lists recent questions grouped by chat.
func HandleHistoryCommand(args Args) error {
	app, err := NewApp(args)
	if err != nil {
		return err
	}

	limit := args.Limit
	if limit <= 0 {
		limit = 20
	}
	groups := history.RecentQuestions(app.Controller.Chats(), limit)

	if args.JSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(groups)
	}

	fmt.Print(history.RenderQuestionGroups(groups, time.Now()))
	return nil
}

// HandleSearchCommand runs a full-text search across indexed turns.
func HandleSearchCommand(args Args) error {
	query := strings.TrimSpace(args.Query)
	if query == "" {
		return ErrMissingArgument("query", "lens search \"churn risk\"")
	}

	app, err := NewApp(args)
	if err != nil {
		return err
	}
	if !app.Config.Index.Enabled {
		return NewCommandError("search", "open index",
			"search indexing is disabled (set index.enabled = true)", nil)
	}

	limit := args.Limit
	if limit <= 0 {
		limit = 10
	}

	if args.JSON {
		return searchJSON(app, query, limit)
	}
	return runSearch(app, query, limit)
}

// runSearch opens the index, refreshes it from the current chats, and
// prints matching turns.
func runSearch(app *App, query string, limit int) error {
	ctx := context.Background()

	idx, err := app.openIndex(ctx, false)
	if err != nil {
		return err
	}
	if idx == nil {
		return NewCommandError("search", "open index",
			"search indexing is disabled (set index.enabled = true)", nil)
	}
	defer idx.Close()

	return searchOpenIndex(ctx, idx, query, limit)
}

// searchOpenIndex queries an already-open index and prints the hits.
// Shared between the search command and the chat REPL, which keeps its
// index open for the whole session.
func searchOpenIndex(ctx context.Context, idx *index.TurnIndex, query string, limit int) error {
	hits, err := idx.Search(ctx, query, limit)
	if err != nil {
		return WrapError(err, "search failed")
	}
	printHits(query, hits)
	return nil
}

func searchJSON(app *App, query string, limit int) error {
	ctx := context.Background()

	idx, err := app.openIndex(ctx, false)
	if err != nil {
		return err
	}
	if idx == nil {
		return NewCommandError("search", "open index",
			"search indexing is disabled (set index.enabled = true)", nil)
	}
	defer idx.Close()

	hits, err := idx.Search(ctx, query, limit)
	if err != nil {
		return WrapError(err, "search failed")
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(hits)
}

// printHits renders search hits with chat context and relative times.
func printHits(query string, hits []index.Hit) {
	if len(hits) == 0 {
		fmt.Printf("No results for %q.\n", query)
		return
	}

	now := time.Now()
	fmt.Printf("%s %q (%d)\n\n", DimStyle.Render("Results for"), query, len(hits))
	for _, hit := range hits {
		fmt.Printf("%s  %s\n",
			TitleStyle.Render(hit.ChatTitle),
			DimStyle.Render(history.FormatRelative(hit.AskedAt, now)))
		fmt.Printf("  %s %s\n", QuestionStyle.Render("Q:"), hit.Question)
		fmt.Printf("  %s %s\n\n", DimStyle.Render("A:"), answerExcerpt(hit.Answer))
	}
}

// answerExcerpt flattens an answer body into a one-line preview.
func answerExcerpt(answer string) string {
	flat := strings.Join(strings.Fields(answer), " ")
	runes := []rune(flat)
	if len(runes) > 120 {
		return string(runes[:117]) + "..."
	}
	return flat
}
