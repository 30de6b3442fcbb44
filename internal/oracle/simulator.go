// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package oracle provides the answer generator the session engine asks.
package oracle

import (
	"context"
	"time"

	"github.com/jeranaias/lens-tui/internal/model"
)

// =============================================================================
// SIMULATOR
// =============================================================================

// Simulator answers every question with canned analysis output, after an
// artificial delay. It stands in for the real answer service during
// development and demos.
type Simulator struct {
	// Latency is the simulated analysis time (default: 2s).
	Latency time.Duration
}

// NewSimulator creates a simulator with the default latency.
func NewSimulator() *Simulator {
	return &Simulator{Latency: 2 * time.Second}
}

// Ask waits for the simulated latency and returns the canned answer for
// the mode. A cancelled context aborts the wait.
func (s *Simulator) Ask(ctx context.Context, question string, mode model.Mode) (*Answer, error) {
	latency := s.Latency
	if latency > 0 {
		select {
		case <-ctx.Done():
			return nil, &ClientError{Type: ErrTypeTimeout, Message: "request cancelled", Cause: ctx.Err()}
		case <-time.After(latency):
		}
	}

	if mode == model.ModeSlack {
		return &Answer{
			Text: "Based on the Slack conversation analysis, the main discussion points include " +
				"project updates, team coordination, and customer feedback. Key action items " +
				"have been identified for follow-up.",
			Links: []model.Link{
				{Platform: "Slack", Label: "View Original Thread", URL: "https://slack.com/thread/example"},
				{Platform: "Slack", Label: "Channel Overview", URL: "https://slack.com/channel/general"},
			},
		}, nil
	}

	return &Answer{
		Text: "Based on the latest data from our integrated systems, Acme Ltd has an Annual " +
			"Recurring Revenue (ARR) of $240,000 with a 15% growth rate quarter-over-quarter. " +
			"They currently have 2 open support tickets: one regarding API rate limiting " +
			"(Priority: High, opened 3 days ago) and another about dashboard loading issues " +
			"(Priority: Medium, opened 1 week ago). Their account health score is 85/100, " +
			"indicating a strong, stable relationship with room for expansion opportunities.",
		Links: []model.Link{
			{Platform: "Planhat", Label: "View Account Profile", URL: "https://planhat.com/account/acme-ltd"},
			{Platform: "HubSpot", Label: "Open Active Deal ($50K)", URL: "https://hubspot.com/deal/acme-expansion"},
			{Platform: "Intercom", Label: "View Support Tickets (2)", URL: "https://intercom.com/tickets/acme-ltd"},
			{Platform: "HubSpot", Label: "Account Overview", URL: "https://hubspot.com/company/acme-ltd"},
		},
	}, nil
}

// =============================================================================
// COMMON QUESTIONS
// =============================================================================

// CommonQuestions returns suggested starter questions for the mode, shown
// by front ends when a chat is empty.
func CommonQuestions(mode model.Mode) []string {
	if mode == model.ModeSlack {
		return []string{
			"Summarize yesterday's #general channel discussion",
			"What were the key decisions from the product meeting?",
			"Extract action items from the customer feedback thread",
			"Summarize the engineering standup conversation",
			"What issues were discussed in #support channel?",
		}
	}
	return []string{
		"What's the health score for Acme Ltd?",
		"Show me all open support tickets for McDonald's",
		"What's the ARR for our top 5 customers?",
		"Which customers have churned in the last quarter?",
		"Show me expansion opportunities for existing accounts",
	}
}
