// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package oracle provides the answer generator the session engine asks.
package oracle

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jeranaias/lens-tui/internal/model"
)

// =============================================================================
// SIMULATOR TESTS
// =============================================================================

func TestSimulator_CompanyMode(t *testing.T) {
	s := &Simulator{Latency: 0}

	answer, err := s.Ask(context.Background(), "What's the ARR for Acme Ltd?", model.ModeCompany)
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if answer.Text == "" {
		t.Error("Expected non-empty answer text")
	}
	if len(answer.Links) != 4 {
		t.Errorf("Company answer links = %d, want 4", len(answer.Links))
	}
	if answer.Links[0].Platform != "Planhat" {
		t.Errorf("First link platform = %q, want Planhat", answer.Links[0].Platform)
	}
}

func TestSimulator_SlackMode(t *testing.T) {
	s := &Simulator{Latency: 0}

	answer, err := s.Ask(context.Background(), "Summarize #general", model.ModeSlack)
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if len(answer.Links) != 2 {
		t.Errorf("Slack answer links = %d, want 2", len(answer.Links))
	}
	for _, link := range answer.Links {
		if link.Platform != "Slack" {
			t.Errorf("Slack mode link platform = %q, want Slack", link.Platform)
		}
	}
}

func TestSimulator_CancelledContext(t *testing.T) {
	s := &Simulator{Latency: 10 * time.Second}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Ask(ctx, "q", model.ModeCompany)
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("Expected ErrTimeout for cancelled context, got %v", err)
	}
}

// =============================================================================
// HTTP CLIENT TESTS
// =============================================================================

func testClient(baseURL string) *Client {
	return NewClientWithConfig(&ClientConfig{
		BaseURL:           baseURL,
		Timeout:           2 * time.Second,
		MaxRetries:        1,
		RetryDelay:        10 * time.Millisecond,
		RequestsPerMinute: 6000,
	})
}

func TestClient_Ask(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/answers" {
			t.Errorf("Path = %q, want /v1/answers", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("Method = %q, want POST", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"answer":"The health score is 85/100.","links":[{"platform":"Planhat","label":"Profile","url":"https://planhat.example/acme"}]}`))
	}))
	defer srv.Close()

	answer, err := testClient(srv.URL).Ask(context.Background(), "health score?", model.ModeCompany)
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if answer.Text != "The health score is 85/100." {
		t.Errorf("Answer text = %q", answer.Text)
	}
	if len(answer.Links) != 1 || answer.Links[0].Platform != "Planhat" {
		t.Errorf("Links = %+v", answer.Links)
	}
}

func TestClient_Ask_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Ask(context.Background(), "q", model.ModeCompany)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable, got %v", err)
	}
}

func TestClient_Ask_RateLimitedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Ask(context.Background(), "q", model.ModeCompany)
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("Expected ErrRateLimited, got %v", err)
	}
}

func TestClient_Ask_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Ask(context.Background(), "q", model.ModeCompany)
	if !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("Expected ErrInvalidResponse, got %v", err)
	}
}

func TestClient_Ask_RetriesTransientFailure(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"answer":"ok"}`))
	}))
	defer srv.Close()

	answer, err := testClient(srv.URL).Ask(context.Background(), "q", model.ModeCompany)
	if err != nil {
		t.Fatalf("Ask failed after retry: %v", err)
	}
	if answer.Text != "ok" {
		t.Errorf("Answer = %q, want ok", answer.Text)
	}
	if attempts != 2 {
		t.Errorf("Attempts = %d, want 2", attempts)
	}
}

func TestClient_Ask_Unreachable(t *testing.T) {
	// Port 1 is essentially never listening.
	c := NewClientWithConfig(&ClientConfig{
		BaseURL:           "http://127.0.0.1:1",
		Timeout:           500 * time.Millisecond,
		MaxRetries:        1,
		RetryDelay:        10 * time.Millisecond,
		RequestsPerMinute: 6000,
	})

	_, err := c.Ask(context.Background(), "q", model.ModeCompany)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable, got %v", err)
	}
}

// =============================================================================
// COMMON QUESTIONS TESTS
// =============================================================================

func TestCommonQuestions(t *testing.T) {
	if len(CommonQuestions(model.ModeCompany)) != 5 {
		t.Error("Expected 5 company questions")
	}
	if len(CommonQuestions(model.ModeSlack)) != 5 {
		t.Error("Expected 5 slack questions")
	}
}
