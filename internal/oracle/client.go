// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package oracle provides the answer generator the session engine asks.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/lens-tui/internal/model"
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the HTTP oracle client.
type ClientConfig struct {
	// BaseURL is the answer service base URL (default: http://127.0.0.1:8790)
	BaseURL string

	// Timeout for a single request attempt (default: 30s)
	Timeout time.Duration

	// MaxRetries for transient failures (default: 3)
	MaxRetries int

	// RetryDelay between retries (default: 1s)
	RetryDelay time.Duration

	// RequestsPerMinute caps the client-side request rate (default: 30)
	RequestsPerMinute int
}

// DefaultClientConfig returns the default client configuration.
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:           "http://127.0.0.1:8790",
		Timeout:           30 * time.Second,
		MaxRetries:        3,
		RetryDelay:        1 * time.Second,
		RequestsPerMinute: 30,
	}
}

// =============================================================================
// HTTP CLIENT
// =============================================================================

// Client asks questions over HTTP: POST {base}/v1/answers with the question
// and mode, expecting the answer text and links back as JSON.
//
// The Client is thread-safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates an HTTP oracle client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultClientConfig())
}

// NewClientWithConfig creates an HTTP oracle client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultClientConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8790"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.RetryDelay == 0 {
		config.RetryDelay = 1 * time.Second
	}
	if config.RequestsPerMinute == 0 {
		config.RequestsPerMinute = 30
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(float64(config.RequestsPerMinute)/60.0), config.RequestsPerMinute),
	}
}

// askRequest is the request body for /v1/answers.
type askRequest struct {
	Question string `json:"question"`
	Mode     string `json:"mode"`
}

// Ask sends the question to the answer service. Transient failures are
// retried up to MaxRetries with a fixed delay; a cancelled context aborts
// immediately and is surfaced as the context's error wrapped in a timeout
// ClientError.
func (c *Client) Ask(ctx context.Context, question string, mode model.Mode) (*Answer, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &ClientError{Type: ErrTypeRateLimited, Message: "too many requests", Cause: err}
	}

	body, err := json.Marshal(askRequest{Question: question, Mode: mode.String()})
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to encode request", Cause: err}
	}

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, &ClientError{Type: ErrTypeTimeout, Message: "request cancelled", Cause: ctx.Err()}
			case <-time.After(c.config.RetryDelay):
			}
		}

		answer, err := c.ask(ctx, body)
		if err == nil {
			return answer, nil
		}
		lastErr = err

		// Only transient failures are worth retrying.
		var ce *ClientError
		if errors.As(err, &ce) && ce.Type != ErrTypeUnavailable {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, &ClientError{Type: ErrTypeTimeout, Message: "request cancelled", Cause: ctx.Err()}
		}
	}
	return nil, lastErr
}

// ask performs a single request attempt.
func (c *Client) ask(ctx context.Context, body []byte) (*Answer, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/v1/answers", bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to build request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &ClientError{Type: ErrTypeTimeout, Message: "request cancelled", Cause: ctx.Err()}
		}
		return nil, &ClientError{Type: ErrTypeUnavailable, Message: "answer service is not reachable", Cause: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode >= 500:
		return nil, &ClientError{Type: ErrTypeUnavailable, Message: "answer service error: " + resp.Status}
	case resp.StatusCode != http.StatusOK:
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "unexpected status: " + resp.Status}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to read response", Cause: err}
	}

	var answer Answer
	if err := json.Unmarshal(data, &answer); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "invalid response from answer service", Cause: err}
	}
	if answer.Text == "" {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "empty answer from answer service"}
	}
	return &answer, nil
}
