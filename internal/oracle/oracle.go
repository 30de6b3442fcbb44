// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package oracle provides the answer generator the session engine asks.
package oracle

import (
	"context"

	"github.com/jeranaias/lens-tui/internal/model"
)

// =============================================================================
// ANSWER TYPE
// =============================================================================

// Answer is the response produced for one question: the answer text plus
// zero or more labeled links into external platforms.
type Answer struct {
	Text  string       `json:"answer"`
	Links []model.Link `json:"links,omitempty"`
}

// =============================================================================
// ORACLE INTERFACE
// =============================================================================

// Oracle turns a question into an answer. Latency and failure behavior are
// the collaborator's, not the engine's: Ask may take arbitrarily long, and
// the engine treats a cancelled context exactly like any other failure.
type Oracle interface {
	Ask(ctx context.Context, question string, mode model.Mode) (*Answer, error)
}

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from an oracle implementation.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches ClientErrors by type, so sentinel comparisons work through
// wrapped copies carrying a cause.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// ErrorType categorizes oracle errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeUnavailable
	ErrTypeTimeout
	ErrTypeRateLimited
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrUnavailable     = &ClientError{Type: ErrTypeUnavailable, Message: "answer service is not reachable"}
	ErrTimeout         = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrRateLimited     = &ClientError{Type: ErrTypeRateLimited, Message: "too many requests"}
	ErrInvalidResponse = &ClientError{Type: ErrTypeInvalidResponse, Message: "invalid response from answer service"}
)
