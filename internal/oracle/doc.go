// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package oracle provides the answer generator the session engine asks.
//
// # Key Types
//
//   - Oracle: the ask(question, mode) contract
//   - Answer: answer text plus labeled platform links
//   - Client: HTTP implementation with retries and rate limiting
//   - Simulator: canned answers with artificial latency for development
//
// # Error Handling
//
// Implementations return *ClientError values categorized by ErrorType.
// Sentinels (ErrUnavailable, ErrTimeout, ErrRateLimited,
// ErrInvalidResponse) support errors.Is checks. The session engine treats
// every oracle failure the same way: the pending exchange is dropped and
// nothing is persisted.
package oracle
