// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package controller is the session engine's coordination layer. It owns
// the chat store and is the only component allowed to mutate it, routing
// every question through a per-chat FIFO queue, the answer oracle, and the
// persistence adapter.
//
// # Key Types
//
//   - Controller: mediates all store mutations and oracle calls
//   - Result: the terminal outcome delivered for each submitted question
//   - ExchangeState: lifecycle of a question (idle, awaiting, applied, dropped)
//
// # Guarantees
//
// At most one exchange per chat is awaiting an answer at a time; additional
// submissions for the same chat queue in arrival order. Exchanges for
// distinct chats proceed concurrently. A chat deleted while its answer is
// pending drops the answer silently. Every committed mutation triggers a
// snapshot save; a failed save is logged and retried on the next mutation
// rather than surfaced as an error.
//
// # Usage
//
//	ctrl := controller.Load(oracle.NewSimulator(), &persist.FileAdapter{Path: path})
//	results, err := ctrl.Submit(ctx, "What's the ARR for Acme Ltd?", model.ModeCompany)
//	if err != nil {
//		return err
//	}
//	res := <-results
package controller
