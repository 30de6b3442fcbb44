// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package controller coordinates question exchanges between the chat store,
// the answer oracle, and the persistence adapter.
package controller

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/jeranaias/lens-tui/internal/model"
	"github.com/jeranaias/lens-tui/internal/oracle"
	"github.com/jeranaias/lens-tui/internal/persist"
	"github.com/jeranaias/lens-tui/internal/store"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrEmptyQuestion is returned by Submit when the question is blank after
// trimming.
var ErrEmptyQuestion = errors.New("question is empty")

// ErrChatNotFound mirrors the store sentinel so callers only import this
// package.
var ErrChatNotFound = store.ErrChatNotFound

// =============================================================================
// EXCHANGE STATES
// =============================================================================

// ExchangeState tracks a question through its lifecycle.
type ExchangeState int

const (
	// StateIdle means the exchange has been accepted but not yet sent to
	// the oracle.
	StateIdle ExchangeState = iota

	// StateAwaitingAnswer means the oracle call is in flight.
	StateAwaitingAnswer

	// StateApplied means the answered turn was committed to its chat.
	StateApplied

	// StateDropped means the exchange terminated without committing a
	// turn, either because the oracle failed or the chat was deleted
	// while the answer was pending.
	StateDropped
)

// String returns a human-readable state name.
func (s ExchangeState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingAnswer:
		return "awaiting_answer"
	case StateApplied:
		return "applied"
	case StateDropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// Result reports the terminal outcome of a submitted question.
type Result struct {
	// ChatID is the chat the exchange belonged to.
	ChatID string

	// Turn is the committed turn. Nil unless Outcome is StateApplied.
	Turn *model.Turn

	// Outcome is StateApplied or StateDropped.
	Outcome ExchangeState

	// Err carries the oracle failure when the exchange was dropped for
	// that reason. Nil for applied exchanges and for drops caused by
	// chat deletion.
	Err error
}

// =============================================================================
// INTERNAL QUEUE TYPES
// =============================================================================

// exchange is one in-flight question bound to a chat.
type exchange struct {
	ctx      context.Context
	chatID   string
	question string
	mode     model.Mode
	state    ExchangeState
	result   chan Result
}

// chatQueue serializes exchanges for a single chat. Exchanges for distinct
// chats run concurrently; within one chat they run strictly in submission
// order.
type chatQueue struct {
	pending []*exchange
	running bool
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns the session store and mediates every mutation to it.
// All methods are safe for concurrent use.
type Controller struct {
	mu      sync.Mutex
	store   *store.Store
	oracle  oracle.Oracle
	adapter persist.Adapter
	queues  map[string]*chatQueue
	wg      sync.WaitGroup
}

// New creates a controller over an empty store.
func New(answerer oracle.Oracle, adapter persist.Adapter) *Controller {
	return &Controller{
		store:   store.New(),
		oracle:  answerer,
		adapter: adapter,
		queues:  make(map[string]*chatQueue),
	}
}

// Load creates a controller whose store is restored from the adapter's
// snapshot. A missing or malformed snapshot yields an empty store rather
// than an error.
func Load(answerer oracle.Oracle, adapter persist.Adapter) *Controller {
	c := New(answerer, adapter)
	data, err := adapter.Load()
	if err != nil {
		if !errors.Is(err, persist.ErrNoSnapshot) {
			log.Printf("Warning: failed to load snapshot, starting empty: %v", err)
		}
		return c
	}
	c.store = store.Restore(data)
	return c
}

// Wait blocks until every in-flight exchange has reached a terminal state.
// Intended for shutdown and tests.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// =============================================================================
// QUESTION SUBMISSION
// =============================================================================

// Submit accepts a question for the active chat and returns a channel that
// delivers exactly one Result when the exchange reaches a terminal state.
//
// A blank question is rejected with ErrEmptyQuestion and nothing is
// mutated. When no chat is active a new chat is created from the question
// and made active before the exchange is queued. Questions for the same
// chat are answered strictly in submission order; questions for different
// chats proceed concurrently.
func (c *Controller) Submit(ctx context.Context, question string, mode model.Mode) (<-chan Result, error) {
	question = model.NormalizeQuestion(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	if ctx == nil {
		ctx = context.Background()
	}

	c.mu.Lock()
	chatID := c.store.ActiveID()
	if chatID == "" {
		chatID = c.store.CreateChat(question)
		c.store.SetActive(chatID)
		c.persistLocked()
	}

	ex := &exchange{
		ctx:      ctx,
		chatID:   chatID,
		question: question,
		mode:     mode,
		state:    StateIdle,
		result:   make(chan Result, 1),
	}

	q := c.queues[chatID]
	if q == nil {
		q = &chatQueue{}
		c.queues[chatID] = q
	}
	q.pending = append(q.pending, ex)
	if !q.running {
		q.running = true
		c.wg.Add(1)
		go c.drain(chatID)
	}
	c.mu.Unlock()

	return ex.result, nil
}

// drain answers queued exchanges for one chat until its queue empties.
func (c *Controller) drain(chatID string) {
	defer c.wg.Done()
	for {
		c.mu.Lock()
		q := c.queues[chatID]
		if q == nil || len(q.pending) == 0 {
			if q != nil {
				q.running = false
			}
			c.mu.Unlock()
			return
		}
		ex := q.pending[0]
		q.pending = q.pending[1:]
		ex.state = StateAwaitingAnswer
		c.mu.Unlock()

		// The oracle call happens outside the lock so other chats and
		// store reads are never blocked on answer latency.
		answer, err := c.oracle.Ask(ex.ctx, ex.question, ex.mode)

		c.mu.Lock()
		c.commitLocked(ex, answer, err)
		c.mu.Unlock()
	}
}

// commitLocked applies or drops a completed oracle call. Caller holds mu.
func (c *Controller) commitLocked(ex *exchange, answer *oracle.Answer, err error) {
	if err != nil {
		ex.state = StateDropped
		ex.result <- Result{ChatID: ex.chatID, Outcome: StateDropped, Err: err}
		close(ex.result)
		return
	}

	turn := model.NewTurn(ex.question, answer.Text, answer.Links)
	if appendErr := c.store.AppendTurn(ex.chatID, turn); appendErr != nil {
		// The chat was deleted while the answer was pending. The turn
		// is discarded without error.
		ex.state = StateDropped
		ex.result <- Result{ChatID: ex.chatID, Outcome: StateDropped}
		close(ex.result)
		return
	}

	ex.state = StateApplied
	c.persistLocked()
	ex.result <- Result{ChatID: ex.chatID, Turn: turn, Outcome: StateApplied}
	close(ex.result)
}

// =============================================================================
// CHAT MANAGEMENT
// =============================================================================

// NewChat creates an empty chat titled from seed, makes it active, and
// returns its ID.
func (c *Controller) NewChat(seed string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.store.CreateChat(seed)
	c.store.SetActive(id)
	c.persistLocked()
	return id
}

// SelectChat makes the given chat active. The active pointer is unchanged
// when the chat does not exist.
func (c *Controller) SelectChat(chatID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.SetActive(chatID); err != nil {
		return err
	}
	c.persistLocked()
	return nil
}

// DeleteChat removes a chat. When the deleted chat was active, the most
// recently touched remaining chat becomes active; when none remain the
// active pointer is cleared. Pending exchanges for the chat are dropped
// when their answers arrive.
func (c *Controller) DeleteChat(chatID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	wasActive := c.store.ActiveID() == chatID
	if err := c.store.DeleteChat(chatID); err != nil {
		return err
	}
	if wasActive {
		if chats := c.store.Chats(); len(chats) > 0 {
			c.store.SetActive(chats[0].ID)
		}
	}
	c.persistLocked()
	return nil
}

// ClearChat removes every turn from a chat while keeping the chat itself.
func (c *Controller) ClearChat(chatID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.ClearChat(chatID); err != nil {
		return err
	}
	c.persistLocked()
	return nil
}

// =============================================================================
// ACCESSORS
// =============================================================================

// ActiveID returns the active chat's ID, or "" when none is active.
func (c *Controller) ActiveID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.ActiveID()
}

// ActiveChat returns a clone of the active chat, or nil when none is
// active.
func (c *Controller) ActiveChat() *model.Chat {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.ActiveChat()
}

// Chat returns a clone of the chat with the given ID.
func (c *Controller) Chat(chatID string) (*model.Chat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Chat(chatID)
}

// Chats returns clones of every chat, most recently touched first.
func (c *Controller) Chats() []*model.Chat {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Chats()
}

// Len returns the number of chats.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Len()
}

// Pending returns how many exchanges are queued or in flight for a chat.
func (c *Controller) Pending(chatID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	q := c.queues[chatID]
	if q == nil {
		return 0
	}
	n := len(q.pending)
	if q.running {
		n++
	}
	return n
}

// =============================================================================
// PERSISTENCE
// =============================================================================

// persistLocked writes a snapshot through the adapter. Persistence failure
// is logged but never propagated; the in-memory store remains authoritative
// and the next committed mutation retries. Caller holds mu.
func (c *Controller) persistLocked() {
	if c.adapter == nil {
		return
	}
	data, err := c.store.Snapshot()
	if err != nil {
		log.Printf("Warning: failed to encode snapshot: %v", err)
		return
	}
	if err := c.adapter.Save(data); err != nil {
		log.Printf("Warning: failed to persist snapshot: %v", err)
	}
}
