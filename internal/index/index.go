// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package index provides full-text search over answered questions.
package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/lens-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrClosed        = errors.New("index is closed")
	ErrDatabaseError = errors.New("database error")
	ErrEmptyQuery    = errors.New("empty search query")
)

// =============================================================================
// TURN INDEX
// =============================================================================

// TurnIndex is a searchable SQLite index over every answered question.
// It is a derived structure: the snapshot remains the source of truth and
// the index can always be rebuilt from it.
type TurnIndex struct {
	db      *sql.DB
	config  *Config
	watcher SnapshotWatcher
	mu      sync.RWMutex

	closed      bool
	lastRebuild time.Time
	turnCount   int
}

// Config holds index configuration
type Config struct {
	// DatabasePath is where to store the SQLite database
	DatabasePath string

	// SnapshotPath is the chat snapshot file to watch for rewrites by
	// other processes. Empty disables watching.
	SnapshotPath string

	// EnableWatch starts a snapshot watcher after the first successful
	// Rebuild. Requires SnapshotPath and LoadChats.
	EnableWatch bool

	// WatchDebounce is how long snapshot writes must settle before the
	// reindex runs
	WatchDebounce time.Duration

	// LoadChats re-reads the chats from the snapshot when the watcher
	// fires
	LoadChats func() ([]*model.Chat, error)
}

// DefaultConfig returns default configuration rooted at dir.
func DefaultConfig(dir string) *Config {
	return &Config{
		DatabasePath:  filepath.Join(dir, "turns.db"),
		WatchDebounce: 500 * time.Millisecond,
	}
}

// Open opens (creating if necessary) the turn index database.
func Open(config *Config) (*TurnIndex, error) {
	if config == nil {
		return nil, errors.New("config cannot be nil")
	}

	dbDir := filepath.Dir(config.DatabasePath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", config.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := db.Exec(InitMetadata); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize metadata: %w", err)
	}

	idx := &TurnIndex{db: db, config: config}
	if err := idx.loadCount(); err != nil {
		db.Close()
		return nil, err
	}
	return idx, nil
}

// loadCount refreshes the cached turn count.
func (idx *TurnIndex) loadCount() error {
	return idx.db.QueryRow("SELECT COUNT(*) FROM turns").Scan(&idx.turnCount)
}

// Close closes the underlying database.
func (idx *TurnIndex) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return nil
	}
	idx.closed = true
	if idx.watcher != nil {
		idx.watcher.Close()
		idx.watcher = nil
	}
	return idx.db.Close()
}

// Watching reports whether a snapshot watcher is running.
func (idx *TurnIndex) Watching() bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.watcher != nil
}

// TurnCount returns the number of indexed turns.
func (idx *TurnIndex) TurnCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.turnCount
}

// LastRebuild returns when Rebuild last completed, zero if never in this
// process.
func (idx *TurnIndex) LastRebuild() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.lastRebuild
}

// =============================================================================
// INDEXING
// =============================================================================

// Rebuild replaces the entire index with the turns of the given chats.
// The rebuild is transactional: a failure leaves the previous index intact.
func (idx *TurnIndex) Rebuild(ctx context.Context, chats []*model.Chat) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return ErrClosed
	}

	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM turns"); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO turns (turn_id, chat_id, chat_title, question, answer, asked_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer stmt.Close()

	count := 0
	for _, chat := range chats {
		for _, turn := range chat.Turns {
			_, err := stmt.ExecContext(ctx, turn.ID, chat.ID, chat.Title,
				turn.Question, turn.Answer, turn.Timestamp.Unix())
			if err != nil {
				return fmt.Errorf("%w: %v", ErrDatabaseError, err)
			}
			count++
		}
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO metadata (key, value) VALUES ('last_rebuild', ?)",
		now.Unix())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	idx.turnCount = count
	idx.lastRebuild = now

	if idx.config.EnableWatch && idx.watcher == nil {
		if err := idx.startWatcher(); err != nil {
			// Non-fatal: search still works, the index just stops
			// following external snapshot writes.
			_ = err
		}
	}
	return nil
}

// startWatcher begins watching the snapshot file. Caller holds idx.mu.
func (idx *TurnIndex) startWatcher() error {
	if idx.config.SnapshotPath == "" || idx.config.LoadChats == nil {
		return errors.New("watching requires a snapshot path and a chat loader")
	}
	debounce := idx.config.WatchDebounce
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	watcher, err := WatchSnapshot(idx.config.SnapshotPath, debounce, idx.reindexFromSnapshot)
	if err != nil {
		return err
	}
	idx.watcher = watcher
	return nil
}

// reindexFromSnapshot reloads the chats and rebuilds the index. Runs on
// a watcher goroutine once a snapshot rewrite settles.
func (idx *TurnIndex) reindexFromSnapshot() {
	chats, err := idx.config.LoadChats()
	if err != nil {
		// A partially written or unreadable snapshot leaves the
		// previous index intact.
		return
	}
	_ = idx.Rebuild(context.Background(), chats)
}

// Add indexes a single committed turn without touching existing rows.
func (idx *TurnIndex) Add(ctx context.Context, chat *model.Chat, turn *model.Turn) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return ErrClosed
	}

	_, err := idx.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO turns (turn_id, chat_id, chat_title, question, answer, asked_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, turn.ID, chat.ID, chat.Title, turn.Question, turn.Answer, turn.Timestamp.Unix())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	idx.turnCount++
	return nil
}

// RemoveChat drops every indexed turn belonging to a chat.
func (idx *TurnIndex) RemoveChat(ctx context.Context, chatID string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return ErrClosed
	}

	res, err := idx.db.ExecContext(ctx, "DELETE FROM turns WHERE chat_id = ?", chatID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	if n, err := res.RowsAffected(); err == nil {
		idx.turnCount -= int(n)
	}
	return nil
}

// =============================================================================
// SEARCH
// =============================================================================

// Hit is one search result.
type Hit struct {
	TurnID    string
	ChatID    string
	ChatTitle string
	Question  string
	Answer    string
	AskedAt   time.Time
}

// Search runs a full-text query over questions and answers, best matches
// first. Limit caps the result count; zero or less means 50.
func (idx *TurnIndex) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.closed {
		return nil, ErrClosed
	}
	ftsQuery := escapeQuery(query)
	if ftsQuery == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := idx.db.QueryContext(ctx, `
		SELECT t.turn_id, t.chat_id, t.chat_title, t.question, t.answer, t.asked_at
		FROM turns_fts f
		JOIN turns t ON t.id = f.rowid
		WHERE turns_fts MATCH ?
		ORDER BY bm25(turns_fts), t.asked_at DESC
		LIMIT ?
	`, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		var askedAt int64
		if err := rows.Scan(&h.TurnID, &h.ChatID, &h.ChatTitle, &h.Question, &h.Answer, &askedAt); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		h.AskedAt = time.Unix(askedAt, 0)
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// escapeQuery quotes each token so user input cannot inject FTS5 syntax.
func escapeQuery(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ""
	}
	quoted := make([]string, 0, len(fields))
	for _, f := range fields {
		quoted = append(quoted, `"`+strings.ReplaceAll(f, `"`, `""`)+`"`)
	}
	return strings.Join(quoted, " ")
}
