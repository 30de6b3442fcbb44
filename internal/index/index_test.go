// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package index

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jeranaias/lens-tui/internal/model"
)

func openTestIndex(t *testing.T) *TurnIndex {
	t.Helper()
	idx, err := Open(&Config{DatabasePath: filepath.Join(t.TempDir(), "turns.db")})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func testChat(id, title string, questions ...string) *model.Chat {
	chat := &model.Chat{ID: id, Title: title}
	for i, q := range questions {
		chat.Turns = append(chat.Turns, &model.Turn{
			ID:        id + "-t" + string(rune('a'+i)),
			Question:  q,
			Answer:    "answer for " + q,
			Timestamp: time.Now().Add(-time.Duration(i) * time.Minute),
		})
	}
	return chat
}

// =============================================================================
// REBUILD TESTS
// =============================================================================

func TestRebuildAndSearch(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	chats := []*model.Chat{
		testChat("c1", "acme research",
			"What's the ARR for Acme Ltd?",
			"What's the churn risk for Acme Ltd?"),
		testChat("c2", "slack digest",
			"Summarize the activity in #customer-success"),
	}
	if err := idx.Rebuild(ctx, chats); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	if idx.TurnCount() != 3 {
		t.Errorf("TurnCount = %d, want 3", idx.TurnCount())
	}

	hits, err := idx.Search(ctx, "churn", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("Expected 1 hit for churn, got %d", len(hits))
	}
	if hits[0].ChatID != "c1" {
		t.Errorf("Hit chat = %s, want c1", hits[0].ChatID)
	}
	if hits[0].ChatTitle != "acme research" {
		t.Errorf("Hit title = %q", hits[0].ChatTitle)
	}
}

func TestRebuildReplacesPreviousIndex(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	if err := idx.Rebuild(ctx, []*model.Chat{testChat("c1", "old", "obsolete question")}); err != nil {
		t.Fatalf("First rebuild failed: %v", err)
	}
	if err := idx.Rebuild(ctx, []*model.Chat{testChat("c2", "new", "fresh question")}); err != nil {
		t.Fatalf("Second rebuild failed: %v", err)
	}

	hits, err := idx.Search(ctx, "obsolete", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("Expected old rows gone after rebuild, got %d hits", len(hits))
	}
	if idx.TurnCount() != 1 {
		t.Errorf("TurnCount = %d, want 1", idx.TurnCount())
	}
}

func TestSearchMatchesAnswers(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	chat := testChat("c1", "t")
	chat.Turns = []*model.Turn{{
		ID:        "t1",
		Question:  "How is the account doing?",
		Answer:    "Their ARR is $240k with low expansion potential.",
		Timestamp: time.Now(),
	}}
	if err := idx.Rebuild(ctx, []*model.Chat{chat}); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}

	hits, err := idx.Search(ctx, "expansion", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 1 {
		t.Errorf("Expected answer-body match, got %d hits", len(hits))
	}
}

// =============================================================================
// INCREMENTAL UPDATE TESTS
// =============================================================================

func TestAddAndRemoveChat(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	chat := &model.Chat{ID: "c1", Title: "incremental"}
	turn := &model.Turn{ID: "t1", Question: "standalone question", Answer: "yes", Timestamp: time.Now()}
	if err := idx.Add(ctx, chat, turn); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if idx.TurnCount() != 1 {
		t.Errorf("TurnCount = %d, want 1", idx.TurnCount())
	}

	if err := idx.RemoveChat(ctx, "c1"); err != nil {
		t.Fatalf("RemoveChat failed: %v", err)
	}
	if idx.TurnCount() != 0 {
		t.Errorf("TurnCount = %d, want 0 after removal", idx.TurnCount())
	}
	hits, err := idx.Search(ctx, "standalone", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("Expected no hits after removal, got %d", len(hits))
	}
}

// =============================================================================
// QUERY HANDLING TESTS
// =============================================================================

func TestSearchRejectsEmptyQuery(t *testing.T) {
	idx := openTestIndex(t)

	for _, q := range []string{"", "   "} {
		if _, err := idx.Search(context.Background(), q, 10); err != ErrEmptyQuery {
			t.Errorf("Search(%q) error = %v, want ErrEmptyQuery", q, err)
		}
	}
}

func TestSearchEscapesFTSSyntax(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	if err := idx.Rebuild(ctx, []*model.Chat{testChat("c1", "t", "plain question")}); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}

	// Operators and quotes must be treated as literals, not syntax errors.
	for _, q := range []string{`"unbalanced`, "NEAR(", "a AND b OR", "col:val*"} {
		if _, err := idx.Search(ctx, q, 10); err != nil {
			t.Errorf("Search(%q) failed: %v", q, err)
		}
	}
}

func TestOpenPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "turns.db")

	idx, err := Open(&Config{DatabasePath: path})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := idx.Rebuild(context.Background(), []*model.Chat{testChat("c1", "t", "durable question")}); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	idx.Close()

	reopened, err := Open(&Config{DatabasePath: path})
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer reopened.Close()
	if reopened.TurnCount() != 1 {
		t.Errorf("TurnCount after reopen = %d, want 1", reopened.TurnCount())
	}
}

// =============================================================================
// WATCHER TESTS
// =============================================================================

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

func TestPollingWatcherDetectsChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.json")
	writeFile(t, path, "v1")

	changed := make(chan struct{}, 1)
	pw := NewPollingWatcher(path, 20*time.Millisecond, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	if err := pw.Watch(); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer pw.Close()

	writeFile(t, path, "v2 with different length")
	// Mod times can have coarse resolution; bump explicitly.
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("Polling watcher never fired")
	}
}

func TestWatchStartsAfterRebuild(t *testing.T) {
	dir := t.TempDir()
	snapshot := filepath.Join(dir, "chats.json")
	writeFile(t, snapshot, "{}")

	idx, err := Open(&Config{
		DatabasePath:  filepath.Join(dir, "turns.db"),
		SnapshotPath:  snapshot,
		EnableWatch:   true,
		WatchDebounce: 10 * time.Millisecond,
		LoadChats:     func() ([]*model.Chat, error) { return nil, nil },
	})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer idx.Close()

	if idx.Watching() {
		t.Error("Watcher should not run before the first rebuild")
	}
	if err := idx.Rebuild(context.Background(), nil); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	if !idx.Watching() {
		t.Fatal("Watcher should run after a rebuild with EnableWatch set")
	}

	idx.Close()
	if idx.Watching() {
		t.Error("Close should stop the watcher")
	}
}

func TestSnapshotRewriteTriggersReindex(t *testing.T) {
	dir := t.TempDir()
	snapshot := filepath.Join(dir, "chats.json")
	writeFile(t, snapshot, "v1")

	var mu sync.Mutex
	chats := []*model.Chat{testChat("c1", "acme research", "original question")}
	load := func() ([]*model.Chat, error) {
		mu.Lock()
		defer mu.Unlock()
		return chats, nil
	}

	idx, err := Open(&Config{
		DatabasePath:  filepath.Join(dir, "turns.db"),
		SnapshotPath:  snapshot,
		EnableWatch:   true,
		WatchDebounce: 10 * time.Millisecond,
		LoadChats:     load,
	})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer idx.Close()

	if err := idx.Rebuild(context.Background(), chats); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	if idx.TurnCount() != 1 {
		t.Fatalf("TurnCount = %d, want 1", idx.TurnCount())
	}

	// Another process appends a turn and rewrites the snapshot.
	mu.Lock()
	chats = []*model.Chat{testChat("c1", "acme research",
		"original question", "followup question")}
	mu.Unlock()
	writeFile(t, snapshot, "v2 rewritten by another process")
	// Mod times can have coarse resolution; bump explicitly.
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(snapshot, future, future); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}

	deadline := time.Now().Add(10 * time.Second)
	for idx.TurnCount() != 2 {
		if time.Now().After(deadline) {
			t.Fatalf("TurnCount = %d, want 2 after snapshot rewrite", idx.TurnCount())
		}
		time.Sleep(20 * time.Millisecond)
	}

	hits, err := idx.Search(context.Background(), "followup", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 1 {
		t.Errorf("Expected the reindexed turn to be searchable, got %d hits", len(hits))
	}
}
