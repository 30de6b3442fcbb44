// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/jeranaias/lens-tui/internal/config"
)

// newTestApp builds an App against an isolated home directory so tests
// never touch the real ~/.lens.
func newTestApp(t *testing.T) *App {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	config.ResetGlobalForTesting()
	t.Cleanup(config.ResetGlobalForTesting)

	app, err := NewApp(Args{Simulate: true})
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	t.Cleanup(app.Controller.Wait)
	return app
}

func TestNewApp_PublishesGlobalConfig(t *testing.T) {
	app := newTestApp(t)

	if config.Global() != app.Config {
		t.Error("NewApp should publish its config via config.SetGlobal")
	}
}

func TestOpenWatchedIndex_StartsWatcher(t *testing.T) {
	app := newTestApp(t)

	idx, err := app.OpenWatchedIndex(context.Background())
	if err != nil {
		t.Fatalf("OpenWatchedIndex failed: %v", err)
	}
	if idx == nil {
		t.Fatal("Indexing is enabled by default; expected an open index")
	}
	defer idx.Close()

	if !idx.Watching() {
		t.Error("Long-lived sessions should keep a snapshot watcher running")
	}
}

func TestOpenIndex_OneShotDoesNotWatch(t *testing.T) {
	app := newTestApp(t)

	idx, err := app.openIndex(context.Background(), false)
	if err != nil {
		t.Fatalf("openIndex failed: %v", err)
	}
	if idx == nil {
		t.Fatal("Indexing is enabled by default; expected an open index")
	}
	defer idx.Close()

	if idx.Watching() {
		t.Error("One-shot commands should not start a snapshot watcher")
	}
}

func TestSearch_DisabledIndexFailsCleanly(t *testing.T) {
	cfg := config.Default()
	cfg.Index.Enabled = false
	app := &App{Config: cfg}

	for name, search := range map[string]func(*App, string, int) error{
		"runSearch":  runSearch,
		"searchJSON": searchJSON,
	} {
		err := search(app, "churn", 5)
		if err == nil {
			t.Fatalf("%s should fail when indexing is disabled", name)
		}
		var cmdErr *CommandError
		if !errors.As(err, &cmdErr) {
			t.Errorf("%s error = %T, want *CommandError", name, err)
		}
	}
}
