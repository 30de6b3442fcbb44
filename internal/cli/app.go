// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// app.go - Shared wiring between CLI commands: config, oracle,
// persistence, controller, and search index construction.
package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jeranaias/lens-tui/internal/config"
	"github.com/jeranaias/lens-tui/internal/controller"
	"github.com/jeranaias/lens-tui/internal/index"
	"github.com/jeranaias/lens-tui/internal/model"
	"github.com/jeranaias/lens-tui/internal/oracle"
	"github.com/jeranaias/lens-tui/internal/persist"
	"github.com/jeranaias/lens-tui/internal/store"
)

// App bundles the components every command needs.
type App struct {
	Config     *config.Config
	Controller *controller.Controller
	Adapter    persist.Adapter
	Mode       model.Mode
}

// NewApp loads configuration and assembles the controller stack.
// Flags override config: --slack switches mode, --simulate forces local
// answers.
func NewApp(args Args) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, WrapError(err, "failed to load configuration")
	}
	// Publish for packages that render without App plumbing.
	config.SetGlobal(cfg)

	mode := model.ModeCompany
	if cfg.UI.DefaultMode == "slack" {
		mode = model.ModeSlack
	}
	if args.Slack {
		mode = model.ModeSlack
	}

	answerer := buildOracle(cfg, args)
	adapter, err := buildAdapter(cfg)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:     cfg,
		Controller: controller.Load(answerer, adapter),
		Adapter:    adapter,
		Mode:       mode,
	}, nil
}

// buildOracle picks the simulator or the HTTP client per config and flags.
func buildOracle(cfg *config.Config, args Args) oracle.Oracle {
	if cfg.Oracle.Simulate || args.Simulate {
		return &oracle.Simulator{
			Latency: time.Duration(cfg.Oracle.SimulatedLatencyMs) * time.Millisecond,
		}
	}
	return oracle.NewClientWithConfig(&oracle.ClientConfig{
		BaseURL:           cfg.Oracle.BaseURL,
		Timeout:           time.Duration(cfg.Oracle.TimeoutSecs) * time.Second,
		MaxRetries:        cfg.Oracle.MaxRetries,
		RequestsPerMinute: cfg.Oracle.RequestsPerMin,
	})
}

// buildAdapter constructs the snapshot adapter, wrapping it with
// encryption when configured.
func buildAdapter(cfg *config.Config) (persist.Adapter, error) {
	path, err := cfg.SnapshotPath()
	if err != nil {
		return nil, WrapError(err, "failed to resolve snapshot path")
	}

	var adapter persist.Adapter = &persist.FileAdapter{Path: path}
	if cfg.Storage.Encrypt {
		adapter = persist.NewEncryptedAdapter(adapter, cfg.Storage.Passphrase)
	}
	return adapter, nil
}

// openIndex opens the search index and refreshes it from the current
// chats. Returns nil without error when indexing is disabled. When
// watch is set, the index keeps a snapshot watcher running so rewrites
// by other lens processes trigger a reindex.
func (a *App) openIndex(ctx context.Context, watch bool) (*index.TurnIndex, error) {
	if !a.Config.Index.Enabled {
		return nil, nil
	}

	path, err := a.Config.IndexPath()
	if err != nil {
		return nil, WrapError(err, "failed to resolve index path")
	}

	idxCfg := &index.Config{DatabasePath: path}
	if watch {
		snapshot, err := a.Config.SnapshotPath()
		if err != nil {
			return nil, WrapError(err, "failed to resolve snapshot path")
		}
		idxCfg.SnapshotPath = snapshot
		idxCfg.EnableWatch = true
		idxCfg.WatchDebounce = time.Duration(a.Config.Index.WatchDebounceMs) * time.Millisecond
		idxCfg.LoadChats = a.loadSnapshotChats
	}

	idx, err := index.Open(idxCfg)
	if err != nil {
		return nil, WrapError(err, "failed to open search index")
	}
	if err := idx.Rebuild(ctx, a.Controller.Chats()); err != nil {
		idx.Close()
		return nil, WrapError(err, "failed to rebuild search index")
	}
	return idx, nil
}

// OpenWatchedIndex opens the search index for a long-lived session,
// with the snapshot watcher running. Returns nil without error when
// indexing is disabled.
func (a *App) OpenWatchedIndex(ctx context.Context) (*index.TurnIndex, error) {
	return a.openIndex(ctx, true)
}

// loadSnapshotChats re-reads the chats straight from the snapshot on
// disk, picking up writes from other lens processes.
func (a *App) loadSnapshotChats() ([]*model.Chat, error) {
	data, err := a.Adapter.Load()
	if err != nil {
		if errors.Is(err, persist.ErrNoSnapshot) {
			return nil, nil
		}
		return nil, err
	}
	return store.Restore(data).Chats(), nil
}

// findChat resolves a chat by ID or unambiguous ID prefix.
func (a *App) findChat(id string) (*model.Chat, error) {
	if chat, err := a.Controller.Chat(id); err == nil {
		return chat, nil
	}

	var match *model.Chat
	for _, chat := range a.Controller.Chats() {
		if len(id) >= 4 && len(chat.ID) >= len(id) && chat.ID[:len(id)] == id {
			if match != nil {
				return nil, fmt.Errorf("chat ID prefix %q is ambiguous", id)
			}
			match = chat
		}
	}
	if match == nil {
		return nil, ErrNotFound("chat", id)
	}
	return match, nil
}
