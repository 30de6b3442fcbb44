// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and validates lens configuration from TOML or JSON
// files under ~/.lens, fills in defaults for anything unspecified, and
// applies LENS_* environment variable overrides last.
//
// # Key Types
//
//   - Config: the complete configuration tree
//   - ValidationError / ValidateErrors: field-level validation failures
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//		return err
//	}
//	path, err := cfg.SnapshotPath()
package config
