// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the lens application.
//
// This package contains small, dependency-free helpers shared across the
// codebase:
//
//   - AtomicWriteFile: crash-safe file writes (temp file + fsync + rename)
//   - TruncateRunes: UTF-8 safe string truncation
//   - IntToString: string conversion helpers
package util
