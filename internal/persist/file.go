// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package persist provides durable storage for session snapshots.
package persist

import (
	"os"

	"github.com/jeranaias/lens-tui/internal/util"
)

// FileAdapter stores the snapshot as a single JSON file.
// Default location: ~/.lens/chats.json.
type FileAdapter struct {
	// Path is the snapshot file location.
	Path string
}

// NewFileAdapter creates a file-backed adapter at the given path.
func NewFileAdapter(path string) *FileAdapter {
	return &FileAdapter{Path: path}
}

// Load reads the snapshot file. A missing file reports ErrNoSnapshot.
func (a *FileAdapter) Load() ([]byte, error) {
	data, err := os.ReadFile(a.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSnapshot
		}
		return nil, err
	}
	return data, nil
}

// Save replaces the snapshot file atomically (temp file + fsync + rename),
// so a crash mid-write leaves either the old or the new snapshot intact.
func (a *FileAdapter) Save(data []byte) error {
	return util.AtomicWriteFile(a.Path, data, 0600)
}
