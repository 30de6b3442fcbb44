// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export converts chats into shareable documents.
//
// # Key Types
//
//   - Exporter: format-specific conversion of a chat to bytes
//   - MarkdownExporter: human-readable transcript with YAML frontmatter
//   - JSONExporter: complete chat data, re-importable
//   - Options: output directory and metadata toggles
//
// # Usage
//
//	path, err := export.ExportMarkdown(chat, export.DefaultOptions())
//
// Output filenames embed the sanitized chat title and a timestamp so
// repeated exports never collide.
package export
