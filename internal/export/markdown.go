// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/lens-tui/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports chats to Markdown format.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a chat to Markdown format. Turns are written
// oldest-first so the document reads top-down.
func (e *MarkdownExporter) Export(chat *model.Chat) ([]byte, error) {
	if chat == nil {
		return nil, fmt.Errorf("chat is nil")
	}
	if chat.IsEmpty() {
		return nil, fmt.Errorf("chat has no turns")
	}

	var sb strings.Builder

	// YAML frontmatter with metadata
	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", escapeYAML(chat.Title)))
		sb.WriteString(fmt.Sprintf("date: %s\n", chat.CreatedAt.Format(time.RFC3339)))
		sb.WriteString(fmt.Sprintf("updated: %s\n", chat.UpdatedAt.Format(time.RFC3339)))
		sb.WriteString(fmt.Sprintf("turns: %d\n", chat.TurnCount()))
		sb.WriteString(fmt.Sprintf("exported: %s\n", time.Now().Format(time.RFC3339)))
		sb.WriteString("generator: lens\n")
		sb.WriteString("---\n\n")
	}

	sb.WriteString(fmt.Sprintf("# %s\n\n", escapeMarkdown(chat.Title)))

	turns := chat.Turns
	for i := len(turns) - 1; i >= 0; i-- {
		turn := turns[i]

		if e.options.IncludeTimestamps {
			sb.WriteString(fmt.Sprintf("### Q: %s <sub>%s</sub>\n\n",
				escapeMarkdown(turn.Question),
				turn.Timestamp.Format("Jan 2, 2006 15:04")))
		} else {
			sb.WriteString(fmt.Sprintf("### Q: %s\n\n", escapeMarkdown(turn.Question)))
		}

		sb.WriteString(turn.Answer)
		sb.WriteString("\n\n")

		if len(turn.Links) > 0 {
			sb.WriteString("**Sources:**\n\n")
			for _, link := range turn.Links {
				sb.WriteString(fmt.Sprintf("- [%s](%s) (%s)\n",
					escapeMarkdown(link.Label), link.URL, link.Platform))
			}
			sb.WriteString("\n")
		}

		if i > 0 {
			sb.WriteString("---\n\n")
		}
	}

	sb.WriteString("\n---\n\n")
	sb.WriteString(fmt.Sprintf("*Exported from lens on %s*\n",
		time.Now().Format("January 2, 2006 at 3:04 PM")))

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

// escapeYAML quotes a value when it contains YAML-significant characters.
func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#{}[]|>&*!%@`\"'") || strings.TrimSpace(s) != s {
		return fmt.Sprintf("%q", s)
	}
	return s
}

// escapeMarkdown escapes characters that would change heading or list
// structure when a title or question embeds them.
func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"#", "\\#",
		"*", "\\*",
		"_", "\\_",
		"[", "\\[",
		"]", "\\]",
	)
	return replacer.Replace(s)
}
