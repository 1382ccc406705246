// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/thewaffle/waffle/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter writes turns as Markdown sections. Answers are already
// Markdown and are copied through untouched.
type MarkdownExporter struct{}

// Export implements Exporter.
func (MarkdownExporter) Export(t *Transcript) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	fmt.Fprintf(&sb, "document: %s\n", escapeYAML(t.Document))
	fmt.Fprintf(&sb, "messages: %d\n", len(t.Turns))
	if !t.ExportedAt.IsZero() {
		fmt.Fprintf(&sb, "exported: %s\n", t.ExportedAt.Format(time.RFC3339))
	}
	sb.WriteString("generator: waffle\n")
	sb.WriteString("---\n\n")

	fmt.Fprintf(&sb, "# %s\n\n", escapeMarkdown(t.title()))

	for i, turn := range t.Turns {
		fmt.Fprintf(&sb, "### %s <sub>%s</sub>\n\n", turn.Role.DisplayName(), turn.CreatedAt.Format("15:04:05"))
		sb.WriteString(strings.TrimSpace(turn.Text))
		sb.WriteString("\n\n")
		if i < len(t.Turns)-1 {
			sb.WriteString("---\n\n")
		}
	}

	if len(t.Tables) > 0 {
		sb.WriteString("## Tables\n\n")
		for i, tbl := range t.Tables {
			writeMarkdownTable(&sb, i, tbl)
		}
	}
	return []byte(sb.String()), nil
}

// FileExtension implements Exporter.
func (MarkdownExporter) FileExtension() string { return ".md" }

func writeMarkdownTable(sb *strings.Builder, i int, tbl model.TableExtraction) {
	fmt.Fprintf(sb, "### Table %d: %s\n\n", i+1, escapeMarkdown(tbl.Meta.TableHeading))
	if tbl.Meta.PageNumber > 0 {
		fmt.Fprintf(sb, "Page %d", tbl.Meta.PageNumber)
		if tbl.Meta.PDFURL != "" {
			fmt.Fprintf(sb, " of <%s>", tbl.Meta.PDFURL)
		}
		sb.WriteString("\n\n")
	}
	if tbl.Empty() {
		sb.WriteString("No table data available\n\n")
		return
	}

	headers := tbl.Headers()
	sb.WriteString("| " + strings.Join(cells(headers), " | ") + " |\n")
	sb.WriteString("|" + strings.Repeat(" --- |", len(headers)) + "\n")
	for _, row := range tbl.Rows() {
		sb.WriteString("| " + strings.Join(cells(row), " | ") + " |\n")
	}
	sb.WriteString("\n")
}

// cells escapes pipe characters so values stay in their column.
func cells(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ReplaceAll(strings.ReplaceAll(v, "|", `\|`), "\n", " ")
	}
	return out
}

func escapeMarkdown(s string) string {
	r := strings.NewReplacer("#", `\#`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`)
	return r.Replace(s)
}

func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#'\"\n") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
