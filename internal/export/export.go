// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/thewaffle/waffle/internal/model"
	"github.com/thewaffle/waffle/internal/util"
)

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Transcript is what gets exported: the conversation about one document.
type Transcript struct {
	Document   string
	Turns      []model.ConversationTurn
	Tables     []model.TableExtraction
	ExportedAt time.Time
}

// ErrEmpty is returned when there is nothing to export.
var ErrEmpty = errors.New("conversation has no messages")

func (t *Transcript) validate() error {
	if t == nil || len(t.Turns) == 0 {
		return ErrEmpty
	}
	return nil
}

// title names the transcript after its document.
func (t *Transcript) title() string {
	if t.Document == "" {
		return "Conversation"
	}
	return t.Document
}

// =============================================================================
// EXPORTER INTERFACE
// =============================================================================

// Exporter converts a transcript to one file format.
type Exporter interface {
	Export(t *Transcript) ([]byte, error)
	FileExtension() string
}

// ForFormat returns the exporter for "md", "html" or "json".
func ForFormat(format string, htmlRenderer BubbleRenderer) (Exporter, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "", "md", "markdown":
		return MarkdownExporter{}, nil
	case "html", "htm":
		if htmlRenderer == nil {
			return nil, errors.New("html export needs a markdown renderer")
		}
		return HTMLExporter{Renderer: htmlRenderer}, nil
	case "json":
		return JSONExporter{}, nil
	default:
		return nil, errors.Errorf("unknown export format %q (want md, html or json)", format)
	}
}

// =============================================================================
// FILE OUTPUT
// =============================================================================

// ToFile exports t into dir under a generated name and returns the path.
func ToFile(t *Transcript, exporter Exporter, dir string) (string, error) {
	content, err := exporter.Export(t)
	if err != nil {
		return "", errors.Wrap(err, "export failed")
	}

	at := t.ExportedAt
	if at.IsZero() {
		at = time.Now()
	}
	name := fmt.Sprintf("waffle_%s_%s%s", sanitizeFilename(t.title()), at.Format("20060102_150405"), exporter.FileExtension())
	path := filepath.Join(dir, name)

	if err := util.AtomicWriteFile(path, content, 0o644); err != nil {
		return "", errors.Wrap(err, "write export")
	}
	return path, nil
}

// sanitizeFilename replaces characters that are invalid in file names on
// any platform and caps the length.
func sanitizeFilename(s string) string {
	s = strings.TrimSuffix(s, filepath.Ext(s))
	runes := []rune(s)
	if len(runes) > 50 {
		runes = runes[:50]
	}

	out := make([]rune, 0, len(runes))
	for _, r := range runes {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r):
			out = append(out, '-')
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			out = append(out, '_')
		case r < 32 || r == 127:
			out = append(out, '-')
		default:
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return "conversation"
	}
	return string(out)
}
