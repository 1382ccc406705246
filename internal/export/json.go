// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"time"

	"github.com/thewaffle/waffle/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter writes the full transcript, with roles spelled out.
type JSONExporter struct{}

type jsonTranscript struct {
	Document   string      `json:"document"`
	ExportedAt time.Time   `json:"exported_at"`
	Turns      []jsonTurn  `json:"turns"`
	Tables     []jsonTable `json:"tables,omitempty"`
}

type jsonTurn struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type jsonTable struct {
	Meta    model.TableMeta `json:"meta"`
	Headers []string        `json:"headers"`
	Rows    [][]string      `json:"rows"`
}

// Export implements Exporter.
func (JSONExporter) Export(t *Transcript) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	out := jsonTranscript{
		Document:   t.Document,
		ExportedAt: t.ExportedAt,
		Turns:      make([]jsonTurn, len(t.Turns)),
	}
	for i, turn := range t.Turns {
		out.Turns[i] = jsonTurn{ID: turn.ID, Role: turn.Role.String(), Text: turn.Text, CreatedAt: turn.CreatedAt}
	}
	for _, tbl := range t.Tables {
		out.Tables = append(out.Tables, jsonTable{Meta: tbl.Meta, Headers: tbl.Headers(), Rows: tbl.Rows()})
	}
	return json.MarshalIndent(out, "", "  ")
}

// FileExtension implements Exporter.
func (JSONExporter) FileExtension() string { return ".json" }
