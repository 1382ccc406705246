// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package table

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/thewaffle/waffle/internal/model"
)

// =============================================================================
// PARSING
// =============================================================================

// Parse decodes one JSON-encoded table extraction.
func Parse(raw string) (model.TableExtraction, error) {
	var out model.TableExtraction

	top, err := decodeObject([]byte(raw))
	if err != nil {
		return out, errors.Wrap(err, "table extraction")
	}

	for _, entry := range top {
		switch entry.key {
		case "meta":
			if out.Meta, err = parseMeta(entry.raw); err != nil {
				return out, errors.Wrap(err, "table meta")
			}
		case "data":
			if out.Data, err = parseData(entry.raw); err != nil {
				return out, errors.Wrap(err, "table data")
			}
		}
	}
	return out, nil
}

// ParseAll parses every string of a frame's tables list. Malformed entries
// are skipped and their errors returned alongside the good tables.
func ParseAll(raws []string) ([]model.TableExtraction, []error) {
	tables := make([]model.TableExtraction, 0, len(raws))
	var errs []error
	for i, raw := range raws {
		t, err := Parse(raw)
		if err != nil {
			errs = append(errs, errors.Wrapf(err, "table %d", i+1))
			continue
		}
		tables = append(tables, t)
	}
	return tables, errs
}

func parseMeta(raw json.RawMessage) (model.TableMeta, error) {
	var meta model.TableMeta
	if isNull(raw) {
		return meta, nil
	}
	var m struct {
		TableHeading string          `json:"table_heading"`
		PDFURL       string          `json:"pdf_url"`
		PageNumber   json.RawMessage `json:"page_number"`
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return meta, err
	}
	meta.TableHeading = m.TableHeading
	meta.PDFURL = m.PDFURL
	if len(m.PageNumber) > 0 && !isNull(m.PageNumber) {
		// Page numbers show up as numbers and as numeric strings.
		s := strings.Trim(string(m.PageNumber), `"`)
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return meta, fmt.Errorf("invalid page_number %s", m.PageNumber)
		}
		meta.PageNumber = int(n)
	}
	return meta, nil
}

func parseData(raw json.RawMessage) ([]model.Column, error) {
	if isNull(raw) {
		return nil, nil
	}
	cols, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	out := make([]model.Column, 0, len(cols))
	for _, col := range cols {
		rows, err := decodeObject(col.raw)
		if err != nil {
			return nil, errors.Wrapf(err, "column %q", col.key)
		}
		column := model.Column{Name: col.key, Cells: make([]model.Cell, 0, len(rows))}
		for _, row := range rows {
			column.Cells = append(column.Cells, model.Cell{RowKey: row.key, Value: cellText(row.raw)})
		}
		out = append(out, column)
	}
	return out, nil
}

// cellText renders a JSON cell value as display text.
func cellText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if isNull(raw) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err == nil {
		return buf.String()
	}
	return string(raw)
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// =============================================================================
// ORDERED OBJECT DECODING
// =============================================================================

type entry struct {
	key string
	raw json.RawMessage
}

// decodeObject decodes a JSON object into its entries in iteration order.
// A repeated key keeps its first position and its last value.
func decodeObject(data []byte) ([]entry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var entries []entry
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		if i, dup := index[key]; dup {
			entries[i].raw = raw
			continue
		}
		index[key] = len(entries)
		entries = append(entries, entry{key: key, raw: raw})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	sortKeys(entries)
	return entries, nil
}

// sortKeys moves array-index keys to the front in ascending numeric order
// and leaves the other keys in document order.
func sortKeys(entries []entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		ni, iok := arrayIndex(entries[i].key)
		nj, jok := arrayIndex(entries[j].key)
		switch {
		case iok && jok:
			return ni < nj
		case iok:
			return true
		default:
			return false
		}
	})
}

// arrayIndex reports whether key is a canonical array index.
func arrayIndex(key string) (uint64, bool) {
	if key == "" || (len(key) > 1 && key[0] == '0') {
		return 0, false
	}
	n, err := strconv.ParseUint(key, 10, 32)
	if err != nil || n == 1<<32-1 {
		return 0, false
	}
	return n, true
}
