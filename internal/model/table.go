// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// TABLE EXTRACTION
// =============================================================================

// TableMeta describes where an extracted table came from.
type TableMeta struct {
	TableHeading string `json:"table_heading"`
	PDFURL       string `json:"pdf_url"`
	PageNumber   int    `json:"page_number"`
}

// Cell is one value of a column, addressed by its row key.
type Cell struct {
	RowKey string
	Value  string
}

// Column is a named, ordered list of cells.
type Column struct {
	Name  string
	Cells []Cell
}

// Lookup returns the value stored under rowKey.
func (c Column) Lookup(rowKey string) (string, bool) {
	for _, cell := range c.Cells {
		if cell.RowKey == rowKey {
			return cell.Value, true
		}
	}
	return "", false
}

// RowKeys returns the column's row keys in order.
func (c Column) RowKeys() []string {
	keys := make([]string, len(c.Cells))
	for i, cell := range c.Cells {
		keys[i] = cell.RowKey
	}
	return keys
}

// TableExtraction is a backend-extracted table. Data is column oriented:
// each column maps row keys to cell values.
type TableExtraction struct {
	Meta TableMeta
	Data []Column
}

// Empty reports whether the table has no columns.
func (t TableExtraction) Empty() bool {
	return len(t.Data) == 0
}

// Headers returns the column names in order.
func (t TableExtraction) Headers() []string {
	names := make([]string, len(t.Data))
	for i, col := range t.Data {
		names[i] = col.Name
	}
	return names
}

// RowKeys returns the row keys of the table, taken from the first column.
func (t TableExtraction) RowKeys() []string {
	if len(t.Data) == 0 {
		return nil
	}
	return t.Data[0].RowKeys()
}

// Rows returns the table body. Row keys come from the first column; a
// column without a value for a row yields an empty cell.
func (t TableExtraction) Rows() [][]string {
	keys := t.RowKeys()
	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		row := make([]string, len(t.Data))
		for i, col := range t.Data {
			row[i], _ = col.Lookup(key)
		}
		rows = append(rows, row)
	}
	return rows
}
