// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package table

import (
	"fmt"
	"strings"

	"github.com/thewaffle/waffle/internal/model"
)

// MismatchError reports columns whose row keys differ from the first column.
type MismatchError struct {
	Heading string
	Columns []string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("table %q: columns %s do not match the row keys of the first column",
		e.Heading, strings.Join(e.Columns, ", "))
}

// Validate checks that every column has exactly the first column's row keys.
// Rendering still works when it fails: missing cells are padded.
func Validate(t model.TableExtraction) error {
	if len(t.Data) < 2 {
		return nil
	}
	first := t.Data[0].RowKeys()
	want := make(map[string]bool, len(first))
	for _, k := range first {
		want[k] = true
	}

	var bad []string
	for _, col := range t.Data[1:] {
		keys := col.RowKeys()
		if len(keys) != len(first) {
			bad = append(bad, col.Name)
			continue
		}
		for _, k := range keys {
			if !want[k] {
				bad = append(bad, col.Name)
				break
			}
		}
	}
	if len(bad) > 0 {
		return &MismatchError{Heading: t.Meta.TableHeading, Columns: bad}
	}
	return nil
}
