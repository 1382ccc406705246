// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package table

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/thewaffle/waffle/internal/model"
)

const sampleTable = `{"meta": {"table_heading":"T1", "pdf_url":"http://x", "page_number":1},
 "data": {"a":{"0":"v1","1":"v2"}, "b":{"0":"w1","1":"w2"}}}`

// =============================================================================
// PARSE TESTS
// =============================================================================

func TestParse_Sample(t *testing.T) {
	tbl, err := Parse(sampleTable)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tbl.Meta.TableHeading != "T1" || tbl.Meta.PDFURL != "http://x" || tbl.Meta.PageNumber != 1 {
		t.Errorf("Meta = %+v", tbl.Meta)
	}
	if got := tbl.Headers(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Headers() = %v, want [a b]", got)
	}
	want := [][]string{{"v1", "w1"}, {"v2", "w2"}}
	if got := tbl.Rows(); !reflect.DeepEqual(got, want) {
		t.Errorf("Rows() = %v, want %v", got, want)
	}
}

func TestParse_KeyOrder(t *testing.T) {
	// Integer-like keys ascend, other keys keep document order.
	raw := `{"meta":{},"data":{"zeta":{"10":"c","2":"b","x":"d","0":"a"},"alpha":{"0":"1"},"3":{"0":"n"}}}`
	tbl, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := tbl.Headers(); !reflect.DeepEqual(got, []string{"3", "zeta", "alpha"}) {
		t.Errorf("Headers() = %v", got)
	}
	if got := tbl.Data[1].RowKeys(); !reflect.DeepEqual(got, []string{"0", "2", "10", "x"}) {
		t.Errorf("RowKeys() = %v", got)
	}
}

func TestParse_CellValues(t *testing.T) {
	raw := `{"meta":{"page_number":"7"},"data":{"c":{"0":12.5,"1":null,"2":true,"3":"text","4":{"k":1}}}}`
	tbl, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tbl.Meta.PageNumber != 7 {
		t.Errorf("PageNumber = %d, want 7", tbl.Meta.PageNumber)
	}
	var got []string
	for _, c := range tbl.Data[0].Cells {
		got = append(got, c.Value)
	}
	want := []string{"12.5", "", "true", "text", `{"k":1}`}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("cells = %q, want %q", got, want)
	}
}

func TestParse_EmptyAndNullData(t *testing.T) {
	for _, raw := range []string{
		`{"meta":{"table_heading":"E"},"data":{}}`,
		`{"meta":{"table_heading":"E"},"data":null}`,
		`{"meta":{"table_heading":"E"}}`,
	} {
		tbl, err := Parse(raw)
		if err != nil {
			t.Fatalf("Parse(%s): %v", raw, err)
		}
		if !tbl.Empty() {
			t.Errorf("Parse(%s) should be empty", raw)
		}
	}
}

func TestParseAll_SkipsMalformed(t *testing.T) {
	tables, errs := ParseAll([]string{sampleTable, `not json`, `{"data":{"a":"scalar"}}`, sampleTable})
	if len(tables) != 2 {
		t.Errorf("len(tables) = %d, want 2", len(tables))
	}
	if len(errs) != 2 {
		t.Fatalf("len(errs) = %d, want 2", len(errs))
	}
	if !strings.Contains(errs[0].Error(), "table 2") {
		t.Errorf("error should name the table index: %v", errs[0])
	}
}

// =============================================================================
// VALIDATE TESTS
// =============================================================================

func TestValidate_Mismatch(t *testing.T) {
	tbl, err := Parse(`{"meta":{"table_heading":"M"},"data":{"a":{"0":"1","1":"2"},"b":{"0":"x"},"c":{"0":"y","1":"z"}}}`)
	if err != nil {
		t.Fatal(err)
	}
	err = Validate(tbl)
	var mm *MismatchError
	if !errors.As(err, &mm) {
		t.Fatalf("Validate() = %v, want *MismatchError", err)
	}
	if !reflect.DeepEqual(mm.Columns, []string{"b"}) {
		t.Errorf("Columns = %v, want [b]", mm.Columns)
	}

	// Rendering pads instead of failing.
	want := [][]string{{"1", "x", "y"}, {"2", "", "z"}}
	if got := tbl.Rows(); !reflect.DeepEqual(got, want) {
		t.Errorf("Rows() = %v, want %v", got, want)
	}
}

func TestValidate_OK(t *testing.T) {
	tbl, _ := Parse(sampleTable)
	if err := Validate(tbl); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

// =============================================================================
// HTML TESTS
// =============================================================================

func TestRenderHTML_Sample(t *testing.T) {
	tbl, _ := Parse(sampleTable)
	out := RenderHTML([]model.TableExtraction{tbl})

	for _, want := range []string{
		"<h2>Table 1</h2>",
		"<strong>Title:</strong> T1",
		`<a href="http://x"`,
		"<strong>Page Number:</strong> 1",
		"<th>a</th><th>b</th>",
		`<tr class="even"><td>v1</td><td>w1</td></tr>`,
		`<tr class="odd"><td>v2</td><td>w2</td></tr>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderHTML missing %q in:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "<tr class="); n != 2 {
		t.Errorf("body rows = %d, want 2", n)
	}
}

func TestRenderHTML_EmptyStates(t *testing.T) {
	if got := RenderHTML(nil); got != "<div>No data available</div>" {
		t.Errorf("RenderHTML(nil) = %q", got)
	}

	tbl, _ := Parse(`{"meta":{"table_heading":"Empty one","pdf_url":"http://x","page_number":3},"data":{}}`)
	out := RenderHTML([]model.TableExtraction{tbl})
	if !strings.Contains(out, "No table data available") {
		t.Error("empty data should render the per-table empty state")
	}
	if !strings.Contains(out, "Empty one") || !strings.Contains(out, "<strong>Page Number:</strong> 3") {
		t.Error("empty data should still render metadata")
	}
	if strings.Contains(out, "<table>") {
		t.Error("empty data should not render a table element")
	}
}

func TestRenderHTML_Escapes(t *testing.T) {
	tbl, _ := Parse(`{"meta":{"table_heading":"<script>x</script>","pdf_url":"javascript:alert(1)"},"data":{"<b>":{"0":"<i>"}}}`)
	out := RenderHTML([]model.TableExtraction{tbl})
	if strings.Contains(out, "<script>") || strings.Contains(out, "<b>") || strings.Contains(out, "<i>") {
		t.Errorf("RenderHTML did not escape markup:\n%s", out)
	}
	if strings.Contains(out, `href="javascript:`) {
		t.Errorf("RenderHTML kept an unsafe URL:\n%s", out)
	}
}

// =============================================================================
// TERMINAL TESTS
// =============================================================================

func TestRenderTerminal_Sample(t *testing.T) {
	tbl, _ := Parse(sampleTable)
	out := RenderTerminal([]model.TableExtraction{tbl}, 0)

	for _, want := range []string{"Table 1", "Title: T1", "PDF URL: http://x", "Page Number: 1", "v1", "w2"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderTerminal missing %q in:\n%s", want, out)
		}
	}
	// Header line holds both column names in order.
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, " a ") {
			if !strings.Contains(line, " b ") || strings.Index(line, " a ") > strings.Index(line, " b ") {
				t.Errorf("header line = %q", line)
			}
		}
	}
}

func TestRenderTerminal_EmptyStates(t *testing.T) {
	if got := RenderTerminal(nil, 80); !strings.Contains(got, "No data available") {
		t.Errorf("RenderTerminal(nil) = %q", got)
	}
	tbl, _ := Parse(`{"meta":{"table_heading":"E"},"data":{}}`)
	out := RenderTerminal([]model.TableExtraction{tbl}, 80)
	if !strings.Contains(out, "No table data available") || !strings.Contains(out, "Title: E") {
		t.Errorf("RenderTerminal(empty data) = %q", out)
	}
}
