// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"
)

// =============================================================================
// ROLE TESTS
// =============================================================================

func TestRole_DisplayName(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleHuman, "You"},
		{RoleAssistant, "Waffle"},
	}
	for _, tc := range tests {
		if got := tc.role.DisplayName(); got != tc.want {
			t.Errorf("%v.DisplayName() = %q, want %q", tc.role, got, tc.want)
		}
	}
}

func TestRole_UnknownPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("String() on an unknown role should panic")
		}
	}()
	_ = Role(42).String()
}

func TestNewTurns(t *testing.T) {
	h := NewHumanTurn("hello")
	a := NewAssistantTurn("hi there")

	if !h.IsHuman() || h.IsAssistant() {
		t.Errorf("human turn has role %v", h.Role)
	}
	if !a.IsAssistant() {
		t.Errorf("assistant turn has role %v", a.Role)
	}
	if !strings.HasPrefix(h.ID, "turn_") {
		t.Errorf("ID = %q, want turn_ prefix", h.ID)
	}
	if h.ID == a.ID {
		t.Error("turn IDs should be unique")
	}
}

// =============================================================================
// QUERY TESTS
// =============================================================================

func TestNewQueryRequest_TagMapping(t *testing.T) {
	tests := []struct {
		name        string
		tags        TagSet
		wantGraph   bool
		wantExplain bool
	}{
		{"none", NewTagSet(), false, false},
		{"graphs", NewTagSet(TagGraphs), true, false},
		{"explain", NewTagSet(TagExplain), false, true},
		{"reason only", NewTagSet(TagReason), false, false},
		{"all", NewTagSet(AllTags...), true, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := NewQueryRequest("q", tc.tags, "doc.pdf")
			if req.WantGraph != tc.wantGraph || req.WantExplain != tc.wantExplain {
				t.Errorf("graph=%v verbose=%v, want %v %v", req.WantGraph, req.WantExplain, tc.wantGraph, tc.wantExplain)
			}
		})
	}
}

func TestQueryRequest_WireFormat(t *testing.T) {
	req := NewQueryRequest("What?", NewTagSet(TagGraphs), "report.pdf")
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"query":"What?","graph":true,"verbose":false,"pdf_name":"report.pdf"}`
	if string(data) != want {
		t.Errorf("wire = %s, want %s", data, want)
	}
}

func TestQueryRequest_Empty(t *testing.T) {
	if !(QueryRequest{Query: "  \n\t"}).Empty() {
		t.Error("whitespace query should be empty")
	}
	if (QueryRequest{Query: " x "}).Empty() {
		t.Error("non-blank query should not be empty")
	}
}

func TestTagSet_Toggle(t *testing.T) {
	s := NewTagSet()
	s.Toggle(TagReason)
	s.Toggle(TagGraphs)
	if got := s.Selected(); !reflect.DeepEqual(got, []Tag{TagGraphs, TagReason}) {
		t.Errorf("Selected() = %v", got)
	}
	s.Toggle(TagGraphs)
	if s.Has(TagGraphs) {
		t.Error("Graphs should be deselected")
	}
}

func TestParseTag(t *testing.T) {
	if tag, ok := ParseTag(" explain "); !ok || tag != TagExplain {
		t.Errorf("ParseTag(explain) = %q, %v", tag, ok)
	}
	if _, ok := ParseTag("charts"); ok {
		t.Error("ParseTag(charts) should fail")
	}
}

// =============================================================================
// FRAME AND EVENT TESTS
// =============================================================================

func TestStreamFrame_MissingFlagIsFinal(t *testing.T) {
	var f StreamFrame
	if err := json.Unmarshal([]byte(`{"message":"done"}`), &f); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if f.IsStreaming {
		t.Error("missing isStreaming should decode as false")
	}
}

func TestStreamingEvent_Terminal(t *testing.T) {
	if PartialEvent("x", "p", nil).Terminal() {
		t.Error("partial should not be terminal")
	}
	if !FinalEvent("x", "f").Terminal() || !ErrorEvent("x", "e").Terminal() {
		t.Error("final and error should be terminal")
	}
}

// =============================================================================
// TABLE TESTS
// =============================================================================

func TestTableExtraction_RowsPadsMissingCells(t *testing.T) {
	tbl := TableExtraction{Data: []Column{
		{Name: "a", Cells: []Cell{{"0", "v1"}, {"1", "v2"}}},
		{Name: "b", Cells: []Cell{{"0", "w1"}}},
	}}
	want := [][]string{{"v1", "w1"}, {"v2", ""}}
	if got := tbl.Rows(); !reflect.DeepEqual(got, want) {
		t.Errorf("Rows() = %v, want %v", got, want)
	}
	if got := tbl.Headers(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Headers() = %v", got)
	}
}

// =============================================================================
// DOCUMENT TESTS
// =============================================================================

func TestTimestamp_Unmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"rfc3339", `"2025-03-01T10:00:00Z"`, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)},
		{"epoch int", `1740823200`, time.Unix(1740823200, 0).UTC()},
		{"epoch float", `1740823200.5`, time.Unix(1740823200, 500000000).UTC()},
		{"quoted epoch", `"1740823200"`, time.Unix(1740823200, 0).UTC()},
		{"null", `null`, time.Time{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var ts Timestamp
			if err := json.Unmarshal([]byte(tc.in), &ts); err != nil {
				t.Fatalf("Unmarshal(%s): %v", tc.in, err)
			}
			if !ts.Equal(tc.want) {
				t.Errorf("got %v, want %v", ts.Time, tc.want)
			}
		})
	}
}

func TestDocumentListing_Decode(t *testing.T) {
	body := `{"files":[{"name":"a.pdf","created_at":"2025-01-02T03:04:05Z"},{"name":"b.pdf","created_at":1700000000}]}`
	var l DocumentListing
	if err := json.Unmarshal([]byte(body), &l); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(l.Files) != 2 || l.Files[1].Name != "b.pdf" {
		t.Errorf("Files = %+v", l.Files)
	}
}
