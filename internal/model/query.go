// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "strings"

// =============================================================================
// TAGS
// =============================================================================

// Tag is a query modifier chosen from the tag bar.
type Tag string

const (
	TagGraphs  Tag = "Graphs"
	TagExplain Tag = "Explain"
	TagReason  Tag = "Reason"
)

// AllTags lists the tags in tag-bar order.
var AllTags = []Tag{TagGraphs, TagExplain, TagReason}

// ParseTag resolves a tag name case-insensitively.
func ParseTag(s string) (Tag, bool) {
	for _, t := range AllTags {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, true
		}
	}
	return "", false
}

// TagSet is the set of currently selected tags.
type TagSet map[Tag]bool

// NewTagSet returns a set with the given tags selected.
func NewTagSet(tags ...Tag) TagSet {
	s := make(TagSet, len(tags))
	for _, t := range tags {
		s[t] = true
	}
	return s
}

// Toggle flips the selection of a tag.
func (s TagSet) Toggle(t Tag) {
	if s[t] {
		delete(s, t)
		return
	}
	s[t] = true
}

// Has reports whether t is selected.
func (s TagSet) Has(t Tag) bool {
	return s[t]
}

// Selected returns the selected tags in tag-bar order.
func (s TagSet) Selected() []Tag {
	var out []Tag
	for _, t := range AllTags {
		if s[t] {
			out = append(out, t)
		}
	}
	return out
}

// =============================================================================
// QUERY REQUEST
// =============================================================================

// QueryRequest is the only frame a client sends on a streaming exchange.
// The graph and verbose flags are forwarded to the backend untouched.
type QueryRequest struct {
	Query        string `json:"query"`
	WantGraph    bool   `json:"graph"`
	WantExplain  bool   `json:"verbose"`
	DocumentName string `json:"pdf_name"`
}

// NewQueryRequest builds a request from the query text, the tag bar and
// the active document.
func NewQueryRequest(query string, tags TagSet, documentName string) QueryRequest {
	return QueryRequest{
		Query:        query,
		WantGraph:    tags.Has(TagGraphs),
		WantExplain:  tags.Has(TagExplain),
		DocumentName: documentName,
	}
}

// Empty reports whether the query is blank after trimming.
func (q QueryRequest) Empty() bool {
	return strings.TrimSpace(q.Query) == ""
}
