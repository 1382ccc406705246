// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// =============================================================================
// AVAILABLE DOCUMENTS
// =============================================================================

// AvailableDocument is an entry of the backend document listing.
type AvailableDocument struct {
	Name      string    `json:"name"`
	CreatedAt Timestamp `json:"created_at"`
}

// Timestamp accepts RFC 3339 strings and Unix seconds (integer or
// fractional) when decoding.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			t.Time = time.Time{}
			return nil
		}
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02 15:04:05"} {
			if parsed, err := time.Parse(layout, s); err == nil {
				t.Time = parsed
				return nil
			}
		}
		// Some servers quote epoch seconds.
		if secs, err := strconv.ParseFloat(s, 64); err == nil {
			t.Time = fromUnixFloat(secs)
			return nil
		}
		return fmt.Errorf("invalid timestamp %q", s)
	}

	secs, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp %s", data)
	}
	t.Time = fromUnixFloat(secs)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.UTC().Format(time.RFC3339))
}

func fromUnixFloat(secs float64) time.Time {
	whole, frac := math.Modf(secs)
	return time.Unix(int64(whole), int64(frac*1e9)).UTC()
}

// DocumentListing is the body of GET /available-pdfs.
type DocumentListing struct {
	Files []AvailableDocument `json:"files"`
}

// =============================================================================
// UPLOAD RESULT
// =============================================================================

// UploadResult is the outcome of the upload flow. Failures are values,
// not errors: Message always holds the text shown to the user.
type UploadResult struct {
	Success      bool   `json:"success"`
	DocumentName string `json:"document_name,omitempty"`
	Message      string `json:"message"`
}
