// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// output.go - Shared styles and JSON output for CLI commands.

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/thewaffle/waffle/internal/ui/styles"
)

// =============================================================================
// SHARED STYLES
// =============================================================================

var (
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(styles.Orange)
	LabelStyle   = lipgloss.NewStyle().Foreground(styles.TextMuted).Width(12)
	ValueStyle   = lipgloss.NewStyle().Foreground(styles.TextPrimary)
	DimStyle     = lipgloss.NewStyle().Foreground(styles.TextMuted)
	SuccessStyle = lipgloss.NewStyle().Foreground(styles.Emerald).Bold(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(styles.Rose).Bold(true)
	PromptStyle  = lipgloss.NewStyle().Foreground(styles.Orange).Bold(true)
)

// configureColors applies the detected color profile to lipgloss.
func configureColors() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// =============================================================================
// JSON OUTPUT
// =============================================================================

// JSONResponse is the envelope every --json command prints.
type JSONResponse struct {
	Success   bool    `json:"success"`
	Data      any     `json:"data"`
	Error     *string `json:"error"`
	Timestamp string  `json:"timestamp"`
	Command   string  `json:"command,omitempty"`
}

// NewJSONResponse creates a successful response.
func NewJSONResponse(command string, data any) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a failed response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	msg := err.Error()
	return &JSONResponse{
		Error:     &msg,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Write encodes the response, indented, to w.
func (r *JSONResponse) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// outputJSON runs handler and prints its result as a JSON envelope.
func outputJSON(w io.Writer, command string, handler func() (any, error)) error {
	data, err := handler()
	if err != nil {
		if werr := NewJSONErrorResponse(command, err).Write(w); werr != nil {
			return werr
		}
		return err
	}
	return NewJSONResponse(command, data).Write(w)
}

// printResult prints one upload outcome line.
func printResult(w io.Writer, path, message string, ok bool) {
	mark := ErrorStyle.Render("✗")
	if ok {
		mark = SuccessStyle.Render("✓")
	}
	fmt.Fprintf(w, "%s %s %s\n", mark, DimStyle.Render(path), message)
}
