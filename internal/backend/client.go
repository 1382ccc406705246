// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/thewaffle/waffle/internal/model"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the backend client.
type ClientError struct {
	Type       ErrorType
	Message    string
	StatusCode int
	// Detail is the server's "detail" field, when it sent one.
	Detail string
	Cause  error
}

func (e *ClientError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches sentinel errors by type.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	if t == e {
		return true
	}
	return t.Message == "" && t.Type == e.Type
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeStatus
	ErrTypeDecode
	ErrTypeValidation
)

// Sentinel errors for errors.Is checks. They match any ClientError of the
// same type.
var (
	ErrConnection = &ClientError{Type: ErrTypeConnection}
	ErrTimeout    = &ClientError{Type: ErrTypeTimeout}
	ErrStatus     = &ClientError{Type: ErrTypeStatus}
	ErrDecode     = &ClientError{Type: ErrTypeDecode}
	ErrValidation = &ClientError{Type: ErrTypeValidation}
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend base URL (default: http://localhost:8000)
	BaseURL string

	// Timeout bounds each request, including the upload body (default: 60s)
	Timeout time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL: "http://localhost:8000",
		Timeout: 60 * time.Second,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the backend's HTTP endpoints. It is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a backend client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a backend client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:8000"
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// UPLOAD
// =============================================================================

// uploadResponse is the success body of POST /upload/pdf.
type uploadResponse struct {
	Filename string `json:"filename"`
}

// errorResponse is the error body the backend sends on failure.
type errorResponse struct {
	Detail any `json:"detail"`
}

// UploadPDF posts a PDF as multipart form field "file" and returns the
// filename the backend stored it under.
func (c *Client) UploadPDF(ctx context.Context, filename string, body io.Reader) (string, error) {
	if strings.TrimSpace(filename) == "" {
		return "", &ClientError{Type: ErrTypeValidation, Message: "filename is required"}
	}

	// Stream the multipart body instead of buffering the whole PDF.
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", filename)
		if err == nil {
			_, err = io.Copy(part, body)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/upload/pdf", pr)
	if err != nil {
		pr.Close()
		return "", &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	log.Debug().Str("file", filename).Str("url", req.URL.String()).Msg("uploading document")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classifyTransportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ClientError{Type: ErrTypeConnection, Message: "failed to read response", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", statusError(resp, data)
	}

	var result uploadResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return "", &ClientError{Type: ErrTypeDecode, Message: "invalid upload response", Cause: err}
	}
	if strings.TrimSpace(result.Filename) == "" {
		return "", &ClientError{Type: ErrTypeDecode, Message: "upload response has no filename"}
	}
	return result.Filename, nil
}

// =============================================================================
// LISTING
// =============================================================================

// ListDocuments fetches GET /available-pdfs.
func (c *Client) ListDocuments(ctx context.Context) ([]model.AvailableDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/available-pdfs", nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to read response", Cause: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp, data)
	}

	var listing model.DocumentListing
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil, &ClientError{Type: ErrTypeDecode, Message: "invalid document listing", Cause: err}
	}
	log.Debug().Int("count", len(listing.Files)).Msg("fetched document listing")
	return listing.Files, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &ClientError{Type: ErrTypeTimeout, Message: "request timed out", Cause: err}
	}
	return &ClientError{
		Type:    ErrTypeConnection,
		Message: "could not reach backend",
		Cause:   pkgerrors.WithStack(err),
	}
}

func statusError(resp *http.Response, body []byte) *ClientError {
	ce := &ClientError{
		Type:       ErrTypeStatus,
		Message:    fmt.Sprintf("backend returned %s", resp.Status),
		StatusCode: resp.StatusCode,
	}
	var er errorResponse
	if json.Unmarshal(body, &er) == nil {
		ce.Detail = detailString(er.Detail)
	}
	return ce
}

// detailString flattens a FastAPI-style detail, which is either a string or
// a list of validation objects with a "msg" field.
func detailString(d any) string {
	switch v := d.(type) {
	case string:
		return v
	case []any:
		var msgs []string
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				if s, ok := m["msg"].(string); ok {
					msgs = append(msgs, s)
				}
			}
		}
		return strings.Join(msgs, "; ")
	default:
		return ""
	}
}
