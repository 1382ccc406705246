// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClientWithConfig(&ClientConfig{BaseURL: srv.URL + "/", Timeout: 5 * time.Second})
}

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestNewClientWithConfig_Defaults(t *testing.T) {
	c := NewClientWithConfig(&ClientConfig{})
	assert.Equal(t, "http://localhost:8000", c.BaseURL())
	assert.Equal(t, 60*time.Second, c.config.Timeout)

	c = NewClientWithConfig(nil)
	assert.Equal(t, "http://localhost:8000", c.BaseURL())
}

// =============================================================================
// UPLOAD TESTS
// =============================================================================

func TestUploadPDF_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/upload/pdf", r.URL.Path)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		body, _ := io.ReadAll(file)
		assert.Equal(t, "report.pdf", header.Filename)
		assert.Equal(t, "%PDF-1.4 test", string(body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"filename":"report_v2.pdf"}`))
	})

	name, err := client.UploadPDF(context.Background(), "report.pdf", strings.NewReader("%PDF-1.4 test"))
	require.NoError(t, err)
	assert.Equal(t, "report_v2.pdf", name)
}

func TestUploadPDF_StatusErrorWithDetail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"Only PDF files are allowed"}`))
	})

	_, err := client.UploadPDF(context.Background(), "x.pdf", strings.NewReader("data"))
	require.Error(t, err)

	var ce *ClientError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ErrTypeStatus, ce.Type)
	assert.Equal(t, http.StatusBadRequest, ce.StatusCode)
	assert.Equal(t, "Only PDF files are allowed", ce.Detail)
	assert.True(t, errors.Is(err, ErrStatus))
}

func TestUploadPDF_ValidationDetailList(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":[{"loc":["body","file"],"msg":"field required"}]}`))
	})

	_, err := client.UploadPDF(context.Background(), "x.pdf", strings.NewReader("data"))
	var ce *ClientError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "field required", ce.Detail)
}

func TestUploadPDF_BadJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>ok</html>`))
	})

	_, err := client.UploadPDF(context.Background(), "x.pdf", strings.NewReader("data"))
	assert.True(t, errors.Is(err, ErrDecode), "got %v", err)
}

func TestUploadPDF_MissingFilenameInResponse(t *testing.T) {
	for _, body := range []string{`{}`, `{"filename":""}`, `{"status":"ok"}`} {
		t.Run(body, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})

			name, err := client.UploadPDF(context.Background(), "x.pdf", strings.NewReader("data"))
			assert.Empty(t, name)
			assert.True(t, errors.Is(err, ErrDecode), "got %v", err)
		})
	}
}

func TestUploadPDF_EmptyFilename(t *testing.T) {
	c := NewClient()
	_, err := c.UploadPDF(context.Background(), " ", strings.NewReader(""))
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestUploadPDF_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: url, Timeout: 2 * time.Second})
	_, err := c.UploadPDF(context.Background(), "x.pdf", strings.NewReader("data"))
	assert.True(t, errors.Is(err, ErrConnection), "got %v", err)
}

// =============================================================================
// LISTING TESTS
// =============================================================================

func TestListDocuments(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/available-pdfs", r.URL.Path)
		_, _ = w.Write([]byte(`{"files":[{"name":"a.pdf","created_at":"2025-01-02T03:04:05Z"},{"name":"b.pdf","created_at":1700000000.25}]}`))
	})

	docs, err := client.ListDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a.pdf", docs[0].Name)
	assert.Equal(t, 2025, docs[0].CreatedAt.Year())
	assert.Equal(t, int64(1700000000), docs[1].CreatedAt.Unix())
}

func TestListDocuments_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.ListDocuments(context.Background())
	var ce *ClientError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, http.StatusInternalServerError, ce.StatusCode)
	assert.Empty(t, ce.Detail)
}

func TestListDocuments_Timeout(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := client.ListDocuments(ctx)
	assert.True(t, errors.Is(err, ErrTimeout), "got %v", err)
}
