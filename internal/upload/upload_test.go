// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package upload

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thewaffle/waffle/internal/backend"
	"github.com/thewaffle/waffle/internal/model"
)

// =============================================================================
// HELPERS
// =============================================================================

const pdfBody = "%PDF-1.4\n1 0 obj << /Type /Catalog >> endobj\ntrailer\n%%EOF\n"

type fakeUploader struct {
	mu     sync.Mutex
	calls  []string
	err    error
	rename func(string) string

	inflight    int32
	maxInflight int32
	delay       time.Duration
}

func (f *fakeUploader) UploadPDF(_ context.Context, filename string, body io.Reader) (string, error) {
	n := atomic.AddInt32(&f.inflight, 1)
	defer atomic.AddInt32(&f.inflight, -1)
	for {
		m := atomic.LoadInt32(&f.maxInflight)
		if n <= m || atomic.CompareAndSwapInt32(&f.maxInflight, m, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	_, _ = io.Copy(io.Discard, body)

	f.mu.Lock()
	f.calls = append(f.calls, filename)
	f.mu.Unlock()

	if f.err != nil {
		return "", f.err
	}
	if f.rename != nil {
		return f.rename(filename), nil
	}
	return filename, nil
}

func (f *fakeUploader) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

// =============================================================================
// UPLOAD TESTS
// =============================================================================

func TestUpload_Validation(t *testing.T) {
	dir := t.TempDir()
	textFile := writeFile(t, dir, "notes.txt", "just some notes")
	fakePDF := writeFile(t, dir, "fake.pdf", "not really a pdf")

	tests := []struct {
		name string
		path string
		want string
	}{
		{"empty path", "", MsgNoFile},
		{"blank path", "   ", MsgNoFile},
		{"missing file", filepath.Join(dir, "missing.pdf"), MsgInvalidFile},
		{"directory", dir, MsgInvalidFile},
		{"text file", textFile, MsgInvalidFile},
		{"pdf extension wrong content", fakePDF, MsgInvalidFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := &fakeUploader{}
			res := NewFlow(up, 1).Upload(context.Background(), tt.path)

			assert.False(t, res.Success)
			assert.Equal(t, tt.want, res.Message)
			assert.Zero(t, up.callCount(), "invalid input must never reach the network")
		})
	}
}

func TestUpload_Success(t *testing.T) {
	path := writeFile(t, t.TempDir(), "report.pdf", pdfBody)
	up := &fakeUploader{rename: func(string) string { return "report_1.pdf" }}

	res := NewFlow(up, 1).Upload(context.Background(), path)

	assert.True(t, res.Success)
	assert.Equal(t, "report_1.pdf", res.DocumentName)
	assert.Equal(t, "File report_1.pdf uploaded successfully!", res.Message)
	assert.Equal(t, []string{"report.pdf"}, up.calls)
}

func TestUpload_Failures(t *testing.T) {
	path := writeFile(t, t.TempDir(), "report.pdf", pdfBody)

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"status with detail", &backend.ClientError{Type: backend.ErrTypeStatus, StatusCode: 400, Detail: "Only PDF files are allowed"}, "Only PDF files are allowed"},
		{"status without detail", &backend.ClientError{Type: backend.ErrTypeStatus, StatusCode: 500}, MsgUploadFailed},
		{"decode", &backend.ClientError{Type: backend.ErrTypeDecode}, MsgUploadFailed},
		{"connection", &backend.ClientError{Type: backend.ErrTypeConnection}, MsgConnectionFailed},
		{"timeout", &backend.ClientError{Type: backend.ErrTypeTimeout}, MsgConnectionFailed},
		{"other", errors.New("boom"), MsgUploadFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewFlow(&fakeUploader{err: tt.err}, 1).Upload(context.Background(), path)
			assert.False(t, res.Success)
			assert.Equal(t, tt.want, res.Message)
		})
	}
}

func TestUploadMany_OrderAndLimit(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, n := range []string{"a.pdf", "b.pdf", "c.pdf", "d.pdf", "e.pdf"} {
		paths = append(paths, writeFile(t, dir, n, pdfBody))
	}
	paths = append(paths, writeFile(t, dir, "f.txt", "text"))

	up := &fakeUploader{delay: 20 * time.Millisecond}
	results := NewFlow(up, 2).UploadMany(context.Background(), paths)

	require.Len(t, results, 6)
	for i, n := range []string{"a.pdf", "b.pdf", "c.pdf", "d.pdf", "e.pdf"} {
		assert.True(t, results[i].Success)
		assert.Equal(t, n, results[i].DocumentName)
	}
	assert.Equal(t, MsgInvalidFile, results[5].Message)
	assert.LessOrEqual(t, atomic.LoadInt32(&up.maxInflight), int32(2))
	assert.Equal(t, 5, up.callCount())
}

// =============================================================================
// WATCHER TESTS
// =============================================================================

func TestWatcher_UploadsNewPDFs(t *testing.T) {
	dir := t.TempDir()
	up := &fakeUploader{}

	got := make(chan model.UploadResult, 4)
	w, err := NewWatcher(NewFlow(up, 1), dir, 50*time.Millisecond, func(_ string, res model.UploadResult) {
		got <- res
	})
	require.NoError(t, err)
	w.Start(context.Background())
	defer w.Close()

	writeFile(t, dir, "ignored.txt", "hello")
	writeFile(t, dir, "new.pdf", pdfBody)

	select {
	case res := <-got:
		assert.True(t, res.Success)
		assert.Equal(t, "new.pdf", res.DocumentName)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not upload the new PDF")
	}

	select {
	case res := <-got:
		t.Fatalf("unexpected second upload: %+v", res)
	case <-time.After(200 * time.Millisecond):
	}
	assert.Equal(t, 1, up.callCount())
}

func TestNewWatcher_MissingDir(t *testing.T) {
	_, err := NewWatcher(NewFlow(&fakeUploader{}, 1), filepath.Join(t.TempDir(), "nope"), 0, nil)
	assert.Error(t, err)
}
