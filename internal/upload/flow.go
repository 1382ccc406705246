// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package upload validates local PDFs and hands them to the backend.
//
// Upload never returns an error. Every outcome, including validation
// failures, is reported as a model.UploadResult with a user-facing message.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/thewaffle/waffle/internal/backend"
	"github.com/thewaffle/waffle/internal/model"
)

// =============================================================================
// MESSAGES
// =============================================================================

const (
	MsgNoFile           = "Please select a PDF file first"
	MsgInvalidFile      = "Please select a valid PDF file"
	MsgUploadFailed     = "Upload failed"
	MsgConnectionFailed = "Error connecting to server"
)

const pdfMIME = "application/pdf"

// SuccessMessage formats the message shown after a successful upload.
func SuccessMessage(name string) string {
	return fmt.Sprintf("File %s uploaded successfully!", name)
}

// =============================================================================
// FLOW
// =============================================================================

// Uploader sends one document to the backend. *backend.Client satisfies it.
type Uploader interface {
	UploadPDF(ctx context.Context, filename string, body io.Reader) (string, error)
}

// Flow runs validated uploads.
type Flow struct {
	uploader    Uploader
	concurrency int
}

// NewFlow creates a flow that runs at most concurrency uploads at once.
func NewFlow(uploader Uploader, concurrency int) *Flow {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Flow{uploader: uploader, concurrency: concurrency}
}

// Validate checks that path names a readable PDF. It touches only the local
// filesystem.
func Validate(path string) (string, bool) {
	if strings.TrimSpace(path) == "" {
		return MsgNoFile, false
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return MsgInvalidFile, false
	}
	mt, err := mimetype.DetectFile(path)
	if err != nil || !mt.Is(pdfMIME) {
		return MsgInvalidFile, false
	}
	return "", true
}

// Upload validates and uploads one file.
func (f *Flow) Upload(ctx context.Context, path string) model.UploadResult {
	if msg, ok := Validate(path); !ok {
		log.Debug().Str("path", path).Str("reason", msg).Msg("upload rejected")
		return model.UploadResult{Message: msg}
	}

	file, err := os.Open(path)
	if err != nil {
		return model.UploadResult{Message: MsgInvalidFile}
	}
	defer file.Close()

	name, err := f.uploader.UploadPDF(ctx, filepath.Base(path), file)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("upload failed")
		return model.UploadResult{Message: failureMessage(err)}
	}

	log.Info().Str("path", path).Str("document", name).Msg("uploaded document")
	return model.UploadResult{
		Success:      true,
		DocumentName: name,
		Message:      SuccessMessage(name),
	}
}

// UploadMany uploads paths concurrently. Results keep the order of paths.
func (f *Flow) UploadMany(ctx context.Context, paths []string) []model.UploadResult {
	results := make([]model.UploadResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)
	for i, p := range paths {
		g.Go(func() error {
			results[i] = f.Upload(gctx, p)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func failureMessage(err error) string {
	var ce *backend.ClientError
	if !errors.As(err, &ce) {
		return MsgUploadFailed
	}
	switch ce.Type {
	case backend.ErrTypeConnection, backend.ErrTypeTimeout:
		return MsgConnectionFailed
	case backend.ErrTypeStatus:
		if ce.Detail != "" {
			return ce.Detail
		}
		return MsgUploadFailed
	default:
		return MsgUploadFailed
	}
}
