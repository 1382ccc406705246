// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for the document Q&A backend.
//
// It covers the two request/response endpoints: uploading a PDF and listing
// the documents the backend already knows. The streaming query socket lives
// in package stream.
//
// # Key Types
//
//   - Client: HTTP client for /upload/pdf and /available-pdfs
//   - ClientConfig: Base URL and timeout
//   - ClientError: Typed error with status code and server detail
//
// # Usage
//
//	client := backend.NewClientWithConfig(&backend.ClientConfig{
//	    BaseURL: "http://localhost:8000",
//	})
//	docs, err := client.ListDocuments(ctx)
//	name, err := client.UploadPDF(ctx, "report.pdf", file)
package backend
