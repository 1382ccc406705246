// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/spf13/cobra"

	"github.com/thewaffle/waffle/internal/upload"
)

// =============================================================================
// UPLOAD COMMAND
// =============================================================================

func newUploadCommand(opts *rootOptions) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "upload <file.pdf>...",
		Short: "Upload one or more PDF documents",
		Example: `  waffle upload report.pdf
  waffle upload ~/papers/*.pdf`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newServices(opts.cfg)
			if err != nil {
				return err
			}
			defer svc.close()
			return runUpload(cmd, svc.uploads, args, jsonOut)
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print results as JSON")
	return cmd
}

// uploadLine is one entry of the --json output.
type uploadLine struct {
	Path         string `json:"path"`
	Success      bool   `json:"success"`
	DocumentName string `json:"document_name,omitempty"`
	Message      string `json:"message"`
}

func runUpload(cmd *cobra.Command, flow *upload.Flow, paths []string, jsonOut bool) error {
	results := flow.UploadMany(cmd.Context(), paths)

	failed := 0
	lines := make([]uploadLine, len(results))
	for i, r := range results {
		if !r.Success {
			failed++
		}
		lines[i] = uploadLine{Path: paths[i], Success: r.Success, DocumentName: r.DocumentName, Message: r.Message}
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		if err := NewJSONResponse("upload", lines).Write(out); err != nil {
			return err
		}
	} else {
		for _, l := range lines {
			printResult(out, l.Path, l.Message, l.Success)
		}
	}

	if failed > 0 {
		return errAlreadyReported(ExitGeneralError)
	}
	return nil
}
