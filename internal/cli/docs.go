// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/thewaffle/waffle/internal/model"
	"github.com/thewaffle/waffle/internal/util"
)

// =============================================================================
// DOCS COMMAND
// =============================================================================

// documentLister is satisfied by *backend.Client.
type documentLister interface {
	ListDocuments(ctx context.Context) ([]model.AvailableDocument, error)
}

func newDocsCommand(opts *rootOptions) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:     "docs",
		Aliases: []string{"ls"},
		Short:   "List documents available on the backend",
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := newServices(opts.cfg)
			if err != nil {
				return err
			}
			defer svc.close()
			return runDocs(cmd.Context(), cmd.OutOrStdout(), svc.backend, jsonOut, time.Now())
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the listing as JSON")
	return cmd
}

func runDocs(ctx context.Context, w io.Writer, lister documentLister, jsonOut bool, now time.Time) error {
	if jsonOut {
		return outputJSON(w, "docs", func() (any, error) {
			docs, err := lister.ListDocuments(ctx)
			if err != nil {
				return nil, errors.Wrap(err, "list documents")
			}
			return docs, nil
		})
	}

	docs, err := lister.ListDocuments(ctx)
	if err != nil {
		return errors.Wrap(err, "list documents")
	}
	if len(docs) == 0 {
		fmt.Fprintln(w, DimStyle.Render("No documents yet. Upload one with `waffle upload`."))
		return nil
	}

	for _, d := range newestFirst(docs) {
		fmt.Fprintf(w, "%s %s\n",
			ValueStyle.Render(util.PadWidth(d.Name, 40)),
			DimStyle.Render(util.TimeAgo(d.CreatedAt.Time, now)))
	}
	return nil
}

// newestFirst returns docs sorted by creation time, newest first.
func newestFirst(docs []model.AvailableDocument) []model.AvailableDocument {
	out := make([]model.AvailableDocument, len(docs))
	copy(out, docs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt.Time)
	})
	return out
}

// latestDocument picks the most recently created document.
func latestDocument(ctx context.Context, lister documentLister) (string, error) {
	docs, err := lister.ListDocuments(ctx)
	if err != nil {
		return "", errors.Wrap(err, "list documents")
	}
	if len(docs) == 0 {
		return "", usageError("no documents on the backend; upload one first or pass --doc")
	}
	return newestFirst(docs)[0].Name, nil
}
