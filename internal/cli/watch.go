// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/thewaffle/waffle/internal/model"
	"github.com/thewaffle/waffle/internal/upload"
	"github.com/thewaffle/waffle/internal/util"
)

// =============================================================================
// WATCH COMMAND
// =============================================================================

func newWatchCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <dir>",
		Short: "Upload PDFs as they appear in a directory",
		Long:  "Watch a directory and upload every new or changed PDF once it has stopped changing. Runs until interrupted.",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := util.ExpandHome(args[0])
			info, err := os.Stat(dir)
			if err != nil || !info.IsDir() {
				return usageError("%s is not a directory", args[0])
			}

			svc, err := newServices(opts.cfg)
			if err != nil {
				return err
			}
			defer svc.close()

			out := cmd.OutOrStdout()
			var mu sync.Mutex
			notify := func(path string, res model.UploadResult) {
				mu.Lock()
				defer mu.Unlock()
				printResult(out, path, res.Message, res.Success)
			}

			w, err := upload.NewWatcher(svc.uploads, dir, opts.cfg.WatchDebounce(), notify)
			if err != nil {
				return errors.Wrapf(err, "watch %s", dir)
			}
			defer w.Close()

			ctx := cmd.Context()
			w.Start(ctx)
			fmt.Fprintf(out, "%s %s\n", TitleStyle.Render("Watching"), ValueStyle.Render(dir))

			<-ctx.Done()
			return nil
		},
	}
}
