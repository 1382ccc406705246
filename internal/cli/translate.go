// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thewaffle/waffle/internal/i18n"
)

// =============================================================================
// TRANSLATE COMMAND
// =============================================================================

func newTranslateCommand(opts *rootOptions) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "translate [text]",
		Short: "Translate text between English and Hindi",
		Long: `Translate text with the configured translation API. Reads stdin when no
text is given. Without an API key the text is printed unchanged.`,
		Example: `  waffle translate --to hi "Where is the summary?"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := i18n.Parse(to)
			if err != nil {
				return usageError("%v", err)
			}

			svc, err := newServices(opts.cfg)
			if err != nil {
				return err
			}
			defer svc.close()

			if !svc.translator.Enabled() {
				fmt.Fprintln(cmd.ErrOrStderr(), DimStyle.Render("No translation API key configured; printing text unchanged."))
			}

			text, err := speakText(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			out := svc.translator.Translate(cmd.Context(), strings.TrimRight(text, "\n"), target.TranslateTarget())
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVarP(&to, "to", "t", "hindi", "target language (english, hindi)")
	return cmd
}
