// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/thewaffle/waffle/internal/i18n"
	"github.com/thewaffle/waffle/internal/speech"
)

// =============================================================================
// SPEAK COMMAND
// =============================================================================

func newSpeakCommand(opts *rootOptions) *cobra.Command {
	var (
		lang string
		rate float64
	)

	cmd := &cobra.Command{
		Use:   "speak [text]",
		Short: "Read text aloud",
		Long:  "Read text aloud with the configured synthesizer. Reads stdin when no text is given.",
		Example: `  waffle speak "Hello"
  waffle speak --lang hi --rate 0.5 "नमस्ते"
  waffle ask --doc report.pdf "Summarize" | waffle speak`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newServices(opts.cfg)
			if err != nil {
				return err
			}
			defer svc.close()

			language := svc.language
			if lang != "" {
				if language, err = i18n.Parse(lang); err != nil {
					return usageError("%v", err)
				}
			}
			if cmd.Flags().Changed("rate") {
				if err := svc.player.SetRate(rate); err != nil {
					return usageError("%v", err)
				}
			}

			text, err := speakText(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			return speakAndWait(cmd, svc.player, text, language.SpeechLocale())
		},
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", "", "language (english, hindi)")
	cmd.Flags().Float64VarP(&rate, "rate", "r", 1, "speech rate (0.5, 1, 1.5)")
	return cmd
}

// speakText joins the arguments, or reads all of r when there are none.
func speakText(r io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", errors.Wrap(err, "read stdin")
	}
	return string(data), nil
}

// speakAndWait plays text and blocks until it ends or the command is
// interrupted.
func speakAndWait(cmd *cobra.Command, player *speech.Player, text, locale string) error {
	done := make(chan struct{}, 1)
	player.OnChange(func(s speech.State) {
		if s == speech.StateIdle {
			select {
			case done <- struct{}{}:
			default:
			}
		}
	})
	defer player.OnChange(nil)

	if err := player.Play(text, locale); err != nil {
		if errors.Is(err, speech.ErrNoText) {
			return usageError("%v", err)
		}
		return err
	}

	select {
	case <-done:
	case <-cmd.Context().Done():
		player.Stop()
	}
	return nil
}

// =============================================================================
// LISTEN COMMAND
// =============================================================================

func newListenCommand(opts *rootOptions) *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Print transcripts from the speech recognizer",
		Long:  "Run the configured speech recognizer and print each transcript on its own line until interrupted.",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := newServices(opts.cfg)
			if err != nil {
				return err
			}
			defer svc.close()

			language := svc.language
			if lang != "" {
				if language, err = i18n.Parse(lang); err != nil {
					return usageError("%v", err)
				}
			}

			out := cmd.OutOrStdout()
			lines := make(chan string, 16)
			ctx := cmd.Context()
			err = svc.recognizer.Start(ctx, language.SpeechLocale(), func(t string) {
				select {
				case lines <- t:
				case <-ctx.Done():
				}
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), DimStyle.Render(language.Strings().Listening))

			// The recognizer may exit on its own; poll so we notice.
			ticker := time.NewTicker(250 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case t := <-lines:
					fmt.Fprintln(out, t)
				case <-ticker.C:
					if !svc.recognizer.Listening() {
						return drain(out, lines)
					}
				case <-ctx.Done():
					return nil
				}
			}
		},
	}
	cmd.Flags().StringVarP(&lang, "lang", "l", "", "language (english, hindi)")
	return cmd
}

func drain(w io.Writer, lines <-chan string) error {
	for {
		select {
		case t := <-lines:
			fmt.Fprintln(w, t)
		default:
			return nil
		}
	}
}
