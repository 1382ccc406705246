// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the waffle command line. With no subcommand it
// starts the full-screen TUI; the subcommands cover uploads, listings and
// one-shot questions for scripts and pipes.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/thewaffle/waffle/internal/config"
	"github.com/thewaffle/waffle/internal/logging"
	"github.com/thewaffle/waffle/internal/ui/app"
)

// Version information, set at build time.
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// =============================================================================
// ROOT COMMAND
// =============================================================================

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	verbose    bool
	logLevel   string

	cfg       *config.Config
	logCloser io.Closer
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "waffle",
		Short:         "Ask questions about your PDFs",
		Long:          "waffle uploads PDF documents to a Waffle backend and streams answers to your questions about them.",
		Version:       Version + " (" + GitCommit + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			opts.teardown()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !wantTUI() {
				log.Info().Msg("not a terminal, falling back to line chat")
				return runChat(cmd, opts, chatOptions{})
			}
			return runTUI(opts)
		},
	}

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: ExitUsageError, Err: err}
	})

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.waffle/config.toml)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log to stderr as well as the log file")
	flags.StringVar(&opts.logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(
		newUploadCommand(opts),
		newDocsCommand(opts),
		newAskCommand(opts),
		newChatCommand(opts),
		newWatchCommand(opts),
		newSpeakCommand(opts),
		newListenCommand(opts),
		newTranslateCommand(opts),
		newConfigCommand(opts),
	)
	return root
}

// setup loads config and installs the logger before any command runs.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	configureColors()

	// config init must work even when the current file is broken.
	if cmd.Annotations[annotationSkipConfig] == "true" {
		o.cfg = config.Default()
		return nil
	}

	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFromPath(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if cfg == nil {
		return &ExitError{Code: ExitConfigError, Err: errors.Wrap(err, "load config")}
	}
	config.SetGlobal(cfg)
	o.cfg = cfg

	closer, lerr := logging.Setup(cfg.Logging, logging.Options{Console: o.verbose, Level: o.logLevel})
	if lerr != nil {
		return errors.Wrap(lerr, "set up logging")
	}
	o.logCloser = closer

	if err != nil {
		// Load fell back to defaults; keep going but leave a trace.
		log.Warn().Err(err).Msg("using default config")
	}
	log.Debug().Str("command", cmd.CommandPath()).Msg("starting")
	return nil
}

func (o *rootOptions) teardown() {
	if o.logCloser != nil {
		_ = o.logCloser.Close()
	}
}

// wantTUI reports whether both ends of the session are a terminal. The
// full-screen UI needs to read keys and own the screen.
func wantTUI() bool {
	return IsTTY() && IsStdoutTTY()
}

// annotationSkipConfig marks commands that run on defaults.
const annotationSkipConfig = "waffle/skip-config"

// usageArgs turns positional argument failures into usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &ExitError{Code: ExitUsageError, Err: err}
		}
		return nil
	}
}

// =============================================================================
// TUI
// =============================================================================

func runTUI(opts *rootOptions) error {
	svc, err := newServices(opts.cfg)
	if err != nil {
		return err
	}
	defer svc.close()

	return app.Run(app.Options{
		Lister:     svc.backend,
		Uploader:   svc.uploads,
		Submitter:  svc.stream,
		Renderer:   svc.renderer,
		Player:     svc.player,
		Recognizer: svc.recognizer,
		Translator: svc.translator,
		Language:   svc.language,
		Tags:       svc.tags,
		ShowTables: opts.cfg.UI.ShowTables,
	})
}

// =============================================================================
// ENTRY POINT
// =============================================================================

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCommand()
	err := root.ExecuteContext(ctx)
	if err != nil {
		DisplayError(os.Stderr, err)
	}
	return GetExitCode(err)
}
