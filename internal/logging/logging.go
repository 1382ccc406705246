// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging configures the process-wide zerolog logger.
//
// The TUI owns the terminal, so by default log records go to a JSON file
// rotated by lumberjack. Non-interactive commands can additionally mirror
// records to stderr through a console writer.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/thewaffle/waffle/internal/config"
)

// Options controls Setup.
type Options struct {
	// Console mirrors records to stderr in human-readable form.
	Console bool

	// Level overrides the configured level when non-empty.
	Level string
}

// Setup installs the global logger from the logging config and returns a
// closer for the log file.
func Setup(cfg config.LoggingConfig, opts Options) (io.Closer, error) {
	level := cfg.Level
	if opts.Level != "" {
		level = opts.Level
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}

	var out io.Writer = rotator
	if opts.Console {
		console := zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.Out = os.Stderr
			w.TimeFormat = time.Kitchen
		})
		out = zerolog.MultiLevelWriter(rotator, console)
	}

	log.Logger = New(out, level)
	zerolog.DefaultContextLogger = &log.Logger
	return rotator, nil
}

// New builds a timestamped logger at the given level.
func New(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// ParseLevel maps a config level name to a zerolog level.
// Unknown names fall back to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
