// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for waffle.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// .env files, environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - BackendConfig: HTTP backend address and request timeout
//   - StreamConfig: Streaming query socket settings
//   - SpeechConfig: External speech synthesizer and recognizer commands
//   - TranslateConfig: Translation API key, endpoint, and rate limit
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (WAFFLE_*, GOOGLE_TRANSLATE_API_KEY)
//   - A .env file in the working directory
//   - ~/.waffle/config.toml
//   - ~/.waffle/config.json
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Access settings:
//
//	backend := cfg.Backend.URL
//	lang := cfg.UI.Language
package config
