// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for waffle.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/thewaffle/waffle/internal/util"
)

// =============================================================================
// CONFIG STRUCTURE
// =============================================================================

// Config is the main configuration structure for waffle.
type Config struct {
	Version string `toml:"version" json:"version"`

	Backend   BackendConfig   `toml:"backend" json:"backend"`
	Stream    StreamConfig    `toml:"stream" json:"stream"`
	UI        UIConfig        `toml:"ui" json:"ui"`
	Speech    SpeechConfig    `toml:"speech" json:"speech"`
	Translate TranslateConfig `toml:"translate" json:"translate"`
	Upload    UploadConfig    `toml:"upload" json:"upload"`
	Logging   LoggingConfig   `toml:"logging" json:"logging"`
}

// BackendConfig holds the HTTP backend settings.
type BackendConfig struct {
	// URL is the base URL for /upload/pdf and /available-pdfs.
	URL string `toml:"url" json:"url"`

	// TimeoutSeconds bounds a single HTTP request.
	TimeoutSeconds int `toml:"timeout_seconds" json:"timeout_seconds"`
}

// StreamConfig holds the streaming query socket settings.
type StreamConfig struct {
	URL                     string `toml:"url" json:"url"`
	HandshakeTimeoutSeconds int    `toml:"handshake_timeout_seconds" json:"handshake_timeout_seconds"`
	ReadLimitBytes          int64  `toml:"read_limit_bytes" json:"read_limit_bytes"`
}

// UIConfig holds terminal UI preferences.
type UIConfig struct {
	Language    string   `toml:"language" json:"language"`
	DefaultTags []string `toml:"default_tags" json:"default_tags"`
	ShowTables  bool     `toml:"show_tables" json:"show_tables"`
	WordWrap    int      `toml:"word_wrap" json:"word_wrap"`

	// ExportDir is where /export writes transcripts.
	ExportDir string `toml:"export_dir" json:"export_dir"`
}

// SpeechConfig configures the external speech processes.
type SpeechConfig struct {
	// Synthesizer is the text-to-speech command (espeak-ng, spd-say, say).
	Synthesizer string `toml:"synthesizer" json:"synthesizer"`

	// Recognizer is a command that prints JSON transcript lines on stdout.
	// Speech input is unavailable when empty.
	Recognizer     string   `toml:"recognizer" json:"recognizer"`
	RecognizerArgs []string `toml:"recognizer_args" json:"recognizer_args"`

	DefaultRate float64 `toml:"default_rate" json:"default_rate"`
}

// TranslateConfig configures the optional translation helper.
type TranslateConfig struct {
	APIKey            string  `toml:"api_key" json:"api_key"`
	Endpoint          string  `toml:"endpoint" json:"endpoint"`
	RequestsPerSecond float64 `toml:"requests_per_second" json:"requests_per_second"`
	CacheTTLMinutes   int     `toml:"cache_ttl_minutes" json:"cache_ttl_minutes"`
}

// UploadConfig configures batch and watched uploads.
type UploadConfig struct {
	Concurrency     int `toml:"concurrency" json:"concurrency"`
	WatchDebounceMs int `toml:"watch_debounce_ms" json:"watch_debounce_ms"`
}

// LoggingConfig configures the rotating log file.
type LoggingConfig struct {
	Level      string `toml:"level" json:"level"`
	File       string `toml:"file" json:"file"`
	MaxSizeMB  int    `toml:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" json:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days" json:"max_age_days"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config with every field set to its default.
func Default() *Config {
	return &Config{
		Version: "1",
		Backend: BackendConfig{
			URL:            "http://localhost:8000",
			TimeoutSeconds: 60,
		},
		Stream: StreamConfig{
			URL:                     "ws://localhost:8000/ws/query",
			HandshakeTimeoutSeconds: 10,
			ReadLimitBytes:          8 << 20,
		},
		UI: UIConfig{
			Language:   "english",
			ShowTables: true,
			WordWrap:   80,
			ExportDir:  ".",
		},
		Speech: SpeechConfig{
			Synthesizer: "espeak-ng",
			DefaultRate: 1,
		},
		Translate: TranslateConfig{
			Endpoint:          "https://translation.googleapis.com/language/translate/v2",
			RequestsPerSecond: 5,
			CacheTTLMinutes:   30,
		},
		Upload: UploadConfig{
			Concurrency:     3,
			WatchDebounceMs: 500,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
	}
}

// BackendTimeout returns the HTTP timeout as a duration.
func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

// HandshakeTimeout returns the socket handshake timeout as a duration.
func (c *Config) HandshakeTimeout() time.Duration {
	return time.Duration(c.Stream.HandshakeTimeoutSeconds) * time.Second
}

// WatchDebounce returns the watcher debounce as a duration.
func (c *Config) WatchDebounce() time.Duration {
	return time.Duration(c.Upload.WatchDebounceMs) * time.Millisecond
}

// TranslateCacheTTL returns the translation cache TTL as a duration.
func (c *Config) TranslateCacheTTL() time.Duration {
	return time.Duration(c.Translate.CacheTTLMinutes) * time.Minute
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the waffle configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".waffle"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// DefaultLogPath returns ~/.waffle/waffle.log.
func DefaultLogPath() string {
	dir, err := ConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "waffle.log")
	}
	return filepath.Join(dir, "waffle.log")
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// The .env file and environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	if tomlPath, err := ConfigPathTOML(); err == nil && fileExists(tomlPath) {
		if err := LoadTOML(cfg, tomlPath); err != nil {
			loadErr = fmt.Errorf("failed to load TOML config: %w", err)
			cfg = Default()
		} else {
			return finish(cfg)
		}
	} else if jsonPath, err := ConfigPathJSON(); err == nil && fileExists(jsonPath) {
		if err := LoadJSON(cfg, jsonPath); err != nil {
			loadErr = fmt.Errorf("failed to load JSON config: %w", err)
			cfg = Default()
		} else {
			return finish(cfg)
		}
	}

	cfg, err := finish(cfg)
	if err != nil {
		return nil, err
	}
	// Return defaults with the load error for informational purposes.
	return cfg, loadErr
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else if err := LoadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
	}
	return finish(cfg)
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	fillDefaults(cfg)
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	fillDefaults(cfg)
	return nil
}

func finish(cfg *Config) (*Config, error) {
	// A missing .env is the normal case.
	_ = godotenv.Load()
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	fillDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// fillDefaults fills in any zero values with defaults.
func fillDefaults(cfg *Config) {
	d := Default()

	if cfg.Version == "" {
		cfg.Version = d.Version
	}
	if cfg.Backend.URL == "" {
		cfg.Backend.URL = d.Backend.URL
	}
	if cfg.Backend.TimeoutSeconds == 0 {
		cfg.Backend.TimeoutSeconds = d.Backend.TimeoutSeconds
	}
	if cfg.Stream.URL == "" {
		cfg.Stream.URL = d.Stream.URL
	}
	if cfg.Stream.HandshakeTimeoutSeconds == 0 {
		cfg.Stream.HandshakeTimeoutSeconds = d.Stream.HandshakeTimeoutSeconds
	}
	if cfg.Stream.ReadLimitBytes == 0 {
		cfg.Stream.ReadLimitBytes = d.Stream.ReadLimitBytes
	}
	if cfg.UI.Language == "" {
		cfg.UI.Language = d.UI.Language
	}
	if cfg.UI.WordWrap == 0 {
		cfg.UI.WordWrap = d.UI.WordWrap
	}
	if cfg.UI.ExportDir == "" {
		cfg.UI.ExportDir = d.UI.ExportDir
	}
	if cfg.Speech.Synthesizer == "" {
		cfg.Speech.Synthesizer = d.Speech.Synthesizer
	}
	if cfg.Speech.DefaultRate == 0 {
		cfg.Speech.DefaultRate = d.Speech.DefaultRate
	}
	if cfg.Translate.Endpoint == "" {
		cfg.Translate.Endpoint = d.Translate.Endpoint
	}
	if cfg.Translate.RequestsPerSecond == 0 {
		cfg.Translate.RequestsPerSecond = d.Translate.RequestsPerSecond
	}
	if cfg.Translate.CacheTTLMinutes == 0 {
		cfg.Translate.CacheTTLMinutes = d.Translate.CacheTTLMinutes
	}
	if cfg.Upload.Concurrency == 0 {
		cfg.Upload.Concurrency = d.Upload.Concurrency
	}
	if cfg.Upload.WatchDebounceMs == 0 {
		cfg.Upload.WatchDebounceMs = d.Upload.WatchDebounceMs
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = d.Logging.Level
	}
	if cfg.Logging.File == "" {
		cfg.Logging.File = DefaultLogPath()
	}
	if cfg.Logging.MaxSizeMB == 0 {
		cfg.Logging.MaxSizeMB = d.Logging.MaxSizeMB
	}
	if cfg.Logging.MaxBackups == 0 {
		cfg.Logging.MaxBackups = d.Logging.MaxBackups
	}
	if cfg.Logging.MaxAgeDays == 0 {
		cfg.Logging.MaxAgeDays = d.Logging.MaxAgeDays
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// SaveTOML writes cfg to path atomically.
func SaveTOML(cfg *Config, path string) error {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	// The file may hold an API key.
	if err := util.AtomicWriteFileWithDir(path, []byte(b.String()), 0600, 0755); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if err := validateURL(c.Backend.URL, "http", "https"); err != "" {
		errs = append(errs, ValidationError{Field: "backend.url", Message: err})
	}
	if c.Backend.TimeoutSeconds < 0 {
		errs = append(errs, ValidationError{Field: "backend.timeout_seconds", Message: "must not be negative"})
	}
	if err := validateURL(c.Stream.URL, "ws", "wss"); err != "" {
		errs = append(errs, ValidationError{Field: "stream.url", Message: err})
	}
	if c.Stream.ReadLimitBytes < 0 {
		errs = append(errs, ValidationError{Field: "stream.read_limit_bytes", Message: "must not be negative"})
	}

	switch strings.ToLower(c.UI.Language) {
	case "english", "hindi", "en", "hi":
	default:
		errs = append(errs, ValidationError{
			Field:   "ui.language",
			Message: fmt.Sprintf("invalid language '%s', must be one of: english, hindi", c.UI.Language),
		})
	}
	for _, tag := range c.UI.DefaultTags {
		switch strings.ToLower(tag) {
		case "graphs", "explain", "reason":
		default:
			errs = append(errs, ValidationError{
				Field:   "ui.default_tags",
				Message: fmt.Sprintf("unknown tag '%s', must be one of: Graphs, Explain, Reason", tag),
			})
		}
	}

	switch c.Speech.DefaultRate {
	case 0.5, 1, 1.5:
	default:
		errs = append(errs, ValidationError{
			Field:   "speech.default_rate",
			Message: fmt.Sprintf("invalid rate %v, must be one of: 0.5, 1, 1.5", c.Speech.DefaultRate),
		})
	}

	if c.Translate.RequestsPerSecond < 0 {
		errs = append(errs, ValidationError{Field: "translate.requests_per_second", Message: "must not be negative"})
	}
	if c.Upload.Concurrency < 0 || c.Upload.Concurrency > 16 {
		errs = append(errs, ValidationError{Field: "upload.concurrency", Message: "must be between 1 and 16"})
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error", "disabled":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error, disabled", c.Logging.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateURL(raw string, schemes ...string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Sprintf("invalid URL '%s': %v", raw, err)
	}
	for _, s := range schemes {
		if u.Scheme == s {
			if u.Host == "" {
				return fmt.Sprintf("URL '%s' has no host", raw)
			}
			return ""
		}
	}
	return fmt.Sprintf("URL '%s' must use scheme %s", raw, strings.Join(schemes, " or "))
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// envOverrides lists every environment variable waffle reads.
type envOverrides struct {
	BackendURL      string  `env:"WAFFLE_BACKEND_URL"`
	StreamURL       string  `env:"WAFFLE_STREAM_URL"`
	Language        string  `env:"WAFFLE_LANGUAGE"`
	LogLevel        string  `env:"WAFFLE_LOG_LEVEL"`
	LogFile         string  `env:"WAFFLE_LOG_FILE"`
	Synthesizer     string  `env:"WAFFLE_SPEECH_SYNTHESIZER"`
	Recognizer      string  `env:"WAFFLE_SPEECH_RECOGNIZER"`
	SpeechRate      float64 `env:"WAFFLE_SPEECH_RATE"`
	TranslateAPIKey string  `env:"WAFFLE_TRANSLATE_API_KEY"`
	GoogleAPIKey    string  `env:"GOOGLE_TRANSLATE_API_KEY"`
	PublicAPIKey    string  `env:"NEXT_PUBLIC_GOOGLE_TRANSLATE_API_KEY"`
}

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - WAFFLE_BACKEND_URL: overrides backend.url
//   - WAFFLE_STREAM_URL: overrides stream.url
//   - WAFFLE_LANGUAGE: overrides ui.language
//   - WAFFLE_LOG_LEVEL, WAFFLE_LOG_FILE: override logging
//   - WAFFLE_SPEECH_SYNTHESIZER, WAFFLE_SPEECH_RECOGNIZER, WAFFLE_SPEECH_RATE
//   - WAFFLE_TRANSLATE_API_KEY, then GOOGLE_TRANSLATE_API_KEY, then
//     NEXT_PUBLIC_GOOGLE_TRANSLATE_API_KEY: translate.api_key
func (c *Config) ApplyEnvOverrides() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	setIf(&c.Backend.URL, o.BackendURL)
	setIf(&c.Stream.URL, o.StreamURL)
	setIf(&c.UI.Language, o.Language)
	setIf(&c.Logging.Level, o.LogLevel)
	setIf(&c.Logging.File, o.LogFile)
	setIf(&c.Speech.Synthesizer, o.Synthesizer)
	setIf(&c.Speech.Recognizer, o.Recognizer)
	if o.SpeechRate != 0 {
		c.Speech.DefaultRate = o.SpeechRate
	}
	for _, key := range []string{o.TranslateAPIKey, o.GoogleAPIKey, o.PublicAPIKey} {
		if key != "" {
			c.Translate.APIKey = key
			break
		}
	}
	return nil
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// =============================================================================
// DISPLAY
// =============================================================================

// String returns the configuration as TOML with secrets masked.
func (c *Config) String() string {
	safe := *c
	if safe.Translate.APIKey != "" {
		safe.Translate.APIKey = util.MaskSecret(safe.Translate.APIKey)
	}
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(safe); err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return b.String()
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			if cfg == nil {
				cfg = Default()
				fillDefaults(cfg)
			}
		}
		globalConfigMu.Lock()
		globalConfig = cfg
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigOnce.Do(func() {})
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
