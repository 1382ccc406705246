// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package translate wraps the Google Translate v2 REST API.
//
// Translation is best effort: without an API key, or on any failure, the
// original text is returned unchanged.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/thewaffle/waffle/internal/config"
)

// DefaultEndpoint is the public v2 endpoint.
const DefaultEndpoint = "https://translation.googleapis.com/language/translate/v2"

// Options configures a Client.
type Options struct {
	APIKey            string
	Endpoint          string
	RequestsPerSecond float64
	CacheTTL          time.Duration
	HTTPClient        *http.Client
}

// OptionsFromConfig maps the translate section of the config.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		APIKey:            cfg.Translate.APIKey,
		Endpoint:          cfg.Translate.Endpoint,
		RequestsPerSecond: cfg.Translate.RequestsPerSecond,
		CacheTTL:          cfg.TranslateCacheTTL(),
	}
}

// Client translates text. It is safe for concurrent use.
type Client struct {
	apiKey   string
	endpoint string
	http     *http.Client
	limiter  *rate.Limiter
	cache    *cache.Cache
}

// New creates a client from opts, filling in defaults.
func New(opts Options) *Client {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 5
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 30 * time.Minute
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		apiKey:   opts.APIKey,
		endpoint: opts.Endpoint,
		http:     opts.HTTPClient,
		limiter:  rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		cache:    cache.New(opts.CacheTTL, 2*opts.CacheTTL),
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// Translate returns text in the target language, or text itself when
// translation is unavailable.
func (c *Client) Translate(ctx context.Context, text, target string) string {
	if !c.Enabled() || strings.TrimSpace(text) == "" || target == "" {
		return text
	}

	key := target + "\x00" + text
	if v, ok := c.cache.Get(key); ok {
		return v.(string)
	}

	out, err := c.request(ctx, text, target)
	if err != nil {
		log.Error().Err(err).Str("target", target).Msg("translation failed")
		return text
	}
	c.cache.SetDefault(key, out)
	return out
}

// apiKeyHeader carries the API key, as the Google APIs accept.
const apiKeyHeader = "X-Goog-Api-Key"

type requestBody struct {
	Q      string `json:"q"`
	Target string `json:"target"`
	Format string `json:"format"`
}

type responseBody struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
}

func (c *Client) request(ctx context.Context, text, target string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", errors.Wrap(err, "rate limit")
	}

	body, err := json.Marshal(requestBody{Q: text, Target: target, Format: "text"})
	if err != nil {
		return "", errors.Wrap(err, "encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	// The key stays out of the URL so it never shows up in logged errors.
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		return "", errors.Wrap(err, "send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("translation API error: %d", resp.StatusCode)
	}

	var rb responseBody
	if err := json.NewDecoder(resp.Body).Decode(&rb); err != nil {
		return "", errors.Wrap(err, "decode response")
	}
	if len(rb.Data.Translations) == 0 {
		return "", errors.New("no translations in response")
	}
	return rb.Data.Translations[0].TranslatedText, nil
}
