// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/rs/zerolog/log"

	"github.com/thewaffle/waffle/internal/backend"
	"github.com/thewaffle/waffle/internal/config"
	"github.com/thewaffle/waffle/internal/i18n"
	"github.com/thewaffle/waffle/internal/markdown"
	"github.com/thewaffle/waffle/internal/model"
	"github.com/thewaffle/waffle/internal/speech"
	"github.com/thewaffle/waffle/internal/stream"
	"github.com/thewaffle/waffle/internal/translate"
	"github.com/thewaffle/waffle/internal/upload"
)

// =============================================================================
// SERVICES
// =============================================================================

// services is every client a command may need, built once from config.
type services struct {
	cfg        *config.Config
	backend    *backend.Client
	stream     *stream.Client
	uploads    *upload.Flow
	renderer   *markdown.Renderer
	player     *speech.Player
	recognizer *speech.Recognizer
	translator *translate.Client
	language   i18n.Language
	tags       model.TagSet
}

// newServices wires the clients. Nothing here touches the network.
func newServices(cfg *config.Config) (*services, error) {
	lang, err := i18n.Parse(cfg.UI.Language)
	if err != nil {
		return nil, err
	}

	be := backend.NewClientWithConfig(&backend.ClientConfig{
		BaseURL: cfg.Backend.URL,
		Timeout: cfg.BackendTimeout(),
	})

	st := stream.New(&stream.Config{
		URL:              cfg.Stream.URL,
		HandshakeTimeout: cfg.HandshakeTimeout(),
		ReadLimit:        cfg.Stream.ReadLimitBytes,
	})

	player, err := speech.NewPlayer(speech.NewExecEngine(cfg.Speech.Synthesizer), cfg.Speech.DefaultRate)
	if err != nil {
		return nil, err
	}

	return &services{
		cfg:        cfg,
		backend:    be,
		stream:     st,
		uploads:    upload.NewFlow(be, cfg.Upload.Concurrency),
		renderer:   markdown.NewRenderer(),
		player:     player,
		recognizer: speech.NewRecognizer(cfg.Speech.Recognizer, cfg.Speech.RecognizerArgs),
		translator: translate.New(translate.OptionsFromConfig(cfg)),
		language:   lang,
		tags:       defaultTags(cfg.UI.DefaultTags),
	}, nil
}

// defaultTags resolves configured tag names. Validation has already
// rejected unknown names; anything left over is skipped.
func defaultTags(names []string) model.TagSet {
	tags := model.NewTagSet()
	for _, name := range names {
		if t, ok := model.ParseTag(name); ok {
			tags[t] = true
		} else {
			log.Warn().Str("tag", name).Msg("ignoring unknown default tag")
		}
	}
	return tags
}

// close releases the streaming connection and any speech process.
func (s *services) close() {
	s.player.Stop()
	s.recognizer.Stop()
	if err := s.stream.Close(); err != nil {
		log.Debug().Err(err).Msg("closing stream")
	}
}
