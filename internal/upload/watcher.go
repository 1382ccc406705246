// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package upload

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/thewaffle/waffle/internal/model"
)

// =============================================================================
// WATCHER
// =============================================================================

// Watcher uploads PDFs as they appear in a directory.
type Watcher struct {
	flow     *Flow
	dir      string
	debounce time.Duration
	notify   func(path string, res model.UploadResult)

	watcher *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]time.Time // path -> last event time
	seen    map[string]bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher creates a watcher for dir. notify is called once per upload.
func NewWatcher(flow *Flow, dir string, debounce time.Duration, notify func(string, model.UploadResult)) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create watcher")
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, errors.Wrapf(err, "watch %s", dir)
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{
		flow:     flow,
		dir:      dir,
		debounce: debounce,
		notify:   notify,
		watcher:  w,
		pending:  make(map[string]time.Time),
		seen:     make(map[string]bool),
	}, nil
}

// Start begins processing events until ctx ends or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(2)
	go w.processEvents(ctx)
	go w.processPending(ctx)
	log.Info().Str("dir", w.dir).Dur("debounce", w.debounce).Msg("watching for documents")
}

// Close stops the watcher and waits for in-flight uploads.
func (w *Watcher) Close() error {
	if w.cancel != nil {
		w.cancel()
	}
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func isPDFName(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			// A rename delivers Create for the new name.
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 || !isPDFName(ev.Name) {
				continue
			}
			w.mu.Lock()
			if !w.seen[ev.Name] {
				w.pending[ev.Name] = time.Now()
			}
			w.mu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Str("dir", w.dir).Msg("watch error")
		}
	}
}

func (w *Watcher) processPending(ctx context.Context) {
	defer w.wg.Done()

	tick := w.debounce / 5
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			now := time.Now()
			var ready []string

			w.mu.Lock()
			for path, at := range w.pending {
				if now.Sub(at) >= w.debounce {
					ready = append(ready, path)
					delete(w.pending, path)
					w.seen[path] = true
				}
			}
			w.mu.Unlock()

			for _, path := range ready {
				res := w.flow.Upload(ctx, path)
				if !res.Success {
					// Let a later write retry a half-copied file.
					w.mu.Lock()
					delete(w.seen, path)
					w.mu.Unlock()
				}
				if w.notify != nil {
					w.notify(path, res)
				}
			}
		}
	}
}
