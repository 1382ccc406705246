// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package speech

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// =============================================================================
// RECOGNIZER
// =============================================================================

// LocalePlaceholder in recognizer args is replaced with the speech locale.
const LocalePlaceholder = "{locale}"

// ErrStartListening is returned when the recognizer command cannot start.
var ErrStartListening = errors.New("Error starting speech recognition")

// Result is one recognition result line.
type Result struct {
	Transcript string `json:"transcript"`
	Final      bool   `json:"final"`
}

// BestTranscript joins final results, falling back to interim ones when no
// result is final yet.
func BestTranscript(results []Result) string {
	var final, interim strings.Builder
	for _, r := range results {
		if r.Final {
			final.WriteString(r.Transcript)
		} else {
			interim.WriteString(r.Transcript)
		}
	}
	if final.Len() > 0 {
		return final.String()
	}
	return interim.String()
}

// Recognizer turns speech into text via an external command. Each stdout
// line is a Result object or an array of them.
type Recognizer struct {
	command string
	args    []string

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRecognizer creates a recognizer. An empty command leaves it unavailable.
func NewRecognizer(command string, args []string) *Recognizer {
	return &Recognizer{command: command, args: args}
}

// Available reports whether the recognizer command can be run.
func (r *Recognizer) Available() bool {
	if r.command == "" {
		return false
	}
	_, err := exec.LookPath(r.command)
	return err == nil
}

// Unavailable describes why speech input cannot be used.
func (r *Recognizer) Unavailable() string {
	if r.command == "" {
		return "Speech input is unavailable: no recognizer command is configured."
	}
	if _, err := exec.LookPath(r.command); err != nil {
		return fmt.Sprintf("Speech input is unavailable: %q was not found on PATH.", r.command)
	}
	return ""
}

// Listening reports whether the recognizer is running.
func (r *Recognizer) Listening() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}

// Toggle starts listening, or stops if already listening. It reports
// whether the recognizer is listening afterwards.
func (r *Recognizer) Toggle(ctx context.Context, locale string, fn func(string)) (bool, error) {
	if r.Listening() {
		r.Stop()
		return false, nil
	}
	if err := r.Start(ctx, locale, fn); err != nil {
		return false, err
	}
	return true, nil
}

// Start runs the recognizer and reports every non-blank transcript to fn
// until Stop is called or the command exits.
func (r *Recognizer) Start(ctx context.Context, locale string, fn func(string)) error {
	if !r.Available() {
		return errors.New(r.Unavailable())
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return nil
	}

	args := make([]string, len(r.args))
	for i, a := range r.args {
		args[i] = strings.ReplaceAll(a, LocalePlaceholder, locale)
	}

	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, r.command, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return errors.Wrap(ErrStartListening, err.Error())
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return errors.Wrap(ErrStartListening, err.Error())
	}

	done := make(chan struct{})
	r.cancel = cancel
	r.done = done
	log.Info().Str("command", r.command).Str("locale", locale).Msg("listening")

	go func() {
		defer close(done)
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			results, ok := parseLine(scanner.Bytes())
			if !ok {
				continue
			}
			// Nothing is reported once Stop has been called.
			if ctx.Err() != nil {
				break
			}
			if t := BestTranscript(results); strings.TrimSpace(t) != "" {
				fn(t)
			}
		}
		_ = cmd.Wait()

		r.mu.Lock()
		if r.done == done {
			r.cancel = nil
			r.done = nil
		}
		r.mu.Unlock()
		cancel()
	}()
	return nil
}

// Stop ends listening. It does not wait for the reader: fn may be blocked
// handing a transcript to the caller that is calling Stop. The reader exits
// on its own once the command dies, and reports nothing after Stop.
func (r *Recognizer) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.cancel = nil
	r.done = nil
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func parseLine(line []byte) ([]Result, bool) {
	line = []byte(strings.TrimSpace(string(line)))
	if len(line) == 0 {
		return nil, false
	}
	if line[0] == '[' {
		var rs []Result
		if err := json.Unmarshal(line, &rs); err != nil {
			log.Debug().Err(err).Msg("skipping recognizer line")
			return nil, false
		}
		return rs, true
	}
	var res Result
	if err := json.Unmarshal(line, &res); err != nil {
		log.Debug().Err(err).Msg("skipping recognizer line")
		return nil, false
	}
	return []Result{res}, true
}
