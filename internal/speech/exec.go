// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package speech

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// =============================================================================
// EXEC ENGINE
// =============================================================================

// baseWPM is espeak-ng's default speaking rate.
const baseWPM = 175

// ExecEngine speaks by running a synthesizer command.
type ExecEngine struct {
	Command string
}

// NewExecEngine returns an engine for command, defaulting to espeak-ng.
func NewExecEngine(command string) *ExecEngine {
	if command == "" {
		command = "espeak-ng"
	}
	return &ExecEngine{Command: command}
}

// Available reports whether the synthesizer is on PATH.
func (e *ExecEngine) Available() bool {
	_, err := exec.LookPath(e.Command)
	return err == nil
}

// Args builds the synthesizer arguments for one utterance.
func (e *ExecEngine) Args(text, locale string, rate float64) []string {
	wpm := fmt.Sprintf("%d", int(baseWPM*rate))
	lang := strings.ToLower(strings.SplitN(locale, "-", 2)[0])

	switch filepath.Base(e.Command) {
	case "spd-say":
		// spd-say takes a relative rate in [-100, 100].
		rel := fmt.Sprintf("%d", int((rate-1)*100))
		return []string{"-w", "-l", lang, "-r", rel, text}
	case "say":
		return []string{"-r", wpm, text}
	default:
		voice := lang
		if strings.EqualFold(locale, "en-GB") {
			voice = "en-gb"
		}
		return []string{"-v", voice, "-s", wpm, text}
	}
}

// Speak starts the synthesizer and returns immediately.
func (e *ExecEngine) Speak(ctx context.Context, text, locale string, rate float64) (Utterance, error) {
	cmd := exec.CommandContext(ctx, e.Command, e.Args(text, locale, rate)...)
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "start %s", e.Command)
	}

	u := &execUtterance{cmd: cmd, done: make(chan struct{})}
	go func() {
		_ = cmd.Wait()
		close(u.done)
	}()
	return u, nil
}

type execUtterance struct {
	cmd  *exec.Cmd
	done chan struct{}
	once sync.Once
}

func (u *execUtterance) Pause() error {
	return suspend(u.cmd.Process)
}

func (u *execUtterance) Resume() error {
	return resume(u.cmd.Process)
}

func (u *execUtterance) Cancel() error {
	var err error
	u.once.Do(func() {
		select {
		case <-u.done:
			return
		default:
		}
		// SIGKILL also ends a stopped process.
		err = u.cmd.Process.Kill()
	})
	return err
}

func (u *execUtterance) Done() <-chan struct{} {
	return u.done
}
