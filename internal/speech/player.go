// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package speech

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNoText is returned when there is nothing to read aloud.
	ErrNoText = errors.New("Please provide text to speak")

	// ErrInvalidRate is returned for rates outside Rates.
	ErrInvalidRate = errors.New("invalid speech rate")

	// ErrPauseUnsupported is returned where processes cannot be suspended.
	ErrPauseUnsupported = errors.New("pause is not supported on this platform")
)

// =============================================================================
// ENGINE
// =============================================================================

// Rates are the selectable speech rates, slowest first.
var Rates = []float64{0.5, 1, 1.5}

// ValidRate reports whether r is one of Rates.
func ValidRate(r float64) bool {
	for _, v := range Rates {
		if v == r {
			return true
		}
	}
	return false
}

// NextRate returns the rate after r, wrapping around.
func NextRate(r float64) float64 {
	for i, v := range Rates {
		if v == r {
			return Rates[(i+1)%len(Rates)]
		}
	}
	return 1
}

// Engine starts utterances.
type Engine interface {
	Speak(ctx context.Context, text, locale string, rate float64) (Utterance, error)
}

// Utterance is one piece of text being spoken.
type Utterance interface {
	Pause() error
	Resume() error
	Cancel() error
	// Done is closed when the utterance ends for any reason.
	Done() <-chan struct{}
}

// =============================================================================
// PLAYER
// =============================================================================

// State is the playback state of a Player.
type State int

const (
	StateIdle State = iota
	StatePlaying
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Player controls read-aloud of a single text. It is safe for concurrent use.
type Player struct {
	engine Engine

	mu     sync.Mutex
	text   string
	locale string
	rate   float64
	state  State
	cur    Utterance
	gen    uint64

	// onChange, when set, is called after the utterance ends on its own.
	onChange func(State)
}

// NewPlayer creates an idle player.
func NewPlayer(engine Engine, rate float64) (*Player, error) {
	if !ValidRate(rate) {
		return nil, errors.Wrapf(ErrInvalidRate, "rate %v", rate)
	}
	return &Player{engine: engine, rate: rate}, nil
}

// OnChange registers a callback for state changes the caller did not cause.
func (p *Player) OnChange(fn func(State)) {
	p.mu.Lock()
	p.onChange = fn
	p.mu.Unlock()
}

// State returns the playback state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Rate returns the current rate.
func (p *Player) Rate() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rate
}

// Play starts reading text from the beginning, replacing anything playing.
func (p *Player) Play(text, locale string) error {
	if strings.TrimSpace(text) == "" {
		return ErrNoText
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.text = text
	p.locale = locale
	return p.startLocked()
}

// Toggle plays from idle, pauses while playing and resumes while paused.
func (p *Player) Toggle(text, locale string) error {
	switch p.State() {
	case StatePlaying:
		return p.Pause()
	case StatePaused:
		return p.Resume()
	default:
		return p.Play(text, locale)
	}
}

// Pause suspends playback. It does nothing unless playing.
func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StatePlaying {
		return nil
	}
	if err := p.cur.Pause(); err != nil {
		return err
	}
	p.state = StatePaused
	return nil
}

// Resume continues playback. It does nothing unless paused.
func (p *Player) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StatePaused {
		return nil
	}
	if err := p.cur.Resume(); err != nil {
		return err
	}
	p.state = StatePlaying
	return nil
}

// Restart reads the last text again from the beginning.
func (p *Player) Restart() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if strings.TrimSpace(p.text) == "" {
		return ErrNoText
	}
	return p.startLocked()
}

// Stop cancels playback and returns to idle.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelLocked()
}

// SetRate changes the rate. An active utterance restarts from the beginning
// at the new rate and keeps its paused state.
func (p *Player) SetRate(rate float64) error {
	if !ValidRate(rate) {
		return errors.Wrapf(ErrInvalidRate, "rate %v", rate)
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.rate = rate
	if p.state == StateIdle {
		return nil
	}

	wasPaused := p.state == StatePaused
	if err := p.startLocked(); err != nil {
		return err
	}
	if wasPaused {
		if err := p.cur.Pause(); err != nil {
			return err
		}
		p.state = StatePaused
	}
	return nil
}

func (p *Player) startLocked() error {
	p.cancelLocked()

	u, err := p.engine.Speak(context.Background(), p.text, p.locale, p.rate)
	if err != nil {
		return errors.Wrap(err, "start speech")
	}
	p.gen++
	p.cur = u
	p.state = StatePlaying
	go p.watch(u, p.gen)

	log.Debug().Str("locale", p.locale).Float64("rate", p.rate).Msg("speech started")
	return nil
}

func (p *Player) cancelLocked() {
	if p.cur != nil {
		if err := p.cur.Cancel(); err != nil {
			log.Debug().Err(err).Msg("cancel utterance")
		}
	}
	p.gen++
	p.cur = nil
	p.state = StateIdle
}

// watch returns the player to idle when an utterance finishes by itself.
func (p *Player) watch(u Utterance, gen uint64) {
	<-u.Done()

	p.mu.Lock()
	if p.gen != gen {
		p.mu.Unlock()
		return
	}
	p.cur = nil
	p.state = StateIdle
	fn := p.onChange
	p.mu.Unlock()

	if fn != nil {
		fn(StateIdle)
	}
}
