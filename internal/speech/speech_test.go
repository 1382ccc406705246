// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package speech

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// FAKE ENGINE
// =============================================================================

type fakeUtterance struct {
	mu        sync.Mutex
	text      string
	locale    string
	rate      float64
	paused    bool
	cancelled bool
	done      chan struct{}
	once      sync.Once
}

func (u *fakeUtterance) Pause() error  { u.mu.Lock(); u.paused = true; u.mu.Unlock(); return nil }
func (u *fakeUtterance) Resume() error { u.mu.Lock(); u.paused = false; u.mu.Unlock(); return nil }
func (u *fakeUtterance) Cancel() error {
	u.mu.Lock()
	u.cancelled = true
	u.mu.Unlock()
	u.finish()
	return nil
}
func (u *fakeUtterance) Done() <-chan struct{} { return u.done }
func (u *fakeUtterance) finish()               { u.once.Do(func() { close(u.done) }) }

type fakeEngine struct {
	mu    sync.Mutex
	spoke []*fakeUtterance
	err   error
}

func (e *fakeEngine) Speak(_ context.Context, text, locale string, rate float64) (Utterance, error) {
	if e.err != nil {
		return nil, e.err
	}
	u := &fakeUtterance{text: text, locale: locale, rate: rate, done: make(chan struct{})}
	e.mu.Lock()
	e.spoke = append(e.spoke, u)
	e.mu.Unlock()
	return u, nil
}

func (e *fakeEngine) last() *fakeUtterance {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.spoke[len(e.spoke)-1]
}

func newPlayer(t *testing.T) (*Player, *fakeEngine) {
	t.Helper()
	e := &fakeEngine{}
	p, err := NewPlayer(e, 1)
	require.NoError(t, err)
	return p, e
}

// =============================================================================
// PLAYER TESTS
// =============================================================================

func TestNewPlayer_InvalidRate(t *testing.T) {
	_, err := NewPlayer(&fakeEngine{}, 2)
	assert.ErrorIs(t, err, ErrInvalidRate)
}

func TestPlay_EmptyText(t *testing.T) {
	p, e := newPlayer(t)
	assert.ErrorIs(t, p.Play("  ", "en-GB"), ErrNoText)
	assert.Equal(t, StateIdle, p.State())
	assert.Empty(t, e.spoke)
	assert.Equal(t, "Please provide text to speak", ErrNoText.Error())
}

func TestToggle_StateMachine(t *testing.T) {
	p, e := newPlayer(t)

	require.NoError(t, p.Toggle("hello", "hi-IN"))
	assert.Equal(t, StatePlaying, p.State())
	assert.Equal(t, "hi-IN", e.last().locale)

	require.NoError(t, p.Toggle("hello", "hi-IN"))
	assert.Equal(t, StatePaused, p.State())
	assert.True(t, e.last().paused)

	require.NoError(t, p.Toggle("hello", "hi-IN"))
	assert.Equal(t, StatePlaying, p.State())
	assert.False(t, e.last().paused)
	assert.Len(t, e.spoke, 1)
}

func TestPauseResume_NoOpWhenIdle(t *testing.T) {
	p, _ := newPlayer(t)
	assert.NoError(t, p.Pause())
	assert.NoError(t, p.Resume())
	assert.Equal(t, StateIdle, p.State())
}

func TestSetRate(t *testing.T) {
	tests := []struct {
		name      string
		pause     bool
		wantState State
	}{
		{"while playing", false, StatePlaying},
		{"while paused", true, StatePaused},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, e := newPlayer(t)
			require.NoError(t, p.Play("some answer", "en-GB"))
			if tt.pause {
				require.NoError(t, p.Pause())
			}
			first := e.last()

			require.NoError(t, p.SetRate(1.5))

			assert.True(t, first.cancelled, "old utterance should be cancelled")
			assert.Len(t, e.spoke, 2)
			second := e.last()
			assert.Equal(t, 1.5, second.rate)
			assert.Equal(t, "some answer", second.text)
			assert.Equal(t, tt.pause, second.paused)
			assert.Equal(t, tt.wantState, p.State())
			assert.Equal(t, 1.5, p.Rate())
		})
	}
}

func TestSetRate_IdleAndInvalid(t *testing.T) {
	p, e := newPlayer(t)
	require.NoError(t, p.SetRate(0.5))
	assert.Empty(t, e.spoke)
	assert.Equal(t, 0.5, p.Rate())

	assert.ErrorIs(t, p.SetRate(0.75), ErrInvalidRate)
	assert.Equal(t, 0.5, p.Rate())
}

func TestRestartAndStop(t *testing.T) {
	p, e := newPlayer(t)
	assert.ErrorIs(t, p.Restart(), ErrNoText)

	require.NoError(t, p.Play("text", "en-GB"))
	first := e.last()
	require.NoError(t, p.Restart())
	assert.True(t, first.cancelled)
	assert.Len(t, e.spoke, 2)
	assert.Equal(t, StatePlaying, p.State())

	p.Stop()
	assert.Equal(t, StateIdle, p.State())
	assert.True(t, e.last().cancelled)
}

func TestUtteranceEnd_ReturnsToIdle(t *testing.T) {
	p, e := newPlayer(t)
	changed := make(chan State, 1)
	p.OnChange(func(s State) { changed <- s })

	require.NoError(t, p.Play("text", "en-GB"))
	e.last().finish()

	select {
	case s := <-changed:
		assert.Equal(t, StateIdle, s)
	case <-time.After(2 * time.Second):
		t.Fatal("no state change after utterance ended")
	}
	assert.Equal(t, StateIdle, p.State())
}

func TestCancelledUtterance_DoesNotNotify(t *testing.T) {
	p, _ := newPlayer(t)
	changed := make(chan State, 4)
	p.OnChange(func(s State) { changed <- s })

	require.NoError(t, p.Play("one", "en-GB"))
	require.NoError(t, p.Play("two", "en-GB"))

	select {
	case <-changed:
		t.Fatal("replacing an utterance must not report idle")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, StatePlaying, p.State())
}

func TestPlay_EngineError(t *testing.T) {
	e := &fakeEngine{err: errors.New("no synthesizer")}
	p, err := NewPlayer(e, 1)
	require.NoError(t, err)
	assert.Error(t, p.Play("text", "en-GB"))
	assert.Equal(t, StateIdle, p.State())
}

func TestNextRate(t *testing.T) {
	assert.Equal(t, 1.5, NextRate(1))
	assert.Equal(t, 0.5, NextRate(1.5))
	assert.Equal(t, 1.0, NextRate(0.5))
}

// =============================================================================
// EXEC ENGINE TESTS
// =============================================================================

func TestExecEngine_Args(t *testing.T) {
	tests := []struct {
		command string
		locale  string
		rate    float64
		want    []string
	}{
		{"espeak-ng", "en-GB", 1, []string{"-v", "en-gb", "-s", "175", "hi"}},
		{"espeak-ng", "hi-IN", 1.5, []string{"-v", "hi", "-s", "262", "hi"}},
		{"/usr/bin/spd-say", "hi-IN", 0.5, []string{"-w", "-l", "hi", "-r", "-50", "hi"}},
		{"say", "en-GB", 0.5, []string{"-r", "87", "hi"}},
	}
	for _, tt := range tests {
		t.Run(tt.command+"/"+tt.locale, func(t *testing.T) {
			e := NewExecEngine(tt.command)
			assert.Equal(t, tt.want, e.Args("hi", tt.locale, tt.rate))
		})
	}
	assert.Equal(t, "espeak-ng", NewExecEngine("").Command)
}

// =============================================================================
// RECOGNIZER TESTS
// =============================================================================

func TestBestTranscript(t *testing.T) {
	tests := []struct {
		name    string
		results []Result
		want    string
	}{
		{"empty", nil, ""},
		{"interim only", []Result{{Transcript: "hel"}, {Transcript: "lo"}}, "hello"},
		{"final wins", []Result{{Transcript: "final", Final: true}, {Transcript: "interim"}}, "final"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BestTranscript(tt.results))
		})
	}
}

func TestRecognizer_Unavailable(t *testing.T) {
	r := NewRecognizer("", nil)
	assert.False(t, r.Available())
	assert.Contains(t, r.Unavailable(), "no recognizer command")
	assert.Error(t, r.Start(context.Background(), "en-GB", func(string) {}))

	r = NewRecognizer("definitely-not-a-real-recognizer", nil)
	assert.False(t, r.Available())
	assert.Contains(t, r.Unavailable(), "not found on PATH")
}

func TestRecognizer_ReportsTranscripts(t *testing.T) {
	script := `echo "$1"; echo '{"transcript":"what is","final":false}'; echo 'garbage'; ` +
		`echo '{"transcript":"  ","final":true}'; echo '[{"transcript":"what is revenue","final":true}]'`
	r := NewRecognizer("sh", []string{"-c", script, "sh", "{locale}"})
	require.True(t, r.Available())

	var mu sync.Mutex
	var got []string
	listening, err := r.Toggle(context.Background(), "hi-IN", func(s string) {
		mu.Lock()
		got = append(got, s)
		mu.Unlock()
	})
	require.NoError(t, err)
	assert.True(t, listening)

	require.Eventually(t, func() bool { return !r.Listening() }, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"what is", "what is revenue"}, got)
}

func TestRecognizer_ToggleStops(t *testing.T) {
	r := NewRecognizer("sh", []string{"-c", "exec sleep 5"})
	listening, err := r.Toggle(context.Background(), "en-GB", func(string) {})
	require.NoError(t, err)
	require.True(t, listening)

	listening, err = r.Toggle(context.Background(), "en-GB", func(string) {})
	require.NoError(t, err)
	assert.False(t, listening)
	assert.False(t, r.Listening())
}

func TestRecognizer_StopWhileCallbackBlocked(t *testing.T) {
	script := `while true; do echo '{"transcript":"hello","final":true}'; sleep 0.01; done`
	r := NewRecognizer("sh", []string{"-c", script})

	// Unbuffered and read only here, like a UI loop handing off messages.
	msgs := make(chan string)
	require.NoError(t, r.Start(context.Background(), "en-GB", func(s string) { msgs <- s }))

	select {
	case s := <-msgs:
		assert.Equal(t, "hello", s)
	case <-time.After(2 * time.Second):
		t.Fatal("no transcript")
	}

	// The reader is now blocked sending the next line while we stop.
	stopped := make(chan struct{})
	go func() {
		r.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked on the transcript callback")
	}
	assert.False(t, r.Listening())

	// Release the in-flight send; nothing more arrives after it.
	select {
	case <-msgs:
	case <-time.After(500 * time.Millisecond):
	}
	select {
	case s := <-msgs:
		t.Fatalf("transcript %q after Stop", s)
	case <-time.After(200 * time.Millisecond):
	}
}
