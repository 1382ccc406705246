// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/thewaffle/waffle/internal/model"
	"github.com/thewaffle/waffle/internal/table"
)

// =============================================================================
// ERRORS AND DETAILS
// =============================================================================

var (
	// ErrEmptyQuery is returned by Submit for a blank query.
	ErrEmptyQuery = pkgerrors.New("query is empty")

	// ErrNoHandler is returned by Submit without an event handler.
	ErrNoHandler = pkgerrors.New("event handler is required")
)

// Details carried by error events. They are shown to the user as-is.
const (
	DetailConnectionError  = "Error connecting to server"
	DetailConnectionClosed = "connection closed"
)

// =============================================================================
// CONFIGURATION
// =============================================================================

// Config holds configuration options for the streaming client.
type Config struct {
	// URL is the websocket endpoint (default: ws://localhost:8000/ws/query)
	URL string

	// HandshakeTimeout bounds connection establishment (default: 10s)
	HandshakeTimeout time.Duration

	// ReadLimit caps a single inbound frame in bytes (default: 8 MiB)
	ReadLimit int64
}

// DefaultConfig returns the default streaming configuration.
func DefaultConfig() *Config {
	return &Config{
		URL:              "ws://localhost:8000/ws/query",
		HandshakeTimeout: 10 * time.Second,
		ReadLimit:        8 << 20,
	}
}

// Handler receives the events of one exchange in order.
type Handler = func(model.StreamingEvent)

// =============================================================================
// CLIENT
// =============================================================================

// Client manages at most one streaming exchange at a time.
type Client struct {
	config *Config
	dialer *websocket.Dialer

	mu      sync.Mutex
	current *exchange
}

// New creates a streaming client. Zero config values take defaults.
func New(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	defaults := DefaultConfig()
	if config.URL == "" {
		config.URL = defaults.URL
	}
	if config.HandshakeTimeout == 0 {
		config.HandshakeTimeout = defaults.HandshakeTimeout
	}
	if config.ReadLimit == 0 {
		config.ReadLimit = defaults.ReadLimit
	}

	return &Client{
		config: config,
		dialer: &websocket.Dialer{
			Proxy:            websocket.DefaultDialer.Proxy,
			HandshakeTimeout: config.HandshakeTimeout,
		},
	}
}

// URL returns the endpoint the client dials.
func (c *Client) URL() string {
	return c.config.URL
}

// Submit starts a new exchange for req and returns its ID. Any previous
// exchange is closed first. Submit does not wait for the network: dialing,
// sending and reading happen on a goroutine that reports through h.
func (c *Client) Submit(ctx context.Context, req model.QueryRequest, h Handler) (string, error) {
	if req.Empty() {
		return "", ErrEmptyQuery
	}
	if h == nil {
		return "", ErrNoHandler
	}

	xctx, cancel := context.WithCancel(ctx)
	x := &exchange{
		id:     uuid.NewString(),
		cancel: cancel,
	}

	c.mu.Lock()
	prev := c.current
	c.current = x
	c.mu.Unlock()

	if prev != nil {
		log.Debug().Str("exchange", prev.id).Msg("closing previous exchange")
		prev.close(true)
	}

	go c.run(xctx, x, req, h)
	return x.id, nil
}

// Close closes the active exchange, if any. No further events are delivered
// for it. Safe to call repeatedly.
func (c *Client) Close() error {
	c.mu.Lock()
	x := c.current
	c.current = nil
	c.mu.Unlock()

	if x != nil {
		x.close(true)
	}
	return nil
}

// Active reports whether an exchange is open.
func (c *Client) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil
}

// release forgets x if it is still the current exchange.
func (c *Client) release(x *exchange) {
	c.mu.Lock()
	if c.current == x {
		c.current = nil
	}
	c.mu.Unlock()
}

// =============================================================================
// EXCHANGE LIFECYCLE
// =============================================================================

func (c *Client) run(ctx context.Context, x *exchange, req model.QueryRequest, h Handler) {
	defer c.release(x)
	defer x.close(false)

	logger := log.With().Str("exchange", x.id).Logger()

	emit := func(ev model.StreamingEvent) {
		if x.closedByClient() {
			return
		}
		h(ev)
	}

	conn, resp, err := c.dialer.DialContext(ctx, c.config.URL, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.Warn().Err(err).Str("url", c.config.URL).Msg("stream dial failed")
		emit(model.ErrorEvent(x.id, DetailConnectionError))
		return
	}
	if !x.attach(conn) {
		conn.Close()
		return
	}
	stop := context.AfterFunc(ctx, func() { x.close(true) })
	defer stop()

	conn.SetReadLimit(c.config.ReadLimit)

	if err := conn.WriteJSON(req); err != nil {
		logger.Warn().Err(err).Msg("stream request write failed")
		emit(model.ErrorEvent(x.id, DetailConnectionError))
		return
	}
	logger.Debug().Str("doc", req.DocumentName).Bool("graph", req.WantGraph).Bool("verbose", req.WantExplain).Msg("query sent")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if x.closedByClient() {
				return
			}
			detail := readErrorDetail(err)
			logger.Warn().Err(err).Str("detail", detail).Msg("stream ended before final message")
			emit(model.ErrorEvent(x.id, detail))
			return
		}

		var frame model.StreamFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			logger.Warn().Err(err).Int("bytes", len(data)).Msg("skipping malformed frame")
			continue
		}

		if frame.IsStreaming {
			tables, errs := table.ParseAll(frame.Tables)
			for _, terr := range errs {
				logger.Warn().Err(terr).Msg("skipping malformed table")
			}
			emit(model.PartialEvent(x.id, frame.Message, tables))
			continue
		}

		emit(model.FinalEvent(x.id, frame.Message))
		logger.Debug().Msg("final message received")
		return
	}
}

// readErrorDetail maps a read failure to the detail shown to the user.
// A close frame or a bare EOF (gorilla reports it as code 1006) counts as a
// closed connection; anything else is a transport error.
func readErrorDetail(err error) string {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return DetailConnectionClosed
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return DetailConnectionClosed
	}
	return DetailConnectionError
}

// exchange is one websocket connection and its shutdown state.
type exchange struct {
	id     string
	cancel context.CancelFunc

	mu       sync.Mutex
	conn     *websocket.Conn
	shutdown bool
	byClient bool
}

// attach records the dialed connection. It fails if the exchange was
// closed while dialing.
func (x *exchange) attach(conn *websocket.Conn) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.shutdown {
		return false
	}
	x.conn = conn
	return true
}

func (x *exchange) closedByClient() bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.byClient
}

// close shuts the connection down once. byClient marks a close requested
// by the owner, which suppresses any further events.
func (x *exchange) close(byClient bool) {
	x.mu.Lock()
	if byClient {
		x.byClient = true
	}
	if x.shutdown {
		x.mu.Unlock()
		return
	}
	x.shutdown = true
	conn := x.conn
	x.mu.Unlock()

	x.cancel()
	if conn != nil {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		conn.Close()
	}
}
