// Package realtime owns the push connection to the backend: one live
// WebSocket per authenticated session, reconnected forever with bounded
// backoff until torn down.
package realtime

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/andresFJ158/frontend-je-bot-crm/internal/logger"
)

// State is the transport lifecycle state.
type State int32

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "unknown"
	}
}

// TokenFunc supplies the bearer token at (re)connect time. It is called
// per attempt so a session restored after the channel was constructed is
// still picked up; returning "" aborts the attempt.
type TokenFunc func() string

// Channel maintains the single live push connection. Lifecycle:
// Disconnected -> Connecting -> Connected -> Disconnected -> Connecting
// ... until Close, which cancels the retry loop exactly once.
type Channel struct {
	url     string
	tokenFn TokenFunc
	policy  ReconnectPolicy
	dialer  *websocket.Dialer
	log     *logger.Logger

	state  atomic.Int32
	events chan Event

	mu      sync.Mutex
	conn    *websocket.Conn
	running bool

	done      chan struct{}
	closeOnce sync.Once
}

// New creates a channel for the given ws:// or wss:// endpoint.
func New(url string, tokenFn TokenFunc, policy ReconnectPolicy) *Channel {
	return &Channel{
		url:     url,
		tokenFn: tokenFn,
		policy:  policy,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
		log:    logger.GetDefaultLogger().WithComponent("realtime"),
		events: make(chan Event, 64),
		done:   make(chan struct{}),
	}
}

// Events returns the decoded event stream. The channel is closed after
// Close once the run loop exits.
func (c *Channel) Events() <-chan Event {
	return c.events
}

// State returns the current transport state.
func (c *Channel) State() State {
	return State(c.state.Load())
}

// Start launches the connect/read/reconnect loop. It fails fast when no
// token is available (the entry condition for the whole state machine)
// and when the channel is already running: never two connections for the
// same session.
func (c *Channel) Start() error {
	select {
	case <-c.done:
		// A closed channel never restarts; its events channel is gone.
		return fmt.Errorf("realtime channel is closed")
	default:
	}

	if c.tokenFn() == "" {
		return fmt.Errorf("no token available for realtime connection")
	}

	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("realtime channel already running")
	}
	c.running = true
	c.mu.Unlock()

	go c.run()
	return nil
}

// Close tears the channel down: the live connection is closed
// synchronously and the retry loop is cancelled. Safe to call more than
// once; only the first call acts.
func (c *Channel) Close() {
	c.closeOnce.Do(func() {
		close(c.done)

		c.mu.Lock()
		if c.conn != nil {
			c.conn.Close()
			c.conn = nil
		}
		c.running = false
		c.mu.Unlock()

		// State only; no event. The run loop owns the events channel and
		// may already be closing it.
		c.state.Store(int32(Disconnected))
	})
}

func (c *Channel) setState(s State) {
	if State(c.state.Swap(int32(s))) == s {
		return
	}
	c.emit(StateEvent{State: s})
}

// emit delivers an event unless the consumer is gone or hopelessly
// behind; dropping beats blocking the read loop.
func (c *Channel) emit(ev Event) {
	select {
	case c.events <- ev:
	case <-c.done:
	}
}

// run is the reconnect loop. Backoff grows per failed attempt and resets
// on a successful handshake. A server-initiated close is logged and
// reconnected immediately on the first retry rather than waiting out an
// accumulated backoff.
func (c *Channel) run() {
	defer close(c.events)

	attempt := 0
	for {
		select {
		case <-c.done:
			return
		default:
		}

		attempt++
		c.setState(Connecting)

		conn, err := c.connect()
		if err != nil {
			c.setState(Disconnected)
			delay := c.policy.DelayFor(attempt)
			c.log.Warn("connect failed (attempt %d): %v, retrying in %v", attempt, err, delay)
			select {
			case <-time.After(delay):
			case <-c.done:
				return
			}
			continue
		}

		attempt = 0
		c.setState(Connected)
		c.log.Info("connected to %s", c.url)

		serverClosed := c.readLoop(conn)

		c.mu.Lock()
		if c.conn == conn {
			c.conn = nil
		}
		c.mu.Unlock()
		conn.Close()

		select {
		case <-c.done:
			return
		default:
		}

		c.setState(Disconnected)
		if serverClosed {
			// The server hung up on purpose; reconnect right away
			// instead of treating it like a network failure.
			c.log.Info("server closed the connection, reconnecting")
			continue
		}
	}
}

// connect dials the endpoint presenting the bearer token once, at
// handshake time. An existing connection is always closed first.
func (c *Channel) connect() (*websocket.Conn, error) {
	token := c.tokenFn()
	if token == "" {
		return nil, fmt.Errorf("no token available")
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	conn, _, err := c.dialer.Dial(c.url, header)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.conn != nil {
		c.conn.Close()
	}
	c.conn = conn
	c.mu.Unlock()

	return conn, nil
}

// readLoop consumes frames until the connection dies. Returns true when
// the transport reported a server-initiated close rather than a network
// failure. Malformed frames are logged and skipped; they never kill the
// connection.
func (c *Channel) readLoop(conn *websocket.Conn) (serverClosed bool) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.ClosePolicyViolation)
		}

		ev, err := decodeFrame(data)
		if err != nil {
			c.log.Warn("dropping frame: %v", err)
			continue
		}
		if ev == nil {
			c.log.Debug("ignoring unknown event")
			continue
		}
		c.emit(ev)
	}
}
