// Package live maintains the persistent event channel to the backend: one
// websocket connection per session, multiplexed by named events.
package live

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrNoToken is returned by Initialize when no session token is available.
var ErrNoToken = errors.New("live: no authentication token available")

// State is the connection lifecycle.
type State int

const (
	StateUninitialized State = iota
	StateConnecting
	StateConnected
	StateReconnecting
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateTerminated:
		return "offline"
	default:
		return "not connected"
	}
}

// TokenSource supplies the token used in the connection handshake.
type TokenSource interface {
	Token() string
}

// Handler receives the raw payload of one named event.
type Handler func(data json.RawMessage)

// envelope is the wire frame: every message names its event.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Client multiplexes named events over a single reconnecting websocket.
// Events arriving while no handler is registered for their name are
// dropped.
type Client struct {
	url      string
	tokens   TokenSource
	attempts int
	delay    time.Duration

	mu       sync.Mutex
	conn     *websocket.Conn
	state    State
	handlers map[string]map[int]Handler
	nextID   int
	gen      int // bumped on Disconnect so a stale read loop exits quietly
}

func New(socketURL string, tokens TokenSource, reconnectAttempts int, reconnectDelay time.Duration) *Client {
	return &Client{
		url:      socketURL,
		tokens:   tokens,
		attempts: reconnectAttempts,
		delay:    reconnectDelay,
		handlers: make(map[string]map[int]Handler),
	}
}

// Initialize opens the connection if one is not already up. It is
// idempotent and fails synchronously when no token is stored.
func (c *Client) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil
	}

	token := c.tokens.Token()
	if token == "" {
		return ErrNoToken
	}

	c.state = StateConnecting
	conn, err := dial(c.url, token)
	if err != nil {
		c.state = StateUninitialized
		return fmt.Errorf("live: connect: %w", err)
	}

	c.conn = conn
	c.state = StateConnected
	c.gen++
	go c.readLoop(conn, c.gen)
	return nil
}

func dial(socketURL, token string) (*websocket.Conn, error) {
	u, err := url.Parse(socketURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	return conn, err
}

// Subscribe registers a handler for a named event and returns the
// unsubscribe func. Callers must unsubscribe on teardown or the handler
// leaks across view remounts.
func (c *Client) Subscribe(event string, h Handler) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handlers[event] == nil {
		c.handlers[event] = make(map[int]Handler)
	}
	c.nextID++
	id := c.nextID
	c.handlers[event][id] = h

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.handlers[event], id)
	}
}

// State reports the current connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Client) IsConnected() bool {
	return c.State() == StateConnected
}

// Disconnect tears the connection down and resets to Uninitialized so a
// later Initialize opens a fresh connection (e.g. after logout/login with
// a new token). Registered handlers survive.
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.gen++
	c.state = StateUninitialized
}

func (c *Client) readLoop(conn *websocket.Conn, gen int) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if c.stale(gen) {
				return
			}
			conn = c.reconnect(gen)
			if conn == nil {
				return
			}
			continue
		}

		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil || env.Event == "" {
			log.Printf("live: dropping malformed frame: %v", err)
			continue
		}
		c.dispatch(env.Event, env.Data)
	}
}

// stale reports whether this read loop belongs to a torn-down connection.
func (c *Client) stale(gen int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen != c.gen
}

// reconnect retries up to the configured attempt count with a fixed delay.
// Returns the new connection, or nil when the client is Terminated (or was
// disconnected while retrying).
func (c *Client) reconnect(gen int) *websocket.Conn {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return nil
	}
	c.state = StateReconnecting
	c.conn = nil
	c.mu.Unlock()

	for attempt := 1; attempt <= c.attempts; attempt++ {
		time.Sleep(c.delay)

		c.mu.Lock()
		if gen != c.gen {
			c.mu.Unlock()
			return nil
		}
		token := c.tokens.Token()
		c.mu.Unlock()

		if token == "" {
			break
		}

		conn, err := dial(c.url, token)
		if err != nil {
			log.Printf("live: reconnect attempt %d/%d failed: %v", attempt, c.attempts, err)
			continue
		}

		c.mu.Lock()
		if gen != c.gen {
			c.mu.Unlock()
			conn.Close()
			return nil
		}
		c.conn = conn
		c.state = StateConnected
		c.mu.Unlock()
		return conn
	}

	c.mu.Lock()
	if gen == c.gen {
		c.state = StateTerminated
	}
	c.mu.Unlock()
	return nil
}

func (c *Client) dispatch(event string, data json.RawMessage) {
	c.mu.Lock()
	registered := make([]Handler, 0, len(c.handlers[event]))
	for _, h := range c.handlers[event] {
		registered = append(registered, h)
	}
	c.mu.Unlock()

	// No handler registered means the event is dropped, not buffered.
	for _, h := range registered {
		h(data)
	}
}
