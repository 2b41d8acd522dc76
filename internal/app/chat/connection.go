/*
Package chat contains the core logic for real-time presence tracking, room
membership, and message broadcasting.

This file defines the Connection type, representing one logical user's live
WebSocket endpoint. It owns the connection lifecycle state, the buffered
outbound delivery queue, and the read/write pump loops.
*/
package chat

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"sockethub/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	maxMessageSize = 8192

	// capacity of the per-connection outbound delivery queue.
	sendQueueSize = 256
)

// ConnState describes the lifecycle state of a Connection.
type ConnState int32

const (
	StateConnecting ConnState = iota
	StateOpen
	StateClosing
	StateClosed
)

// String returns the lowercase name of the state for logging.
func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ErrRecipientNotConnected is reported by the Registry when a personal
// delivery targets a user with no live connection. It is expected and
// non-fatal.
var ErrRecipientNotConnected = errors.New("recipient not connected")

// DeliveryError reports a failed write to one connection. It is scoped to
// that connection and never aborts delivery to others.
type DeliveryError struct {
	UserID string
	Err    error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery to %q failed: %v", e.UserID, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Conn is the delivery endpoint the Registry addresses. The production
// implementation is *Connection; tests substitute fakes.
type Conn interface {
	UserID() string
	Send(payload []byte) error
	Close() error
}

// Connection wraps one logical user's WebSocket channel. It is exclusively
// owned by the Registry while registered.
type Connection struct {
	userID string

	// underlying WebSocket connection object.
	ws *websocket.Conn

	// buffered channel queueing frames waiting to be written to the peer.
	send chan []byte

	// mu guards state transitions.
	mu    sync.Mutex
	state ConnState

	// closeOnce makes Close idempotent.
	closeOnce sync.Once

	// structured logger with connection context.
	logger zerolog.Logger
}

// NewConnection constructs a Connection in state Connecting. The caller is
// expected to register it with the Registry, which transitions it to Open.
func NewConnection(userID string, ws *websocket.Conn) *Connection {
	connLogger := logx.Component("Connection").With().
		Str("user_id", userID).
		Logger()

	return &Connection{
		userID: userID,
		ws:     ws,
		send:   make(chan []byte, sendQueueSize),
		state:  StateConnecting,
		logger: connLogger,
	}
}

// UserID returns the logical user identity bound to this connection.
func (c *Connection) UserID() string {
	return c.userID
}

// State returns the current lifecycle state.
func (c *Connection) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// markOpen transitions Connecting -> Open. Called by the Registry when the
// connection is installed.
func (c *Connection) markOpen() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateConnecting {
		c.state = StateOpen
	}
}

// Send enqueues payload on the outbound delivery queue. It fails fast with a
// DeliveryError when the connection is closed or the queue is full; it never
// blocks on a peer that stopped draining. The mutex is held across the
// enqueue so Send can never race a concurrent Close of the queue.
func (c *Connection) Send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateClosing || c.state == StateClosed {
		return &DeliveryError{UserID: c.userID, Err: fmt.Errorf("connection is %s", c.state)}
	}

	select {
	case c.send <- payload:
		return nil
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Send queue full, dropping frame.")
		return &DeliveryError{UserID: c.userID, Err: errors.New("send queue full")}
	}
}

// Close transitions the connection to Closing then Closed and closes the
// underlying channel. Closing an already-closed connection is a no-op.
func (c *Connection) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.state = StateClosing
		// Closing the send queue makes WritePump emit a close frame and exit.
		close(c.send)
		c.mu.Unlock()

		if err := c.ws.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("WebSocket close error.")
		}

		c.mu.Lock()
		c.state = StateClosed
		c.mu.Unlock()

		c.logger.Info().Msg("Connection closed.")
	})
	return nil
}

// ReadPump reads frames from the WebSocket connection and hands them to the
// session. It blocks until the transport fails or the peer disconnects, then
// runs session cleanup unconditionally so room membership never outlives the
// connection.
func (c *Connection) ReadPump(session *Session) {
	defer session.Close()

	c.ws.SetReadLimit(maxMessageSize)

	if err := c.ws.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Read failed (client close/going away)")
			}
			return
		}

		session.HandleFrame(raw)
	}
}

// WritePump drains the send queue onto the WebSocket connection and emits
// periodic pings. It exits when the queue is closed or a write fails.
func (c *Connection) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.ws.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("WebSocket close error in WritePump")
		}
	}()

	for {
		select {
		case payload, ok := <-c.send:
			if !c.writeQueuedFrame(payload, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePing() {
				return
			}
		}
	}
}

// writeQueuedFrame writes one queued frame to the WebSocket. Returns true if
// the WritePump loop should continue.
func (c *Connection) writeQueuedFrame(payload []byte, ok bool) bool {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.ws.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
		c.logger.Error().Err(err).Msg("Error writing frame")
		return false
	}

	return true
}

// writePing sends a heartbeat ping. Returns false if the WritePump loop
// should terminate due to write failure.
func (c *Connection) writePing() bool {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Info().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}
