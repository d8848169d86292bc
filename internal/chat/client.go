package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/rs/zerolog"
)

// ErrClosed is returned by sends after the connection has ended.
var ErrClosed = errors.New("connection closed")

// Conn is the part of a websocket connection the client uses.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	Close() error
}

// closeWait bounds the close handshake write so a stalled peer cannot hold
// up shutdown.
const closeWait = time.Second

// Input is an editable text field a key press reads and clears.
type Input interface {
	Value() string
	SetValue(string)
}

// Client holds the single connection to the relay for the life of the
// process.
type Client struct {
	conn   Conn
	logger zerolog.Logger

	mu     sync.Mutex
	closed bool
	err    error
}

// DialOptions tune the connection handshake.
type DialOptions struct {
	HandshakeTimeout time.Duration
	Logger           zerolog.Logger
}

// Dial connects to the chat endpoint derived from page.
func Dial(ctx context.Context, page string, opts DialOptions) (*Client, error) {
	endpoint, err := Endpoint(page)
	if err != nil {
		return nil, err
	}

	dialer := websocket.Dialer{
		Proxy:            websocket.DefaultDialer.Proxy,
		HandshakeTimeout: opts.HandshakeTimeout,
	}
	conn, resp, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %s: %w", endpoint, resp.Status, err)
		}
		return nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}

	opts.Logger.Info().Str("endpoint", endpoint).Msg("connected")
	return New(conn, opts.Logger), nil
}

// New wraps an open connection.
func New(conn Conn, logger zerolog.Logger) *Client {
	return &Client{conn: conn, logger: logger}
}

// Send writes text as one text frame.
func (c *Client) Send(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return nil
}

// OnKeyDown sends the message input when key is the trigger key and the
// input is not empty. The frame is "<name>: <text>", with name falling back
// to DefaultName. The input is cleared after a successful send and kept
// when the send fails. It reports whether a send was attempted.
func (c *Client) OnKeyDown(key string, input Input, name string) (bool, error) {
	if key != TriggerKey {
		return false, nil
	}
	text := input.Value()
	if text == "" {
		return false, nil
	}

	if err := c.Send(Compose(name, text)); err != nil {
		c.logger.Warn().Err(err).Msg("send failed")
		return true, err
	}
	input.SetValue("")
	return true, nil
}

// Run reads frames until the connection ends or ctx is done, delivering
// text payloads on frames in arrival order. frames is closed on return.
// A normal close from the peer or ctx cancellation returns nil.
func (c *Client) Run(ctx context.Context, frames chan<- string) error {
	defer close(frames)

	stop := context.AfterFunc(ctx, func() {
		_ = c.Close()
	})
	defer stop()

	for {
		mt, payload, err := c.conn.ReadMessage()
		if err != nil {
			local := c.finish(err)
			if local || ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		if mt != websocket.TextMessage {
			c.logger.Debug().Int("type", mt).Msg("skipping non-text frame")
			continue
		}

		select {
		case frames <- string(payload):
		case <-ctx.Done():
			c.finish(ctx.Err())
			return nil
		}
	}
}

// Err returns the error that ended the connection, if any.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Close sends a normal close frame and releases the connection. It is safe
// to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeWait))
	return c.conn.Close()
}

// finish records why the connection ended. It reports true when the
// connection had already been closed locally.
func (c *Client) finish(err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return true
	}
	c.closed = true
	c.err = err
	_ = c.conn.Close()
	return false
}
