// Package gorillaws implements the transport contract over
// github.com/gorilla/websocket.
package gorillaws

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/koscakluka/coda-realtime/core/transport"
)

// Dialer opens websocket connections with keepalive pings and read
// deadlines, so that a half-open socket surfaces as a read error.
type Dialer struct {
	dialer  *websocket.Dialer
	options options
}

var _ transport.Dialer = (*Dialer)(nil)

func NewDialer(opts ...Option) *Dialer {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	return &Dialer{
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: 45 * time.Second,
			TLSClientConfig:  options.tlsConfig,
		},
		options: options,
	}
}

func (d *Dialer) Dial(ctx context.Context, endpoint string) (transport.Conn, error) {
	ws, resp, err := d.dialer.DialContext(ctx, endpoint, d.options.header.Clone())
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("failed to dial %s (status %d): %w", endpoint, resp.StatusCode, err)
		}
		return nil, fmt.Errorf("failed to dial %s: %w", endpoint, err)
	}

	c := &conn{
		ws:         ws,
		writeWait:  d.options.writeWait,
		pongWait:   d.options.pongWait,
		pingPeriod: d.options.pingPeriod,
		done:       make(chan struct{}),
	}

	ws.SetReadLimit(d.options.maxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(c.pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(c.pongWait))
	})

	go c.keepalive()

	return c, nil
}

type conn struct {
	ws *websocket.Conn

	writeWait  time.Duration
	pongWait   time.Duration
	pingPeriod time.Duration

	writeMu   sync.Mutex
	closeOnce sync.Once
	done      chan struct{}
}

func (c *conn) ReadFrame() (transport.Frame, error) {
	messageType, payload, err := c.ws.ReadMessage()
	if err != nil {
		if c.isClosed() {
			return transport.Frame{}, fmt.Errorf("%w: %v", transport.ErrClosed, err)
		}
		return transport.Frame{}, fmt.Errorf("failed to read frame: %w", err)
	}

	// Any inbound traffic proves the peer is alive.
	_ = c.ws.SetReadDeadline(time.Now().Add(c.pongWait))

	return transport.Frame{Binary: messageType == websocket.BinaryMessage, Payload: payload}, nil
}

func (c *conn) WriteFrame(ctx context.Context, frame transport.Frame) error {
	if c.isClosed() {
		return transport.ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	deadline := time.Now().Add(c.writeWait)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	messageType := websocket.TextMessage
	if frame.Binary {
		messageType = websocket.BinaryMessage
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.ws.SetWriteDeadline(deadline)
	if err := c.ws.WriteMessage(messageType, frame.Payload); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

func (c *conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)

		c.writeMu.Lock()
		closeMessage := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.ws.WriteControl(websocket.CloseMessage, closeMessage, time.Now().Add(c.writeWait))
		c.writeMu.Unlock()

		err = c.ws.Close()
	})
	return err
}

func (c *conn) isClosed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *conn) keepalive() {
	ticker := time.NewTicker(c.pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.writeWait))
			if err == nil {
				continue
			}
			if errors.Is(err, websocket.ErrCloseSent) || c.isClosed() {
				return
			}
			logger.Warn("failed to send ping, closing connection", "error", err)
			// Closing the socket fails the pending read.
			_ = c.ws.Close()
			return
		}
	}
}
