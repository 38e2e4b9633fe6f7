// Package transport defines the socket contract the connection state machine
// drives. Implementations live in subpackages.
package transport

import (
	"context"
	"errors"
)

// ErrClosed is returned by Conn methods after Close.
var ErrClosed = errors.New("transport closed")

// Frame is one message as read from the socket.
type Frame struct {
	// Binary is true for binary frames, false for text frames.
	Binary  bool
	Payload []byte
}

// Conn is one established connection.
//
// ReadFrame is only ever called from a single goroutine. WriteFrame may be
// called concurrently with ReadFrame and with itself; implementations
// serialize writes. Close unblocks a pending ReadFrame.
type Conn interface {
	ReadFrame() (Frame, error)
	WriteFrame(ctx context.Context, frame Frame) error
	Close() error
}

// Dialer opens connections to an endpoint. Dial must honour ctx cancellation
// for the whole handshake.
type Dialer interface {
	Dial(ctx context.Context, endpoint string) (Conn, error)
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(ctx context.Context, endpoint string) (Conn, error)

func (f DialerFunc) Dial(ctx context.Context, endpoint string) (Conn, error) {
	return f(ctx, endpoint)
}
