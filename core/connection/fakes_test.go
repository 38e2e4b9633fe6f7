package connection

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/koscakluka/coda-realtime/core/events"
	"github.com/koscakluka/coda-realtime/core/transport"
)

type fakeConn struct {
	frames    chan transport.Frame
	fail      chan error
	closed    chan struct{}
	closeOnce sync.Once

	mu      sync.Mutex
	written []transport.Frame
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		frames: make(chan transport.Frame, 16),
		fail:   make(chan error, 1),
		closed: make(chan struct{}),
	}
}

func (c *fakeConn) ReadFrame() (transport.Frame, error) {
	select {
	case frame := <-c.frames:
		return frame, nil
	case err := <-c.fail:
		return transport.Frame{}, err
	case <-c.closed:
		return transport.Frame{}, transport.ErrClosed
	}
}

func (c *fakeConn) WriteFrame(_ context.Context, frame transport.Frame) error {
	if c.isClosed() {
		return transport.ErrClosed
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.written = append(c.written, frame)
	return nil
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

func (c *fakeConn) Written() []transport.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]transport.Frame(nil), c.written...)
}

// fakeDialer fails the first failures dials, then hands out new fakeConns.
// A non-nil gate blocks every dial until it is closed or ctx is done.
type fakeDialer struct {
	failures int
	gate     chan struct{}

	mu    sync.Mutex
	dials int
	conns []*fakeConn
}

func (d *fakeDialer) Dial(ctx context.Context, _ string) (transport.Conn, error) {
	if d.gate != nil {
		select {
		case <-d.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.dials++
	if d.failures < 0 || d.dials <= d.failures {
		return nil, errors.New("connection refused")
	}
	conn := newFakeConn()
	d.conns = append(d.conns, conn)
	return conn, nil
}

func (d *fakeDialer) Dials() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}

func (d *fakeDialer) Conn(i int) *fakeConn {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i >= len(d.conns) {
		return nil
	}
	return d.conns[i]
}

type recorder struct {
	mu       sync.Mutex
	statuses []events.ConnectionStatus
	frames   []transport.Frame
}

func (r *recorder) hooks() Hooks {
	return Hooks{
		OnStatus: func(status events.ConnectionStatus) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.statuses = append(r.statuses, status)
		},
		OnFrame: func(frame transport.Frame) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.frames = append(r.frames, frame)
		},
	}
}

func (r *recorder) Statuses() []events.ConnectionStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.ConnectionStatus(nil), r.statuses...)
}

func (r *recorder) States() []events.ConnectionState {
	var states []events.ConnectionState
	for _, status := range r.Statuses() {
		states = append(states, status.State)
	}
	return states
}

func (r *recorder) Frames() []transport.Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]transport.Frame(nil), r.frames...)
}

func waitFor(t *testing.T, description string, condition func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for !condition() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", description)
		}
		time.Sleep(time.Millisecond)
	}
}

func fastBackoff() Option {
	return WithBackoff(BackoffConfig{Initial: time.Millisecond, Max: 4 * time.Millisecond, Factor: 2, Jitter: 0.5})
}
