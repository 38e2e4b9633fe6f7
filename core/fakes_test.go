package realtime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/koscakluka/coda-realtime/core/events"
	"github.com/koscakluka/coda-realtime/core/transport"
)

type stubConn struct {
	frames    chan transport.Frame
	fail      chan error
	closed    chan struct{}
	closeOnce sync.Once

	mu      sync.Mutex
	written [][]byte
}

func newStubConn() *stubConn {
	return &stubConn{
		frames: make(chan transport.Frame, 16),
		fail:   make(chan error, 1),
		closed: make(chan struct{}),
	}
}

func (c *stubConn) ReadFrame() (transport.Frame, error) {
	select {
	case frame := <-c.frames:
		return frame, nil
	case err := <-c.fail:
		return transport.Frame{}, err
	case <-c.closed:
		return transport.Frame{}, transport.ErrClosed
	}
}

func (c *stubConn) WriteFrame(_ context.Context, frame transport.Frame) error {
	select {
	case <-c.closed:
		return transport.ErrClosed
	default:
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.written = append(c.written, frame.Payload)
	return nil
}

func (c *stubConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *stubConn) Push(frame string) {
	c.frames <- transport.Frame{Payload: []byte(frame)}
}

func (c *stubConn) Written() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.written...)
}

type stubDialer struct {
	mu    sync.Mutex
	conns []*stubConn
}

func (d *stubDialer) Dial(context.Context, string) (transport.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	conn := newStubConn()
	d.conns = append(d.conns, conn)
	return conn, nil
}

func (d *stubDialer) Dials() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.conns)
}

func (d *stubDialer) Conn(i int) *stubConn {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.conns[i]
}

// timeline records statuses and events in delivery order.
type timeline struct {
	mu     sync.Mutex
	items  []string
	events []events.Event
}

func (tl *timeline) OnStatus(status events.ConnectionStatus) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.items = append(tl.items, "status:"+status.State.String())
}

func (tl *timeline) OnEvent(event events.Event) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.items = append(tl.items, "event:"+string(event.Kind()))
	tl.events = append(tl.events, event)
}

func (tl *timeline) Items() []string {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return append([]string(nil), tl.items...)
}

func (tl *timeline) Events() []events.Event {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return append([]events.Event(nil), tl.events...)
}

func (tl *timeline) Count(item string) int {
	count := 0
	for _, got := range tl.Items() {
		if got == item {
			count++
		}
	}
	return count
}

func waitFor(t *testing.T, description string, condition func() bool) {
	t.Helper()

	deadline := time.Now().Add(3 * time.Second)
	for !condition() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", description)
		}
		time.Sleep(time.Millisecond)
	}
}

func newTestClient(t *testing.T, dialer transport.Dialer, opts ...ClientOption) *Client {
	t.Helper()

	opts = append([]ClientOption{
		WithDialer(dialer),
		WithBackoff(BackoffConfig{Initial: time.Millisecond, Max: 4 * time.Millisecond, Factor: 2, Jitter: 0.5}),
	}, opts...)
	client, err := NewClient("ws://coda.test/ws", opts...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(client.Close)
	return client
}

func closeAndWait(t *testing.T, client *Client) {
	t.Helper()

	client.Close()
	select {
	case <-client.Done():
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for queued deliveries")
	}
}

var errConnectionReset = errors.New("connection reset by peer")
