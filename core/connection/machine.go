// Package connection owns the lifecycle of the realtime socket: dialing,
// reconnecting with backoff and gating sends on the connection state.
package connection

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/koscakluka/coda-realtime/core/events"
	"github.com/koscakluka/coda-realtime/core/transport"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ErrNotConnected is returned by Send outside the Open state.
var ErrNotConnected = errors.New("not connected")

// Hooks receive the machine's output. They are called with the machine's
// lock held, in the order transitions and frames happen, so they must not
// block and must not call back into the Machine.
type Hooks struct {
	OnStatus func(events.ConnectionStatus)
	OnFrame  func(transport.Frame)
}

// Machine drives one logical connection through
// Idle -> Connecting -> Open -> Reconnecting -> ... -> Closed.
//
// Every dial and every reader belongs to a generation. Starting a new dial,
// scheduling a reconnect or disconnecting starts a new generation, and
// results of older generations are discarded, so at most one socket is ever
// live.
type Machine struct {
	endpoint string
	dialer   transport.Dialer
	hooks    Hooks
	options  options

	mu         sync.Mutex
	state      events.ConnectionState
	generation uint64
	backoff    *Backoff
	conn       transport.Conn
	cancelDial context.CancelFunc
	timer      *time.Timer
}

func New(endpoint string, dialer transport.Dialer, hooks Hooks, opts ...Option) (*Machine, error) {
	if dialer == nil {
		return nil, errors.New("dialer is required")
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	backoff, err := NewBackoff(options.backoff)
	if err != nil {
		return nil, err
	}

	return &Machine{
		endpoint: endpoint,
		dialer:   dialer,
		hooks:    hooks,
		options:  options,
		state:    events.StateIdle,
		backoff:  backoff,
	}, nil
}

// Connect starts connecting unless a connection is already being made or
// kept. It returns immediately; the outcome is reported through OnStatus.
func (m *Machine) Connect() {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case events.StateConnecting, events.StateOpen, events.StateReconnecting:
		return
	}

	m.backoff.Reset()
	m.startDialLocked()
}

// Disconnect closes the connection and stops reconnecting. The state is
// Closed when Disconnect returns. Calling it again is a no-op.
func (m *Machine) Disconnect() {
	m.mu.Lock()
	if m.state == events.StateClosed {
		m.mu.Unlock()
		return
	}

	conn := m.invalidateLocked()
	m.setStateLocked(events.NewConnectionStatus(events.StateClosed))
	m.mu.Unlock()

	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Debug("failed to close connection", "endpoint", m.endpoint, "error", err)
		}
	}
}

// Send writes frame to the open connection. It fails with ErrNotConnected
// instead of queueing when the connection is not open.
func (m *Machine) Send(ctx context.Context, frame transport.Frame) error {
	m.mu.Lock()
	conn := m.conn
	open := m.state == events.StateOpen
	m.mu.Unlock()

	if !open || conn == nil {
		return ErrNotConnected
	}

	if err := conn.WriteFrame(ctx, frame); err != nil {
		if errors.Is(err, transport.ErrClosed) {
			return ErrNotConnected
		}
		return fmt.Errorf("failed to send frame: %w", err)
	}
	return nil
}

func (m *Machine) State() events.ConnectionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Attempts is the number of consecutive failed attempts since the last time
// the connection was open.
func (m *Machine) Attempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.backoff.Attempt()
}

func (m *Machine) startDialLocked() {
	m.generation++
	generation := m.generation

	ctx, cancel := context.WithTimeout(context.Background(), m.options.handshakeTimeout)
	m.cancelDial = cancel

	status := events.NewConnectionStatus(events.StateConnecting)
	status.Attempt = m.backoff.Attempt()
	m.setStateLocked(status)

	go m.dial(ctx, cancel, generation, status.Attempt)
}

func (m *Machine) dial(ctx context.Context, cancel context.CancelFunc, generation uint64, attempt int) {
	defer cancel()

	ctx, span := tracer.Start(ctx, "dial", trace.WithAttributes(
		attribute.String("connection.endpoint", m.endpoint),
		attribute.Int("connection.attempt", attempt),
	))
	conn, err := m.dialer.Dial(ctx, m.endpoint)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()

	m.mu.Lock()
	if generation != m.generation {
		m.mu.Unlock()
		if conn != nil {
			logger.Debug("discarding superseded connection", "endpoint", m.endpoint)
			_ = conn.Close()
		}
		return
	}
	m.cancelDial = nil

	if err != nil {
		logger.Warn("dial failed", "endpoint", m.endpoint, "attempt", attempt, "error", err)
		m.scheduleReconnectLocked(err)
		m.mu.Unlock()
		return
	}

	m.conn = conn
	m.backoff.Reset()
	m.setStateLocked(events.NewConnectionStatus(events.StateOpen))
	m.mu.Unlock()

	go m.read(conn, generation)
}

func (m *Machine) read(conn transport.Conn, generation uint64) {
	for {
		frame, err := conn.ReadFrame()

		m.mu.Lock()
		if generation != m.generation {
			m.mu.Unlock()
			return
		}

		if err != nil {
			m.conn = nil
			logger.Warn("connection lost", "endpoint", m.endpoint, "error", err)
			m.scheduleReconnectLocked(err)
			m.mu.Unlock()

			_ = conn.Close()
			return
		}

		framesReceived.Add(context.Background(), 1, metric.WithAttributes(attribute.Bool("frame.binary", frame.Binary)))
		if m.hooks.OnFrame != nil {
			m.hooks.OnFrame(frame)
		}
		m.mu.Unlock()
	}
}

func (m *Machine) scheduleReconnectLocked(cause error) {
	m.generation++
	generation := m.generation

	delay := m.backoff.Next()
	reconnects.Add(context.Background(), 1)

	status := events.NewConnectionStatus(events.StateReconnecting)
	status.Attempt = m.backoff.Attempt()
	status.RetryIn = delay
	if cause != nil {
		status.Err = cause.Error()
	}
	m.setStateLocked(status)

	m.timer = time.AfterFunc(delay, func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		if generation != m.generation || m.state != events.StateReconnecting {
			return
		}
		m.timer = nil
		m.startDialLocked()
	})
}

// invalidateLocked supersedes the current generation and returns the live
// connection, if any, for the caller to close outside the lock.
func (m *Machine) invalidateLocked() transport.Conn {
	m.generation++

	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	if m.cancelDial != nil {
		m.cancelDial()
		m.cancelDial = nil
	}

	conn := m.conn
	m.conn = nil
	return conn
}

func (m *Machine) setStateLocked(status events.ConnectionStatus) {
	previous := m.state
	m.state = status.State

	logger.Info("connection state changed",
		"endpoint", m.endpoint,
		"from", previous.String(),
		"to", status.State.String(),
		"attempt", status.Attempt,
		"retry_in", status.RetryIn,
	)

	if m.hooks.OnStatus != nil {
		m.hooks.OnStatus(status)
	}
}
