package realtime

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/koscakluka/coda-realtime/core/connection"
	"github.com/koscakluka/coda-realtime/core/dispatch"
	"github.com/koscakluka/coda-realtime/core/events"
	"github.com/koscakluka/coda-realtime/core/transport"
	"github.com/koscakluka/coda-realtime/core/transport/gorillaws"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type (
	Handle        = dispatch.Handle
	Observer      = dispatch.Observer
	Callbacks     = dispatch.Callbacks
	BackoffConfig = connection.BackoffConfig
)

// Client keeps one realtime connection to the backend and delivers what it
// receives to registered observers.
//
// All observer callbacks of a Client run on a single goroutine, one at a
// time, in the order statuses and events happened. Observers may call any
// Client method, including Disconnect and Unregister.
type Client struct {
	id       uuid.UUID
	endpoint string
	options  clientOptions

	machine  *connection.Machine
	registry *dispatch.Registry
	loop     *deliveryLoop

	closed    atomic.Bool
	closeOnce sync.Once
}

func NewClient(endpoint string, opts ...ClientOption) (*Client, error) {
	if err := validateEndpoint(endpoint); err != nil {
		return nil, err
	}

	options := defaultClientOptions()
	for _, opt := range opts {
		opt(&options)
	}

	if options.dialer == nil {
		dialerOpts := []gorillaws.Option{}
		for key, values := range options.header {
			for _, value := range values {
				dialerOpts = append(dialerOpts, gorillaws.WithHeader(key, value))
			}
		}
		options.dialer = gorillaws.NewDialer(dialerOpts...)
	}

	c := &Client{
		id:       uuid.New(),
		endpoint: endpoint,
		options:  options,
		registry: dispatch.NewRegistry(),
	}
	c.loop = newDeliveryLoop(c.deliver)

	machineOpts := []connection.Option{}
	if options.backoff != nil {
		machineOpts = append(machineOpts, connection.WithBackoff(*options.backoff))
	}
	if options.handshakeTimeout > 0 {
		machineOpts = append(machineOpts, connection.WithHandshakeTimeout(options.handshakeTimeout))
	}

	machine, err := connection.New(endpoint, options.dialer, connection.Hooks{
		OnStatus: func(status events.ConnectionStatus) {
			c.loop.Ingest(deliveryItem{status: &status, queuedAt: status.Timestamp()})
		},
		OnFrame: func(frame transport.Frame) {
			c.loop.Ingest(deliveryItem{frame: &frame, queuedAt: time.Now()})
		},
	}, machineOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	c.machine = machine

	c.loop.Start()

	return c, nil
}

func validateEndpoint(endpoint string) error {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}
	if parsed.Scheme != "ws" && parsed.Scheme != "wss" {
		return fmt.Errorf("%w: scheme must be ws or wss, got %q", ErrInvalidEndpoint, parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidEndpoint)
	}
	return nil
}

// Connect starts connecting in the background. It is a no-op while a
// connection is being made or kept, and after Close.
func (c *Client) Connect() {
	if c.closed.Load() {
		return
	}
	c.machine.Connect()
}

// Disconnect closes the connection and stops reconnecting. The state is
// Closed when it returns; observers receive exactly one Closed status no
// matter how often it is called.
func (c *Client) Disconnect() {
	c.machine.Disconnect()
}

// Send writes msg to the backend. It fails with ErrNotConnected instead of
// queueing when the connection is not open.
func (c *Client) Send(ctx context.Context, msg events.ClientMessage) error {
	if c.closed.Load() {
		return ErrClientClosed
	}

	ctx, span := tracer.Start(ctx, "send", trace.WithAttributes(attribute.String("event.kind", string(msg.Type))))
	defer span.End()

	payload, err := events.EncodeClientMessage(msg)
	if err != nil {
		err = fmt.Errorf("failed to encode message: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := c.machine.Send(ctx, transport.Frame{Payload: payload}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (c *Client) RegisterStatusObserver(fn func(events.ConnectionStatus)) Handle {
	return c.registry.RegisterStatus(fn)
}

func (c *Client) RegisterEventObserver(fn func(events.Event)) Handle {
	return c.registry.RegisterEvents(fn)
}

// RegisterObserver registers one observer for both statuses and events.
func (c *Client) RegisterObserver(observer Observer) Handle {
	return c.registry.Register(observer)
}

func (c *Client) UnregisterStatusObserver(handle Handle) {
	c.registry.Unregister(handle)
}

func (c *Client) UnregisterEventObserver(handle Handle) {
	c.registry.Unregister(handle)
}

// Unregister removes any registration. Unregistering during a delivery
// takes effect from the next item on; the observer may still receive the
// item being delivered.
func (c *Client) Unregister(handle Handle) {
	c.registry.Unregister(handle)
}

func (c *Client) State() events.ConnectionState {
	return c.machine.State()
}

// ReconnectAttempts is the number of consecutive failed attempts since the
// connection was last open.
func (c *Client) ReconnectAttempts() int {
	return c.machine.Attempts()
}

// Snapshot is a point-in-time view of a client.
type Snapshot struct {
	ClientID          string `json:"client_id"`
	Endpoint          string `json:"endpoint"`
	State             string `json:"state"`
	ReconnectAttempts int    `json:"reconnect_attempts"`
	Observers         int    `json:"observers"`
	QueuedDeliveries  int    `json:"queued_deliveries"`
}

func (c *Client) Snapshot() Snapshot {
	return Snapshot{
		ClientID:          c.id.String(),
		Endpoint:          c.endpoint,
		State:             c.State().String(),
		ReconnectAttempts: c.ReconnectAttempts(),
		Observers:         c.registry.Len(),
		QueuedDeliveries:  c.loop.queuedItemCount(),
	}
}

// Close disconnects and stops the client for good. Items already queued,
// including the final Closed status, are still delivered; Done is closed
// once they have been. Close does not wait, so it is safe to call from an
// observer.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.machine.Disconnect()
		c.loop.Stop()
	})
}

// Done is closed after Close once every queued delivery has completed.
func (c *Client) Done() <-chan struct{} {
	return c.loop.Done()
}

func (c *Client) deliver(item deliveryItem) {
	switch {
	case item.status != nil:
		c.registry.DispatchStatus(*item.status)
	case item.frame != nil:
		event := events.DecodeAt(item.frame.Payload, item.queuedAt)
		c.handleEvent(event)
		c.registry.DispatchEvent(event)

		// Replayed events already happened; only observers see them.
		if replay, ok := event.(events.Replay); ok && c.options.expandReplay {
			for _, replayed := range replay.Events {
				c.registry.DispatchEvent(replayed)
			}
		}
	}
}

// handleEvent reacts to events the client answers itself.
func (c *Client) handleEvent(event events.Event) {
	switch typedEvent := event.(type) {
	case events.Unknown:
		unknownEvents.Add(context.Background(), 1, metric.WithAttributes(attribute.String("event.declared_type", typedEvent.DeclaredType)))
		logger.Debug("received unknown event",
			"client_id", c.id.String(),
			"declared_type", typedEvent.DeclaredType,
			"reason", typedEvent.Reason,
		)
	case events.AuthChallenge:
		if !c.options.answerAuth {
			return
		}
		token := c.options.authToken
		if token == "" {
			token = typedEvent.Token
		}
		if err := c.Send(context.Background(), events.NewAuthResponse(token)); err != nil && !errors.Is(err, ErrClientClosed) {
			logger.Warn("failed to answer auth challenge", "client_id", c.id.String(), "error", err)
		}
	case events.AuthResult:
		if !typedEvent.Succeeded() {
			logger.Warn("authentication rejected", "client_id", c.id.String(), "message", typedEvent.Message)
		}
	}
}
