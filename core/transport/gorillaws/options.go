package gorillaws

import (
	"crypto/tls"
	"net/http"
	"time"
)

const (
	// defaultWriteWait is the deadline for a single write.
	defaultWriteWait = 10 * time.Second

	// defaultPongWait is how long a connection may stay silent before it is
	// treated as dead. Any frame or pong extends it.
	defaultPongWait = 60 * time.Second

	// defaultPingPeriod must be less than the pong wait.
	defaultPingPeriod = (defaultPongWait * 9) / 10

	defaultMaxMessageSize = 1 << 20
)

type options struct {
	header         http.Header
	tlsConfig      *tls.Config
	writeWait      time.Duration
	pongWait       time.Duration
	pingPeriod     time.Duration
	maxMessageSize int64
}

func defaultOptions() options {
	return options{
		header:         http.Header{},
		writeWait:      defaultWriteWait,
		pongWait:       defaultPongWait,
		pingPeriod:     defaultPingPeriod,
		maxMessageSize: defaultMaxMessageSize,
	}
}

type Option func(*options)

// WithHeader adds a header sent with every handshake request.
func WithHeader(key, value string) Option {
	return func(o *options) {
		o.header.Add(key, value)
	}
}

func WithTLSConfig(config *tls.Config) Option {
	return func(o *options) {
		o.tlsConfig = config
	}
}

// WithKeepalive sets how often pings are sent and how long the connection
// may stay silent. A pingPeriod that is not shorter than pongWait is reduced
// to 90% of pongWait.
func WithKeepalive(pingPeriod, pongWait time.Duration) Option {
	return func(o *options) {
		if pongWait <= 0 {
			return
		}
		if pingPeriod <= 0 || pingPeriod >= pongWait {
			pingPeriod = (pongWait * 9) / 10
		}
		o.pingPeriod = pingPeriod
		o.pongWait = pongWait
	}
}

func WithWriteWait(wait time.Duration) Option {
	return func(o *options) {
		if wait > 0 {
			o.writeWait = wait
		}
	}
}

// WithMaxMessageSize limits the size of a single inbound message. Larger
// messages fail the connection.
func WithMaxMessageSize(size int64) Option {
	return func(o *options) {
		if size > 0 {
			o.maxMessageSize = size
		}
	}
}
