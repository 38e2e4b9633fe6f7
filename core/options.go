package realtime

import (
	"net/http"
	"time"

	"github.com/koscakluka/coda-realtime/core/connection"
	"github.com/koscakluka/coda-realtime/core/transport"
)

type ClientOption func(*clientOptions)

type clientOptions struct {
	dialer           transport.Dialer
	backoff          *connection.BackoffConfig
	handshakeTimeout time.Duration
	header           http.Header
	answerAuth       bool
	authToken        string
	expandReplay     bool
}

func defaultClientOptions() clientOptions {
	return clientOptions{header: http.Header{}}
}

// WithDialer replaces the default websocket dialer. Headers set with
// WithHeader are only applied by the default dialer.
func WithDialer(dialer transport.Dialer) ClientOption {
	return func(o *clientOptions) {
		o.dialer = dialer
	}
}

// WithBackoff sets the reconnect delay bounds. Defaults to 1s initial delay,
// factor 2, 30s cap and 20% jitter.
func WithBackoff(config BackoffConfig) ClientOption {
	return func(o *clientOptions) {
		o.backoff = &config
	}
}

// WithHandshakeTimeout bounds a single connection attempt. Defaults to 10s.
func WithHandshakeTimeout(timeout time.Duration) ClientOption {
	return func(o *clientOptions) {
		o.handshakeTimeout = timeout
	}
}

// WithAuthToken answers every auth_challenge with an auth_response carrying
// token. An empty token echoes the token of the challenge.
func WithAuthToken(token string) ClientOption {
	return func(o *clientOptions) {
		o.answerAuth = true
		o.authToken = token
	}
}

// WithHeader adds a header to the websocket handshake request.
func WithHeader(key, value string) ClientOption {
	return func(o *clientOptions) {
		o.header.Add(key, value)
	}
}

// WithExpandReplay delivers the events inside a replay frame individually,
// in order, right after the replay event itself.
func WithExpandReplay() ClientOption {
	return func(o *clientOptions) {
		o.expandReplay = true
	}
}
