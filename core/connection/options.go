package connection

import "time"

const defaultHandshakeTimeout = 10 * time.Second

type options struct {
	backoff          BackoffConfig
	handshakeTimeout time.Duration
}

func defaultOptions() options {
	return options{
		backoff:          DefaultBackoffConfig(),
		handshakeTimeout: defaultHandshakeTimeout,
	}
}

type Option func(*options)

// WithBackoff replaces the reconnect delay bounds. The configuration is
// validated by New.
func WithBackoff(config BackoffConfig) Option {
	return func(o *options) {
		o.backoff = config
	}
}

// WithHandshakeTimeout bounds a single dial attempt.
func WithHandshakeTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout > 0 {
			o.handshakeTimeout = timeout
		}
	}
}
