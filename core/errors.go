package realtime

import (
	"errors"

	"github.com/koscakluka/coda-realtime/core/connection"
)

var (
	// ErrNotConnected is returned by Send outside the open state.
	ErrNotConnected = connection.ErrNotConnected
	// ErrClientClosed is returned by Send after Close.
	ErrClientClosed = errors.New("client closed")
	// ErrInvalidEndpoint is returned by NewClient for endpoints that are not
	// ws:// or wss:// URLs.
	ErrInvalidEndpoint = errors.New("invalid endpoint")
)
