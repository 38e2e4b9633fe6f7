package events

import (
	"fmt"
	"time"
)

// KindConnectionStatus identifies a connection state transition.
const KindConnectionStatus Kind = "connection_status"

// ConnectionState is the lifecycle state of a realtime client connection.
//
// The zero value is not a valid state.
type ConnectionState uint8

const (
	StateIdle ConnectionState = iota + 1
	StateConnecting
	StateOpen
	StateReconnecting
	StateClosed
)

func (s ConnectionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateReconnecting:
		return "reconnecting"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

func (s ConnectionState) MarshalText() ([]byte, error) {
	if s < StateIdle || s > StateClosed {
		return nil, fmt.Errorf("invalid connection state %d", uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *ConnectionState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle":
		*s = StateIdle
	case "connecting":
		*s = StateConnecting
	case "open", "connected":
		*s = StateOpen
	case "reconnecting":
		*s = StateReconnecting
	case "closed", "disconnected":
		*s = StateClosed
	default:
		return fmt.Errorf("unknown connection state %q", string(text))
	}
	return nil
}

// ConnectionStatus reports a connection state transition. Status observers
// receive one per transition; a backend may also send it on the wire.
type ConnectionStatus struct {
	Base
	State ConnectionState `json:"state" validate:"required"`
	// Err describes the transport failure that caused the transition.
	Err string `json:"error,omitempty"`
	// Attempt is the number of consecutive failed connection attempts.
	Attempt int `json:"attempt,omitempty"`
	// RetryIn is the delay before the next connection attempt, set only when
	// State is StateReconnecting.
	RetryIn time.Duration `json:"-"`
}

// NewConnectionStatus creates a connection status event.
func NewConnectionStatus(state ConnectionState, opts ...BaseOption) ConnectionStatus {
	return ConnectionStatus{Base: newBase(KindConnectionStatus, opts), State: state}
}
