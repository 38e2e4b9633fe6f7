package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// ClientMessage is an outbound message. It is written in the same envelope
// shape the server uses.
type ClientMessage struct {
	Type Kind
	Data any
	// Timestamp defaults to the time of encoding.
	Timestamp time.Time
}

// EncodeClientMessage renders msg as a wire envelope.
func EncodeClientMessage(msg ClientMessage) ([]byte, error) {
	if msg.Type == "" {
		return nil, ErrMissingType
	}

	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	var data json.RawMessage
	if msg.Data != nil {
		encoded, err := json.Marshal(msg.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s payload: %w", msg.Type, err)
		}
		data = encoded
	}

	seconds := toSeconds(ts)
	return json.Marshal(envelope{
		Version:   ProtocolVersion,
		Timestamp: &seconds,
		Type:      msg.Type,
		Data:      data,
	})
}
