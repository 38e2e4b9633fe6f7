package events

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// Kind is the wire discriminant of an event (the envelope "type" field).
type Kind string

// Event is a decoded realtime event.
type Event interface {
	Kind() Kind
	Timestamp() time.Time
}

// ProtocolVersion is the envelope version written by Encode when the event
// does not carry one.
const ProtocolVersion = "1.0"

// Base holds the envelope fields shared by every event.
type Base struct {
	kind      Kind
	timestamp time.Time
	seq       int64
	version   string
	sessionID string
}

func NewBase(kind Kind) Base {
	return Base{kind: kind, timestamp: time.Now(), version: ProtocolVersion}
}

func (b Base) Kind() Kind {
	return b.kind
}

func (b Base) Timestamp() time.Time {
	return b.timestamp
}

// Seq is the server assigned sequence number, 0 when absent.
func (b Base) Seq() int64 {
	return b.seq
}

func (b Base) Version() string {
	return b.version
}

func (b Base) SessionID() string {
	return b.sessionID
}

func (b *Base) setBase(base Base) {
	*b = base
}

func (b Base) base() Base {
	return b
}

// BaseOption adjusts the envelope fields of a constructed event.
type BaseOption func(*Base)

func WithTimestamp(ts time.Time) BaseOption {
	return func(b *Base) { b.timestamp = ts }
}

func WithSeq(seq int64) BaseOption {
	return func(b *Base) { b.seq = seq }
}

func WithSessionID(sessionID string) BaseOption {
	return func(b *Base) { b.sessionID = sessionID }
}

func newBase(kind Kind, opts []BaseOption) Base {
	base := NewBase(kind)
	for _, opt := range opts {
		opt(&base)
	}
	return base
}

// ID is an identifier the backend sends either as a JSON string or a number.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}
