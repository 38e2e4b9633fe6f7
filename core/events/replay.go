package events

import "encoding/json"

// KindReplay identifies a batch of recent events the server resends to a
// newly connected client.
const KindReplay Kind = "replay"

// Replay carries recently broadcast events in their original order. Each
// entry is decoded with the same rules as a standalone frame, so a bad entry
// becomes an Unknown without invalidating the others.
type Replay struct {
	Base
	Events []Event `json:"-"`

	raw []json.RawMessage
}

type replayPayload struct {
	Events []json.RawMessage `json:"events" validate:"required"`
}

func (e Replay) MarshalJSON() ([]byte, error) {
	if e.raw != nil && len(e.raw) == len(e.Events) {
		return json.Marshal(replayPayload{Events: e.raw})
	}

	payload := replayPayload{Events: make([]json.RawMessage, 0, len(e.Events))}
	for _, event := range e.Events {
		encoded, err := Encode(event)
		if err != nil {
			return nil, err
		}
		payload.Events = append(payload.Events, encoded)
	}
	return json.Marshal(payload)
}

// NewReplay creates a replay event.
func NewReplay(events []Event, opts ...BaseOption) Replay {
	return Replay{Base: newBase(KindReplay, opts), Events: events}
}
