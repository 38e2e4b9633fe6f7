package events

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

type envelope struct {
	Version   string          `json:"version,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Timestamp *float64        `json:"timestamp,omitempty"`
	Type      Kind            `json:"type"`
	SessionID string          `json:"session_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

type decodeFunc func(base Base, data []byte) (Event, error)

type catalogEntry struct {
	kind   Kind
	decode decodeFunc
	// schema is the value reflected by JSONSchema.
	schema any
}

var (
	catalog      []catalogEntry
	catalogIndex map[Kind]catalogEntry
)

// The catalog is assembled in init because decodeReplay recurses into
// DecodeAt, which reads the catalog.
func init() {
	catalog = []catalogEntry{
		{KindConnectionStatus, decodeAs[ConnectionStatus], ConnectionStatus{}},
		{KindSystemInfo, decodeAs[SystemInfo], map[string]any{}},
		{KindSystemError, decodeAs[SystemError], SystemError{}},
		{KindSystemMetrics, decodeAs[SystemMetrics], SystemMetrics{}},
		{KindSTTStart, decodeAs[STTStart], STTStart{}},
		{KindSTTInterim, decodeAs[STTInterim], STTInterim{}},
		{KindSTTResult, decodeAs[STTResult], STTResult{}},
		{KindSTTError, decodeAs[STTError], STTError{}},
		{KindLLMStart, decodeAs[LLMStart], LLMStart{}},
		{KindLLMToken, decodeAs[LLMToken], LLMToken{}},
		{KindLLMResult, decodeAs[LLMResult], LLMResult{}},
		{KindLLMError, decodeAs[LLMError], LLMError{}},
		{KindTTSStart, decodeAs[TTSStart], TTSStart{}},
		{KindTTSProgress, decodeAs[TTSProgress], TTSProgress{}},
		{KindTTSResult, decodeAs[TTSResult], TTSResult{}},
		{KindTTSError, decodeAs[TTSError], TTSError{}},
		{KindTTSStatus, decodeAs[TTSStatus], TTSStatus{}},
		{KindTTSStop, decodeAs[TTSStop], TTSStop{}},
		{KindMemoryStore, decodeAs[MemoryStore], MemoryStore{}},
		{KindMemoryRetrieve, decodeAs[MemoryRetrieve], MemoryRetrieve{}},
		{KindMemoryUpdate, decodeAs[MemoryUpdate], MemoryUpdate{}},
		{KindToolCall, decodeAs[ToolCall], ToolCall{}},
		{KindToolResult, decodeAs[ToolResult], ToolResult{}},
		{KindToolError, decodeAs[ToolError], ToolError{}},
		{KindConversationStart, decodeAs[ConversationStart], ConversationStart{}},
		{KindConversationTurn, decodeAs[ConversationTurn], ConversationTurn{}},
		{KindConversationEnd, decodeAs[ConversationEnd], ConversationEnd{}},
		{KindLatencyTrace, decodeAs[LatencyTrace], LatencyTrace{}},
		{KindComponentTiming, decodeAs[ComponentTiming], ComponentTiming{}},
		{KindComponentStats, decodeAs[ComponentStats], ComponentStats{}},
		{KindEmotionChange, decodeAs[EmotionChange], EmotionChange{}},
		{KindStateChange, decodeAs[StateChange], StateChange{}},
		{KindAuthChallenge, decodeAs[AuthChallenge], AuthChallenge{}},
		{KindAuthResult, decodeAs[AuthResult], AuthResult{}},
		{KindReplay, decodeReplay, replayPayload{}},
	}

	catalogIndex = make(map[Kind]catalogEntry, len(catalog))
	for _, entry := range catalog {
		catalogIndex[entry.kind] = entry
	}
}

// Kinds lists every recognized kind in a stable order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(catalog))
	for _, entry := range catalog {
		kinds = append(kinds, entry.kind)
	}
	return kinds
}

// IsRecognized reports whether kind is part of the catalog.
func IsRecognized(kind Kind) bool {
	_, ok := catalogIndex[kind]
	return ok
}

// Decode turns one raw frame into an Event. It never fails: frames that cannot
// be decoded come back as Unknown. Events without a timestamp keep the zero
// time.
func Decode(raw []byte) Event {
	return DecodeAt(raw, time.Time{})
}

// DecodeAt is Decode with receivedAt used as the timestamp of events that do
// not carry one.
func DecodeAt(raw []byte, receivedAt time.Time) Event {
	base := Base{kind: KindUnknown, timestamp: receivedAt}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		if err == nil {
			err = errors.New("frame is null")
		}
		return newUnknown(base, raw, "", fmt.Errorf("%w: %v", ErrMalformedFrame, err))
	}

	readEnvelopeFields(fields, &base)

	var declared string
	if rawType, ok := fields["type"]; ok {
		_ = json.Unmarshal(rawType, &declared)
	}
	if declared == "" {
		return newUnknown(base, raw, "", ErrMissingType)
	}

	entry, ok := catalogIndex[Kind(declared)]
	if !ok {
		return newUnknown(base, raw, declared, fmt.Errorf("%w: %q", ErrUnrecognizedKind, declared))
	}
	base.kind = entry.kind

	data := payloadOf(entry.kind, fields)
	event, err := entry.decode(base, data)
	if err != nil {
		return newUnknown(base, raw, declared, err)
	}
	return event
}

func readEnvelopeFields(fields map[string]json.RawMessage, base *Base) {
	if rawTs, ok := fields["timestamp"]; ok {
		var seconds float64
		if err := json.Unmarshal(rawTs, &seconds); err == nil && seconds > 0 {
			base.timestamp = fromSeconds(seconds)
		}
	}
	if rawSeq, ok := fields["seq"]; ok {
		var seq float64
		if err := json.Unmarshal(rawSeq, &seq); err == nil {
			base.seq = int64(seq)
		}
	}
	if rawVersion, ok := fields["version"]; ok {
		_ = json.Unmarshal(rawVersion, &base.version)
	}
	if rawSession, ok := fields["session_id"]; ok {
		_ = json.Unmarshal(rawSession, &base.sessionID)
	}
}

// payloadOf returns the kind specific payload object. The server sends replay
// batches with "events" next to "type" instead of inside "data".
func payloadOf(kind Kind, fields map[string]json.RawMessage) []byte {
	data, ok := fields["data"]
	if ok && !isNull(data) {
		return data
	}

	if kind == KindReplay {
		if events, ok := fields["events"]; ok {
			wrapped, err := json.Marshal(map[string]json.RawMessage{"events": events})
			if err == nil {
				return wrapped
			}
		}
	}
	return []byte("{}")
}

func isNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}

type settableEvent[T any] interface {
	*T
	setBase(Base)
}

func decodeAs[T Event, P settableEvent[T]](base Base, data []byte) (Event, error) {
	var event T
	if err := json.Unmarshal(data, P(&event)); err != nil {
		return nil, fmt.Errorf("%w: %s payload: %v", ErrMalformedFrame, base.kind, err)
	}
	if err := validatePayload(base.kind, P(&event), data); err != nil {
		return nil, err
	}
	P(&event).setBase(base)
	return event, nil
}

func decodeReplay(base Base, data []byte) (Event, error) {
	var payload replayPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %s payload: %v", ErrMalformedFrame, base.kind, err)
	}
	if err := validatePayload(base.kind, &payload, data); err != nil {
		return nil, err
	}

	replay := Replay{Base: base, Events: make([]Event, 0, len(payload.Events)), raw: payload.Events}
	for _, raw := range payload.Events {
		replay.Events = append(replay.Events, DecodeAt(raw, base.timestamp))
	}
	return replay, nil
}

// Encode renders an event as a wire envelope. Decoding the result yields an
// event of the same kind with the same required fields. Unknown events are
// returned exactly as they were received.
func Encode(event Event) ([]byte, error) {
	if event == nil {
		return nil, errors.New("cannot encode nil event")
	}

	switch unknown := event.(type) {
	case Unknown:
		return encodeUnknown(unknown)
	case *Unknown:
		return encodeUnknown(*unknown)
	}

	if event.Kind() == "" {
		return nil, ErrMissingType
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", event.Kind(), err)
	}

	env := envelope{Version: ProtocolVersion, Type: event.Kind(), Data: data}
	if carrier, ok := event.(interface{ base() Base }); ok {
		base := carrier.base()
		if base.version != "" {
			env.Version = base.version
		}
		env.Seq = base.seq
		env.SessionID = base.sessionID
	}
	if ts := event.Timestamp(); !ts.IsZero() {
		seconds := toSeconds(ts)
		env.Timestamp = &seconds
	}

	return json.Marshal(env)
}

func encodeUnknown(event Unknown) ([]byte, error) {
	if len(event.Raw) == 0 {
		return nil, fmt.Errorf("cannot encode unknown event without raw payload: %w", event.Reason)
	}
	return bytes.Clone(event.Raw), nil
}

// millisecondThreshold separates second and millisecond epoch timestamps.
const millisecondThreshold = 1e12

func fromSeconds(value float64) time.Time {
	if value > millisecondThreshold {
		value /= 1000
	}
	whole, frac := math.Modf(value)
	return time.Unix(int64(whole), int64(math.Round(frac*1e6))*1e3)
}

func toSeconds(t time.Time) float64 {
	return float64(t.UnixMicro()) / 1e6
}
