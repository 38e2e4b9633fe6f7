package events

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestDecodeTranscriptionResult(t *testing.T) {
	event := Decode([]byte(`{"type":"stt_result","timestamp":1700000000.5,"seq":7,"version":"1.0","data":{"text":"hello"}}`))

	result, ok := event.(STTResult)
	if !ok {
		t.Fatalf("expected STTResult, got %T (%v)", event, event)
	}
	if result.Text != "hello" {
		t.Fatalf("expected text %q, got %q", "hello", result.Text)
	}
	if result.Kind() != KindSTTResult {
		t.Fatalf("expected kind %q, got %q", KindSTTResult, result.Kind())
	}
	if result.Seq() != 7 {
		t.Fatalf("expected seq 7, got %d", result.Seq())
	}
	if result.Version() != "1.0" {
		t.Fatalf("expected version 1.0, got %q", result.Version())
	}
	if expected := time.Unix(1700000000, 500_000_000); !result.Timestamp().Equal(expected) {
		t.Fatalf("expected timestamp %v, got %v", expected, result.Timestamp())
	}
}

func TestDecodeAcceptsMillisecondTimestamps(t *testing.T) {
	event := Decode([]byte(`{"type":"stt_interim","timestamp":1700000000500,"data":{"text":"hel"}}`))

	if expected := time.Unix(1700000000, 500_000_000); !event.Timestamp().Equal(expected) {
		t.Fatalf("expected timestamp %v, got %v", expected, event.Timestamp())
	}
}

func TestDecodeAtFillsMissingTimestamp(t *testing.T) {
	frame := []byte(`{"type":"llm_token","data":{"token":"Hi"}}`)
	receivedAt := time.Unix(1700000100, 0)

	if ts := Decode(frame).Timestamp(); !ts.IsZero() {
		t.Fatalf("expected zero timestamp from Decode, got %v", ts)
	}
	if ts := DecodeAt(frame, receivedAt).Timestamp(); !ts.Equal(receivedAt) {
		t.Fatalf("expected timestamp %v, got %v", receivedAt, ts)
	}
}

func TestDecodeUnknownFrames(t *testing.T) {
	testCases := []struct {
		name     string
		frame    string
		reason   error
		declared string
	}{
		{name: "not json", frame: `hello there`, reason: ErrMalformedFrame},
		{name: "json array", frame: `[1, 2]`, reason: ErrMalformedFrame},
		{name: "json null", frame: `null`, reason: ErrMalformedFrame},
		{name: "missing type", frame: `{"data":{"text":"hello"}}`, reason: ErrMissingType},
		{name: "empty type", frame: `{"type":"","data":{}}`, reason: ErrMissingType},
		{name: "non string type", frame: `{"type":5,"data":{}}`, reason: ErrMissingType},
		{name: "unrecognized kind", frame: `{"type":"mystery","data":{}}`, reason: ErrUnrecognizedKind, declared: "mystery"},
		{name: "wrong field type", frame: `{"type":"stt_result","data":{"text":5}}`, reason: ErrMalformedFrame, declared: "stt_result"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			event := Decode([]byte(testCase.frame))

			unknown, ok := event.(Unknown)
			if !ok {
				t.Fatalf("expected Unknown, got %T", event)
			}
			if unknown.Kind() != KindUnknown {
				t.Fatalf("expected kind %q, got %q", KindUnknown, unknown.Kind())
			}
			if !errors.Is(unknown.Reason, testCase.reason) {
				t.Fatalf("expected reason %v, got %v", testCase.reason, unknown.Reason)
			}
			if unknown.DeclaredType != testCase.declared {
				t.Fatalf("expected declared type %q, got %q", testCase.declared, unknown.DeclaredType)
			}
			if !bytes.Equal(unknown.Raw, []byte(testCase.frame)) {
				t.Fatalf("expected raw frame to be kept, got %q", unknown.Raw)
			}
		})
	}
}

func TestDecodeReportsMissingRequiredFields(t *testing.T) {
	testCases := []struct {
		frame   string
		missing []string
	}{
		{frame: `{"type":"stt_result","data":{}}`, missing: []string{"text"}},
		{frame: `{"type":"stt_result"}`, missing: []string{"text"}},
		{frame: `{"type":"system_metrics","data":{"gpu_vram_mb":1}}`, missing: []string{"memory_mb", "cpu_percent"}},
		{frame: `{"type":"tool_error","data":{"tool_name":"weather"}}`, missing: []string{"message"}},
		{frame: `{"type":"auth_result","data":{"client_id":"c-1"}}`, missing: []string{"success"}},
		{frame: `{"type":"connection_status","data":{}}`, missing: []string{"state"}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.frame, func(t *testing.T) {
			event := Decode([]byte(testCase.frame))

			unknown, ok := event.(Unknown)
			if !ok {
				t.Fatalf("expected Unknown, got %T", event)
			}
			var validationErr *ValidationError
			if !errors.As(unknown.Reason, &validationErr) {
				t.Fatalf("expected validation error, got %v", unknown.Reason)
			}
			if !reflect.DeepEqual(validationErr.Missing, testCase.missing) {
				t.Fatalf("expected missing %v, got %v", testCase.missing, validationErr.Missing)
			}
		})
	}
}

func TestDecodeAcceptsEmptyRequiredStrings(t *testing.T) {
	testCases := []struct {
		kind Kind
		data string
	}{
		{kind: KindSystemError, data: `{"message":""}`},
		{kind: KindSTTInterim, data: `{"text":""}`},
		{kind: KindSTTResult, data: `{"text":"","confidence":0}`},
		{kind: KindSTTError, data: `{"message":""}`},
		{kind: KindLLMStart, data: `{"model":""}`},
		{kind: KindLLMToken, data: `{"token":"","token_index":0}`},
		{kind: KindLLMResult, data: `{"text":""}`},
		{kind: KindLLMError, data: `{"message":""}`},
		{kind: KindTTSStart, data: `{"text":""}`},
		{kind: KindTTSError, data: `{"message":""}`},
		{kind: KindTTSStatus, data: `{"status":""}`},
		{kind: KindMemoryStore, data: `{"memory_id":""}`},
		{kind: KindMemoryRetrieve, data: `{"query":""}`},
		{kind: KindMemoryUpdate, data: `{"memory_id":"","field":""}`},
		{kind: KindToolCall, data: `{"tool_name":""}`},
		{kind: KindToolResult, data: `{"tool_name":""}`},
		{kind: KindToolError, data: `{"tool_name":"","message":""}`},
		{kind: KindConversationStart, data: `{"session_id":""}`},
		{kind: KindConversationTurn, data: `{"role":"","content":""}`},
		{kind: KindConversationEnd, data: `{"session_id":""}`},
		{kind: KindComponentTiming, data: `{"component":"","operation":""}`},
		{kind: KindEmotionChange, data: `{"emotion":""}`},
		{kind: KindStateChange, data: `{"state":""}`},
		{kind: KindAuthChallenge, data: `{"token":""}`},
		{kind: KindComponentStats, data: `{"components":{}}`},
		{kind: KindReplay, data: `{"events":[]}`},
	}

	for _, testCase := range testCases {
		t.Run(string(testCase.kind), func(t *testing.T) {
			frame := `{"type":"` + string(testCase.kind) + `","timestamp":1700000000,"data":` + testCase.data + `}`
			event := Decode([]byte(frame))
			if event.Kind() != testCase.kind {
				t.Fatalf("expected kind %q, got %q (%v)", testCase.kind, event.Kind(), event)
			}
		})
	}
}

func TestDecodeNullRequiredStringIsMissing(t *testing.T) {
	event := Decode([]byte(`{"type":"tool_error","data":{"tool_name":"","message":null}}`))

	unknown, ok := event.(Unknown)
	if !ok {
		t.Fatalf("expected Unknown, got %T", event)
	}
	var validationErr *ValidationError
	if !errors.As(unknown.Reason, &validationErr) {
		t.Fatalf("expected validation error, got %v", unknown.Reason)
	}
	if !reflect.DeepEqual(validationErr.Missing, []string{"message"}) {
		t.Fatalf("expected missing [message], got %v", validationErr.Missing)
	}
}

func TestEmptyTranscriptSurvivesRoundTrip(t *testing.T) {
	encoded, err := Encode(NewSTTResult(""))
	if err != nil {
		t.Fatalf("unexpected encode error: %v", err)
	}

	decoded, ok := Decode(encoded).(STTResult)
	if !ok {
		t.Fatalf("expected STTResult, got %T", Decode(encoded))
	}
	if decoded.Text != "" {
		t.Fatalf("expected empty text, got %q", decoded.Text)
	}
}

func TestDecodeOptionalOnlyKindsAcceptEmptyPayload(t *testing.T) {
	for _, kind := range []Kind{KindSystemInfo, KindSTTStart, KindTTSResult, KindTTSStop} {
		event := Decode([]byte(`{"type":"` + string(kind) + `"}`))
		if event.Kind() != kind {
			t.Fatalf("expected kind %q, got %q (%v)", kind, event.Kind(), event)
		}
	}
}

func TestDecodeFalseSuccessIsPresent(t *testing.T) {
	event := Decode([]byte(`{"type":"auth_result","data":{"success":false,"message":"bad token"}}`))

	result, ok := event.(AuthResult)
	if !ok {
		t.Fatalf("expected AuthResult, got %T (%v)", event, event)
	}
	if result.Succeeded() {
		t.Fatalf("expected failed auth result")
	}
}

func TestDecodeSystemInfoKeepsWholePayload(t *testing.T) {
	event := Decode([]byte(`{"type":"system_info","data":{"version":"2.0","gpu":true}}`))

	info, ok := event.(SystemInfo)
	if !ok {
		t.Fatalf("expected SystemInfo, got %T", event)
	}
	if info.Info["version"] != "2.0" || info.Info["gpu"] != true {
		t.Fatalf("expected whole payload in Info, got %v", info.Info)
	}
}

func TestDecodeNumericIdentifiers(t *testing.T) {
	event := Decode([]byte(`{"type":"memory_store","data":{"memory_id":42,"content_preview":"likes tea"}}`))

	store, ok := event.(MemoryStore)
	if !ok {
		t.Fatalf("expected MemoryStore, got %T (%v)", event, event)
	}
	if store.MemoryID != "42" {
		t.Fatalf("expected memory id %q, got %q", "42", store.MemoryID)
	}

	encoded, err := Encode(store)
	if err != nil {
		t.Fatalf("unexpected encode error: %v", err)
	}
	if !bytes.Contains(encoded, []byte(`"memory_id":42`)) {
		t.Fatalf("expected numeric memory id to stay numeric, got %s", encoded)
	}
}

func TestDecodeConnectionStatusAliases(t *testing.T) {
	testCases := map[string]ConnectionState{
		"connected":    StateOpen,
		"open":         StateOpen,
		"disconnected": StateClosed,
		"reconnecting": StateReconnecting,
	}

	for wire, expected := range testCases {
		event := Decode([]byte(`{"type":"connection_status","data":{"state":"` + wire + `"}}`))
		status, ok := event.(ConnectionStatus)
		if !ok {
			t.Fatalf("expected ConnectionStatus for %q, got %T (%v)", wire, event, event)
		}
		if status.State != expected {
			t.Fatalf("expected state %v for %q, got %v", expected, wire, status.State)
		}
	}
}

func TestDecodeReplay(t *testing.T) {
	frame := `{"type":"replay","timestamp":1700000000,"events":[` +
		`{"type":"stt_result","timestamp":1699999990,"data":{"text":"hello"}},` +
		`{"type":"bogus","data":{}},` +
		`{"type":"llm_token","data":{"token":"Hi"}}` +
		`]}`

	event := Decode([]byte(frame))

	replay, ok := event.(Replay)
	if !ok {
		t.Fatalf("expected Replay, got %T (%v)", event, event)
	}
	if len(replay.Events) != 3 {
		t.Fatalf("expected 3 replayed events, got %d", len(replay.Events))
	}
	if replay.Events[0].Kind() != KindSTTResult {
		t.Fatalf("expected first replayed event to be %q, got %q", KindSTTResult, replay.Events[0].Kind())
	}
	if _, ok := replay.Events[1].(Unknown); !ok {
		t.Fatalf("expected second replayed event to be Unknown, got %T", replay.Events[1])
	}
	if expected := time.Unix(1700000000, 0); !replay.Events[2].Timestamp().Equal(expected) {
		t.Fatalf("expected replayed event without timestamp to inherit %v, got %v", expected, replay.Events[2].Timestamp())
	}
}

func TestDecodeReplayInsideData(t *testing.T) {
	event := Decode([]byte(`{"type":"replay","data":{"events":[{"type":"stt_start","data":{}}]}}`))

	replay, ok := event.(Replay)
	if !ok {
		t.Fatalf("expected Replay, got %T (%v)", event, event)
	}
	if len(replay.Events) != 1 || replay.Events[0].Kind() != KindSTTStart {
		t.Fatalf("expected one stt_start event, got %v", replay.Events)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	ts := time.Unix(1700000000, 250_000_000)
	opts := []BaseOption{WithTimestamp(ts), WithSeq(3), WithSessionID("s-1")}

	testCases := []Event{
		NewConnectionStatus(StateReconnecting, opts...),
		NewSystemInfo(map[string]any{"version": "2.0"}, opts...),
		NewSystemError("critical", "boom", opts...),
		NewSystemMetrics(512, 12.5, opts...),
		NewSTTStart("file", opts...),
		NewSTTInterim("hel", opts...),
		NewSTTResult("hello", opts...),
		NewSTTError("mic unavailable", opts...),
		NewLLMStart("llama", opts...),
		NewLLMToken("Hi", 4, opts...),
		NewLLMResult("Hi there", opts...),
		NewLLMError("timeout", opts...),
		NewTTSStart("Hi there", opts...),
		NewTTSProgress(0, opts...),
		NewTTSResult(1.5, 8, opts...),
		NewTTSError("voice missing", opts...),
		NewTTSStatus("playing", opts...),
		NewTTSStop("interrupted", opts...),
		NewMemoryStore("m-1", "likes tea", opts...),
		NewMemoryRetrieve("tea", []MemoryResult{{ID: "m-1", Content: "likes tea", Score: 0.9}}, opts...),
		NewMemoryUpdate("m-1", "importance", 1.0, 2.0, opts...),
		NewToolCall("weather", map[string]any{"city": "Zagreb"}, opts...),
		NewToolResult("weather", "sunny", opts...),
		NewToolError("weather", "offline", opts...),
		NewConversationStart("s-1", opts...),
		NewConversationTurn("assistant", "Hi there", opts...),
		NewConversationEnd("s-1", 3, opts...),
		NewLatencyTrace(0.1, 0.2, 0.3, opts...),
		NewComponentTiming("stt", "transcribe", 0.4, opts...),
		NewComponentStats(map[string]map[string]map[string]any{"stt": {"transcribe": {"count": 2.0}}}, opts...),
		NewEmotionChange("happy", opts...),
		NewStateChange("listening", opts...),
		NewAuthChallenge("abc", opts...),
		NewAuthResult(false, opts...),
		NewReplay([]Event{NewSTTResult("hello", opts...), NewLLMToken("Hi", 0, opts...)}, opts...),
	}

	for _, original := range testCases {
		t.Run(string(original.Kind()), func(t *testing.T) {
			encoded, err := Encode(original)
			if err != nil {
				t.Fatalf("unexpected encode error: %v", err)
			}

			decoded := Decode(encoded)
			if decoded.Kind() != original.Kind() {
				t.Fatalf("expected kind %q, got %q (%v)", original.Kind(), decoded.Kind(), decoded)
			}
			if diff := decoded.Timestamp().Sub(ts).Abs(); diff > time.Millisecond {
				t.Fatalf("expected timestamp %v, got %v", ts, decoded.Timestamp())
			}

			// The payload written by Encode must survive a second pass
			// unchanged.
			reencoded, err := Encode(decoded)
			if err != nil {
				t.Fatalf("unexpected re-encode error: %v", err)
			}
			if !equalJSONField(t, encoded, reencoded, "data") {
				t.Fatalf("expected payload to survive round trip\nfirst:  %s\nsecond: %s", encoded, reencoded)
			}
		})
	}
}

func TestEncodeUnknownReturnsRawFrame(t *testing.T) {
	frame := []byte(`{"type":"mystery","data":{"a":1}}`)

	encoded, err := Encode(Decode(frame))
	if err != nil {
		t.Fatalf("unexpected encode error: %v", err)
	}
	if !bytes.Equal(encoded, frame) {
		t.Fatalf("expected raw frame %s, got %s", frame, encoded)
	}
}

func TestEncodeRejectsEventsWithoutKind(t *testing.T) {
	if _, err := Encode(STTResult{Text: "hello"}); !errors.Is(err, ErrMissingType) {
		t.Fatalf("expected ErrMissingType, got %v", err)
	}
	if _, err := Encode(nil); err == nil {
		t.Fatalf("expected error encoding nil event")
	}
}

func TestEncodeClientMessage(t *testing.T) {
	ts := time.Unix(1700000000, 0)
	encoded, err := EncodeClientMessage(ClientMessage{Type: "text_input", Data: map[string]any{"text": "hi"}, Timestamp: ts})
	if err != nil {
		t.Fatalf("unexpected encode error: %v", err)
	}

	var envelope map[string]any
	if err := json.Unmarshal(encoded, &envelope); err != nil {
		t.Fatalf("expected JSON object, got %s", encoded)
	}
	if envelope["type"] != "text_input" {
		t.Fatalf("expected type text_input, got %v", envelope["type"])
	}
	if envelope["timestamp"] != float64(1700000000) {
		t.Fatalf("expected timestamp in seconds, got %v", envelope["timestamp"])
	}
	if envelope["version"] != ProtocolVersion {
		t.Fatalf("expected version %q, got %v", ProtocolVersion, envelope["version"])
	}

	if _, err := EncodeClientMessage(ClientMessage{}); !errors.Is(err, ErrMissingType) {
		t.Fatalf("expected ErrMissingType, got %v", err)
	}
}

func TestAuthResponseEchoesToken(t *testing.T) {
	encoded, err := EncodeClientMessage(NewAuthResponse("abc"))
	if err != nil {
		t.Fatalf("unexpected encode error: %v", err)
	}
	if !bytes.Contains(encoded, []byte(`"type":"auth_response"`)) || !bytes.Contains(encoded, []byte(`"token":"abc"`)) {
		t.Fatalf("expected auth_response echoing the token, got %s", encoded)
	}
}

func equalJSONField(t *testing.T, a, b []byte, field string) bool {
	t.Helper()

	var first, second map[string]json.RawMessage
	if err := json.Unmarshal(a, &first); err != nil {
		t.Fatalf("invalid JSON %s: %v", a, err)
	}
	if err := json.Unmarshal(b, &second); err != nil {
		t.Fatalf("invalid JSON %s: %v", b, err)
	}

	var x, y any
	_ = json.Unmarshal(first[field], &x)
	_ = json.Unmarshal(second[field], &y)
	return reflect.DeepEqual(x, y)
}
