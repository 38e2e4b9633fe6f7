package main

import (
	"strings"
	"testing"
	"time"

	"github.com/koscakluka/coda-realtime/core/events"
	"github.com/muesli/reflow/ansi"
)

func TestSummarize(t *testing.T) {
	testCases := []struct {
		name  string
		event events.Event
		want  string
	}{
		{name: "final transcript", event: events.NewSTTResult("hello"), want: `"hello" (confidence 0.00)`},
		{name: "token", event: events.NewLLMToken("Hi", 3), want: `#3 "Hi"`},
		{name: "tool call", event: events.NewToolCall("search", map[string]any{"q": "go", "limit": 2}), want: "search(limit=2, q=go)"},
		{name: "system error", event: events.NewSystemError("critical", "disk full"), want: "[critical] disk full"},
		{name: "state change", event: events.StateChange{State: "speaking", Previous: "thinking"}, want: "thinking -> speaking"},
		{name: "rejected auth", event: events.AuthResult{Message: "bad token"}, want: "rejected: bad token"},
		{name: "replay", event: events.NewReplay([]events.Event{events.NewSTTStart("file")}), want: "1 events"},
		{
			name: "reconnecting",
			event: events.ConnectionStatus{
				State:   events.StateReconnecting,
				Attempt: 2,
				RetryIn: 1500 * time.Millisecond,
				Err:     "connection refused",
			},
			want: "reconnecting, attempt 2, retry in 1.5s, connection refused",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := summarize(testCase.event); got != testCase.want {
				t.Fatalf("expected %q, got %q", testCase.want, got)
			}
		})
	}
}

func TestFormatLineFitsWidth(t *testing.T) {
	event := events.NewSTTResult(strings.Repeat("long transcript ", 20))

	for _, width := range []int{10, 30, 80} {
		line := formatLine(event, width)
		if got := ansi.PrintableRuneWidth(line); got > width {
			t.Fatalf("expected at most %d columns, got %d: %q", width, got, line)
		}
	}
}

func TestFormatLineUnbounded(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 6_000_000, time.Local)
	event := events.NewLLMResult("done", events.WithTimestamp(ts))

	line := formatLine(event, 0)
	for _, part := range []string{"03:04:05.006", "llm_result", `"done"`} {
		if !strings.Contains(line, part) {
			t.Fatalf("expected %q in %q", part, line)
		}
	}
}

func TestFormatLineUnknown(t *testing.T) {
	event := events.Decode([]byte(`{"type":"mystery"}`))

	line := formatLine(event, 0)
	if !strings.Contains(line, "mystery") {
		t.Fatalf("expected declared type in %q", line)
	}
}
