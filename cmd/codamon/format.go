package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/koscakluka/coda-realtime/core/events"
	"github.com/muesli/reflow/truncate"
)

const timeLayout = "15:04:05.000"

var (
	timeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	kindStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	unknownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func stateStyle(state events.ConnectionState) lipgloss.Style {
	switch state {
	case events.StateOpen:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	case events.StateConnecting, events.StateReconnecting:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	case events.StateClosed:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	}
}

// summarize renders the interesting fields of an event on one line, without
// styling.
func summarize(event events.Event) string {
	switch e := event.(type) {
	case events.ConnectionStatus:
		return describeStatus(e)
	case events.STTStart:
		return e.Mode
	case events.STTInterim:
		return fmt.Sprintf("%q", e.Text)
	case events.STTResult:
		return fmt.Sprintf("%q (confidence %.2f)", e.Text, e.Confidence)
	case events.LLMStart:
		return e.Model
	case events.LLMToken:
		return fmt.Sprintf("#%d %q", e.TokenIndex, e.Token)
	case events.LLMResult:
		return fmt.Sprintf("%q (%d tokens)", e.Text, e.TotalTokens)
	case events.TTSStart:
		return fmt.Sprintf("%q", e.Text)
	case events.TTSProgress:
		if e.PercentComplete != nil {
			return fmt.Sprintf("%.0f%%", *e.PercentComplete)
		}
		return ""
	case events.TTSResult:
		return fmt.Sprintf("%.2fs audio, %d chars", e.AudioDurationSeconds, e.CharCount)
	case events.TTSStatus:
		return e.Status
	case events.TTSStop:
		return e.Reason
	case events.SystemError:
		return fmt.Sprintf("[%s] %s", e.Level, e.Message)
	case events.STTError:
		return e.Message
	case events.LLMError:
		return e.Message
	case events.TTSError:
		return e.Message
	case events.ToolError:
		return fmt.Sprintf("%s: %s", e.ToolName, e.Message)
	case events.ToolCall:
		return fmt.Sprintf("%s(%s)", e.ToolName, formatParameters(e.Parameters))
	case events.ToolResult:
		return fmt.Sprintf("%s -> %s", e.ToolName, e.ResultPreview)
	case events.SystemInfo:
		return formatParameters(e.Info)
	case events.SystemMetrics:
		if e.MemoryMB == nil || e.CPUPercent == nil {
			return ""
		}
		return fmt.Sprintf("%.1f MB, %.1f%% cpu", *e.MemoryMB, *e.CPUPercent)
	case events.MemoryStore:
		return fmt.Sprintf("%s %q", e.MemoryID, e.ContentPreview)
	case events.MemoryRetrieve:
		return fmt.Sprintf("%q (%d results)", e.Query, len(e.Results))
	case events.MemoryUpdate:
		return fmt.Sprintf("%s.%s", e.MemoryID, e.Field)
	case events.ConversationStart:
		return e.ConversationID
	case events.ConversationTurn:
		return fmt.Sprintf("%s: %q", e.Role, e.Content)
	case events.ConversationEnd:
		return fmt.Sprintf("%d turns", e.TurnsCount)
	case events.LatencyTrace:
		if e.TotalSeconds != nil {
			return fmt.Sprintf("total %.3fs (stt %.3fs, llm %.3fs, tts %.3fs)", *e.TotalSeconds, e.STTSeconds, e.LLMSeconds, e.TTSSeconds)
		}
		return ""
	case events.ComponentTiming:
		return fmt.Sprintf("%s.%s %.3fs", e.Component, e.Operation, e.DurationSeconds)
	case events.ComponentStats:
		return fmt.Sprintf("%d components", len(e.Components))
	case events.EmotionChange:
		return e.Emotion
	case events.StateChange:
		if e.Previous != "" {
			return fmt.Sprintf("%s -> %s", e.Previous, e.State)
		}
		return e.State
	case events.AuthChallenge:
		return e.Message
	case events.AuthResult:
		if e.Succeeded() {
			return "accepted " + e.ClientID
		}
		return "rejected: " + e.Message
	case events.Replay:
		return fmt.Sprintf("%d events", len(e.Events))
	case events.Unknown:
		return e.String()
	default:
		return ""
	}
}

func describeStatus(status events.ConnectionStatus) string {
	parts := []string{status.State.String()}
	if status.Attempt > 0 {
		parts = append(parts, fmt.Sprintf("attempt %d", status.Attempt))
	}
	if status.RetryIn > 0 {
		parts = append(parts, "retry in "+status.RetryIn.Round(time.Millisecond).String())
	}
	if status.Err != "" {
		parts = append(parts, status.Err)
	}
	return strings.Join(parts, ", ")
}

func formatParameters(params map[string]any) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%v", key, params[key]))
	}
	return strings.Join(pairs, ", ")
}

func isErrorKind(kind events.Kind) bool {
	switch kind {
	case events.KindSystemError, events.KindSTTError, events.KindLLMError, events.KindTTSError, events.KindToolError:
		return true
	}
	return false
}

// formatLine renders one styled event line no wider than width. A width of 0
// disables truncation.
func formatLine(event events.Event, width int) string {
	ts := event.Timestamp()
	if ts.IsZero() {
		ts = time.Now()
	}

	var style lipgloss.Style
	switch {
	case event.Kind() == events.KindUnknown:
		style = unknownStyle
	case isErrorKind(event.Kind()):
		style = errorStyle
	case event.Kind() == events.KindConnectionStatus:
		style = stateStyle(event.(events.ConnectionStatus).State)
	default:
		style = kindStyle
	}

	stamp := ts.Format(timeLayout)
	kind := string(event.Kind())
	summary := summarize(event)

	// Truncate before styling so escape sequences never count toward width.
	prefixWidth := len(stamp) + 1 + len(kind)
	if width > 0 && prefixWidth >= width {
		return style.Render(truncate.StringWithTail(stamp+" "+kind, uint(width), "…"))
	}
	if summary == "" {
		return timeStyle.Render(stamp) + " " + style.Render(kind)
	}
	if width > 0 {
		summary = truncate.StringWithTail(summary, uint(width-prefixWidth-1), "…")
	}
	return timeStyle.Render(stamp) + " " + style.Render(kind) + " " + summary
}
