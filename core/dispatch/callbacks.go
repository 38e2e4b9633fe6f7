package dispatch

import "github.com/koscakluka/coda-realtime/core/events"

// Callbacks is an Observer for consumers that only care about a few
// payloads. Nil callbacks are skipped.
type Callbacks struct {
	OnConnectionStatus func(events.ConnectionStatus)

	OnInterimTranscription func(text string)
	OnTranscription        func(text string)
	OnResponseToken        func(token string)
	OnResponse             func(text string)
	OnSpeechStarted        func(text string)
	OnSpeechStopped        func(reason string)
	OnToolCall             func(name string, parameters map[string]any)
	OnAssistantState       func(state string)

	// OnError receives the message of every *_error event.
	OnError   func(kind events.Kind, message string)
	OnUnknown func(events.Unknown)
}

var _ Observer = Callbacks{}

func (c Callbacks) OnStatus(status events.ConnectionStatus) {
	if c.OnConnectionStatus != nil {
		c.OnConnectionStatus(status)
	}
}

func (c Callbacks) OnEvent(event events.Event) {
	switch typedEvent := event.(type) {
	case events.STTInterim:
		if c.OnInterimTranscription != nil {
			c.OnInterimTranscription(typedEvent.Text)
		}
	case events.STTResult:
		if c.OnTranscription != nil {
			c.OnTranscription(typedEvent.Text)
		}
	case events.LLMToken:
		if c.OnResponseToken != nil {
			c.OnResponseToken(typedEvent.Token)
		}
	case events.LLMResult:
		if c.OnResponse != nil {
			c.OnResponse(typedEvent.Text)
		}
	case events.TTSStart:
		if c.OnSpeechStarted != nil {
			c.OnSpeechStarted(typedEvent.Text)
		}
	case events.TTSStop:
		if c.OnSpeechStopped != nil {
			c.OnSpeechStopped(typedEvent.Reason)
		}
	case events.ToolCall:
		if c.OnToolCall != nil {
			c.OnToolCall(typedEvent.ToolName, typedEvent.Parameters)
		}
	case events.StateChange:
		if c.OnAssistantState != nil {
			c.OnAssistantState(typedEvent.State)
		}
	case events.SystemError:
		c.reportError(typedEvent.Kind(), typedEvent.Message)
	case events.STTError:
		c.reportError(typedEvent.Kind(), typedEvent.Message)
	case events.LLMError:
		c.reportError(typedEvent.Kind(), typedEvent.Message)
	case events.TTSError:
		c.reportError(typedEvent.Kind(), typedEvent.Message)
	case events.ToolError:
		c.reportError(typedEvent.Kind(), typedEvent.Message)
	case events.Unknown:
		if c.OnUnknown != nil {
			c.OnUnknown(typedEvent)
		}
	}
}

func (c Callbacks) reportError(kind events.Kind, message string) {
	if c.OnError != nil {
		c.OnError(kind, message)
	}
}
