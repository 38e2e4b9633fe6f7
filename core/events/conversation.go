package events

const (
	// KindConversationStart identifies the start of a conversation session.
	KindConversationStart Kind = "conversation_start"
	// KindConversationTurn identifies one turn of the conversation.
	KindConversationTurn Kind = "conversation_turn"
	// KindConversationEnd identifies the end of a conversation session.
	KindConversationEnd Kind = "conversation_end"
)

type ConversationStart struct {
	Base
	ConversationID string `json:"session_id" validate:"required"`
}

// NewConversationStart creates a conversation start event.
func NewConversationStart(sessionID string, opts ...BaseOption) ConversationStart {
	return ConversationStart{Base: newBase(KindConversationStart, opts), ConversationID: sessionID}
}

// ConversationTurn carries one utterance. Role is "user", "assistant" or
// "system".
type ConversationTurn struct {
	Base
	Role    string `json:"role" validate:"required"`
	Content string `json:"content" validate:"required"`
	TurnID  ID     `json:"turn_id,omitempty"`
}

// NewConversationTurn creates a conversation turn event.
func NewConversationTurn(role, content string, opts ...BaseOption) ConversationTurn {
	return ConversationTurn{Base: newBase(KindConversationTurn, opts), Role: role, Content: content}
}

type ConversationEnd struct {
	Base
	ConversationID  string  `json:"session_id" validate:"required"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
	TurnsCount      int     `json:"turns_count,omitempty"`
}

// NewConversationEnd creates a conversation end event.
func NewConversationEnd(sessionID string, turns int, opts ...BaseOption) ConversationEnd {
	return ConversationEnd{Base: newBase(KindConversationEnd, opts), ConversationID: sessionID, TurnsCount: turns}
}
