package events

const (
	// KindLLMStart identifies the start of response generation.
	KindLLMStart Kind = "llm_start"
	// KindLLMToken identifies one streamed response token.
	KindLLMToken Kind = "llm_token"
	// KindLLMResult identifies the complete generated response.
	KindLLMResult Kind = "llm_result"
	// KindLLMError identifies a generation failure.
	KindLLMError Kind = "llm_error"
)

// LLMStart marks the start of response generation.
type LLMStart struct {
	Base
	Model               string `json:"model" validate:"required"`
	PromptTokens        int    `json:"prompt_tokens,omitempty"`
	SystemPromptPreview string `json:"system_prompt_preview,omitempty"`
}

// NewLLMStart creates a generation start event.
func NewLLMStart(model string, opts ...BaseOption) LLMStart {
	return LLMStart{Base: newBase(KindLLMStart, opts), Model: model}
}

// LLMToken carries one streamed token. Tokens arrive in TokenIndex order.
type LLMToken struct {
	Base
	Token      string `json:"token" validate:"required"`
	TokenIndex int    `json:"token_index,omitempty"`
}

// NewLLMToken creates a generation token event.
func NewLLMToken(token string, index int, opts ...BaseOption) LLMToken {
	return LLMToken{Base: newBase(KindLLMToken, opts), Token: token, TokenIndex: index}
}

// LLMResult carries the complete generated response.
type LLMResult struct {
	Base
	Text            string  `json:"text" validate:"required"`
	TotalTokens     int     `json:"total_tokens,omitempty"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
	HasToolCalls    bool    `json:"has_tool_calls,omitempty"`
}

func (e LLMResult) String() string { return e.Text }

// NewLLMResult creates a generation result event.
func NewLLMResult(text string, opts ...BaseOption) LLMResult {
	return LLMResult{Base: newBase(KindLLMResult, opts), Text: text}
}

// LLMError reports a generation failure.
type LLMError struct {
	Base
	Message string         `json:"message" validate:"required"`
	Details map[string]any `json:"details,omitempty"`
}

// NewLLMError creates a generation error event.
func NewLLMError(message string, opts ...BaseOption) LLMError {
	return LLMError{Base: newBase(KindLLMError, opts), Message: message}
}
