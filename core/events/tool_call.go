package events

const (
	// KindToolCall identifies tool execution start.
	KindToolCall Kind = "tool_call"
	// KindToolResult identifies successful tool execution.
	KindToolResult Kind = "tool_result"
	// KindToolError identifies failed tool execution.
	KindToolError Kind = "tool_error"
)

// ToolCall marks start of tool execution.
type ToolCall struct {
	Base
	ToolName   string         `json:"tool_name" validate:"required"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// NewToolCall creates a tool call event.
func NewToolCall(name string, parameters map[string]any, opts ...BaseOption) ToolCall {
	return ToolCall{Base: newBase(KindToolCall, opts), ToolName: name, Parameters: parameters}
}

// ToolResult marks successful tool execution.
type ToolResult struct {
	Base
	ToolName        string  `json:"tool_name" validate:"required"`
	ResultPreview   string  `json:"result_preview,omitempty"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
}

// NewToolResult creates a tool result event.
func NewToolResult(name, preview string, opts ...BaseOption) ToolResult {
	return ToolResult{Base: newBase(KindToolResult, opts), ToolName: name, ResultPreview: preview}
}

// ToolError marks failed tool execution.
type ToolError struct {
	Base
	ToolName string         `json:"tool_name" validate:"required"`
	Message  string         `json:"message" validate:"required"`
	Details  map[string]any `json:"details,omitempty"`
}

// NewToolError creates a tool error event.
func NewToolError(name, message string, opts ...BaseOption) ToolError {
	return ToolError{Base: newBase(KindToolError, opts), ToolName: name, Message: message}
}
