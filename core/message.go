package core

import "encoding/json"

// Role identifies who produced a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a single model-requested tool invocation.
// The ID is assigned by the model and is unique within a turn; the
// dispatcher consumes each call exactly once and never retries it.
type ToolCall struct {
	// ID correlates this call with its result message.
	ID string `json:"id"`

	// Name is the registered tool name the model asked for.
	Name string `json:"name"`

	// Input is the raw argument blob supplied by the model. It is parsed
	// and validated against the tool's schema at dispatch time.
	Input json.RawMessage `json:"input"`
}

// Message is one entry in a conversation transcript.
//
// Three shapes occur:
//   - user:      Role=RoleUser, Text set
//   - assistant: Role=RoleAssistant, Text and/or ToolCalls set
//   - tool:      Role=RoleTool, ToolCallID + ToolName + Text set
//
// The transcript is append-only; messages are never edited in place.
type Message struct {
	Role Role `json:"role"`

	// Text is the user's input, the assistant's reply, or a tool's
	// result content depending on Role.
	Text string `json:"text,omitempty"`

	// ToolCalls holds the invocations an assistant message requested,
	// in the order the model requested them.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// ToolCallID links a tool result back to the assistant call it
	// answers. Set only when Role is RoleTool.
	ToolCallID string `json:"tool_call_id,omitempty"`

	// ToolName records which tool produced a result message.
	ToolName string `json:"tool_name,omitempty"`

	// IsError marks a tool result that reports a failure (unknown tool,
	// invalid arguments, or executor error).
	IsError bool `json:"is_error,omitempty"`
}

// NewUserMessage builds a user transcript entry.
func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Text: text}
}

// NewAssistantMessage builds an assistant entry carrying optional text and
// the tool calls the model requested this turn.
func NewAssistantMessage(text string, calls []ToolCall) Message {
	return Message{Role: RoleAssistant, Text: text, ToolCalls: calls}
}

// NewToolResultMessage builds the result entry for one tool call.
func NewToolResultMessage(callID, toolName, content string, isError bool) Message {
	return Message{
		Role:       RoleTool,
		Text:       content,
		ToolCallID: callID,
		ToolName:   toolName,
		IsError:    isError,
	}
}
