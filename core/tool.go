package core

import (
	"context"
	"encoding/json"
)

// Tool is a callable capability the model can invoke. Implementations are
// registered once at startup and must be safe for concurrent use: the
// dispatcher may run several invocations from the same turn in parallel.
type Tool interface {
	// Name returns the unique registry key for this tool.
	Name() string

	// Description returns the natural-language description advertised
	// to the model.
	Description() string

	// InputSchema returns the JSON-Schema-like object describing the
	// tool's parameters.
	InputSchema() map[string]interface{}

	// Execute runs the tool with validated arguments. A failed execution
	// returns either a non-nil error or a ToolResult with Success=false;
	// both are converted to error-flagged result messages by the
	// dispatcher, never propagated past it.
	Execute(ctx context.Context, params *ToolParams) (*ToolResult, error)
}

// ToolDefinition is the declarative metadata for one tool.
type ToolDefinition struct {
	ToolName        string
	ToolDescription string

	// InputSchema is a JSON-Schema-like object: {"type":"object",
	// "properties":{...},"required":[...]}. See the tools package for
	// schema builders.
	InputSchema map[string]interface{}
}

// ToolParams carries the arguments and call context for one execution.
type ToolParams struct {
	// SessionID identifies the owning conversation loop instance.
	SessionID string

	// CallID is the model-assigned invocation ID.
	CallID string

	// Input is the argument blob, already validated against the schema.
	Input json.RawMessage
}

// ToolResult is what a tool execution produced.
type ToolResult struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// OK builds a successful result.
func OK(data interface{}) *ToolResult {
	return &ToolResult{Success: true, Data: data}
}

// Fail builds a failed result with the given reason.
func Fail(reason string) *ToolResult {
	return &ToolResult{Success: false, Error: reason}
}
