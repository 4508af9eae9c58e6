package engine

import (
	"context"

	"github.com/mementolabs/memento-go-sdk/core"
)

// ModelClient is the language-model boundary. The engine asks it for one
// decision per request: plain text, tool calls, or both. Implementations
// wrap a provider SDK; tests use scripted fakes.
type ModelClient interface {
	Decide(ctx context.Context, req *DecisionRequest) (*Decision, error)
}

// DecisionRequest carries everything the model sees for one request.
type DecisionRequest struct {
	// System is the rendered system context for this turn.
	System string

	// Messages is the transcript so far, oldest first.
	Messages []core.Message

	// Tools is the advertised tool list in registry order. Empty on the
	// final-response request of a turn: the model must answer in text.
	Tools []core.ToolDefinition
}

// Decision is the model's answer.
type Decision struct {
	// Text is the model's prose, possibly empty when it only requested
	// tools.
	Text string

	// ToolCalls are the requested invocations in the order the model
	// emitted them.
	ToolCalls []core.ToolCall
}
