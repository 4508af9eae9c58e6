package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/sourcegraph/conc/iter"

	"github.com/mementolabs/memento-go-sdk/core"
	"github.com/mementolabs/memento-go-sdk/tools"
)

// Dispatcher executes the tool calls a model requested in one turn.
//
// Contract: exactly one result message per call, in request order, no
// matter what happens inside an executor. A hallucinated tool name, bad
// arguments, an executor error, even a panic all degrade to error-flagged
// result messages; nothing escapes the dispatcher boundary, because the
// transcript ordering invariant requires every call to receive its result.
type Dispatcher struct {
	registry    *ToolRegistry
	maxParallel int
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithMaxParallel caps how many calls from one turn run concurrently.
// Zero (the default) means every call in the turn runs at once.
func WithMaxParallel(n int) DispatcherOption {
	return func(d *Dispatcher) {
		d.maxParallel = n
	}
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry *ToolRegistry, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{registry: registry}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch runs all calls, concurrently when there is more than one, and
// returns their result messages in request order. Completion order never
// reorders the transcript: results land at the index of their call.
func (d *Dispatcher) Dispatch(ctx context.Context, sessionID string, calls []core.ToolCall) []core.Message {
	if len(calls) == 0 {
		return nil
	}

	mapper := iter.Mapper[core.ToolCall, core.Message]{MaxGoroutines: d.maxParallel}
	return mapper.Map(calls, func(call *core.ToolCall) core.Message {
		return d.dispatchOne(ctx, sessionID, *call)
	})
}

func (d *Dispatcher) dispatchOne(ctx context.Context, sessionID string, call core.ToolCall) (msg core.Message) {
	// An executor panic must still yield this call's result message.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[DISPATCH] tool %s panicked: %v", call.Name, r)
			err := &core.ExecutorError{Tool: call.Name, Err: fmt.Errorf("panic: %v", r)}
			msg = core.NewToolResultMessage(call.ID, call.Name, err.Error(), true)
		}
	}()

	tool, ok := d.registry.Get(call.Name)
	if !ok {
		err := &core.UnknownToolError{Tool: call.Name}
		log.Printf("[DISPATCH] %v", err)
		return core.NewToolResultMessage(call.ID, call.Name, err.Error(), true)
	}

	if verr := tools.ValidateArguments(tool.InputSchema(), call.Input); verr != nil {
		err := &core.ValidationError{Tool: call.Name, Reason: verr.Error()}
		log.Printf("[DISPATCH] %v", err)
		return core.NewToolResultMessage(call.ID, call.Name, err.Error(), true)
	}

	start := time.Now()
	result, err := tool.Execute(ctx, &core.ToolParams{
		SessionID: sessionID,
		CallID:    call.ID,
		Input:     call.Input,
	})
	log.Printf("[DISPATCH] %s took %dms", call.Name, time.Since(start).Milliseconds())

	if err != nil {
		execErr := &core.ExecutorError{Tool: call.Name, Err: err}
		return core.NewToolResultMessage(call.ID, call.Name, execErr.Error(), true)
	}
	if result == nil {
		return core.NewToolResultMessage(call.ID, call.Name, "tool returned no result", true)
	}
	if !result.Success {
		return core.NewToolResultMessage(call.ID, call.Name, result.Error, true)
	}

	return core.NewToolResultMessage(call.ID, call.Name, renderResultData(result.Data), false)
}

// renderResultData turns executor output into result-message text. Strings
// pass through; everything else is serialized for the model to read.
func renderResultData(data interface{}) string {
	switch v := data.(type) {
	case nil:
		return "ok"
	case string:
		return v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}
