package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mementolabs/memento-go-sdk/core"
)

// Session owns one conversation's transcript. The transcript is an ordered
// append-only sequence; a Session belongs to exactly one conversation loop
// instance and must not be shared across loops.
//
// Session enforces the ordering invariant the whole design hinges on: every
// tool result correlates to exactly one prior assistant tool call, all
// results for a turn are appended before the next model request, and no
// invocation ID appears twice. Violations are programming errors in the
// caller and are reported as errors rather than silently reordered.
type Session struct {
	ID string

	transcript []core.Message

	// pending holds the tool calls from the last assistant message that
	// have not received results yet, in request order.
	pending []core.ToolCall

	// seenCallIDs tracks every invocation ID ever appended.
	seenCallIDs map[string]bool
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{
		ID:          uuid.New().String(),
		seenCallIDs: make(map[string]bool),
	}
}

// AppendUser appends a user message. It is an error to start a new input
// while tool results are still outstanding.
func (s *Session) AppendUser(text string) error {
	if len(s.pending) > 0 {
		return fmt.Errorf("cannot append user message: %d tool calls awaiting results", len(s.pending))
	}
	s.transcript = append(s.transcript, core.NewUserMessage(text))
	return nil
}

// AppendAssistant appends the assistant's turn: its text, if any, and the
// tool calls it requested. Call IDs must be unique across the transcript.
func (s *Session) AppendAssistant(text string, calls []core.ToolCall) error {
	if len(s.pending) > 0 {
		return fmt.Errorf("cannot append assistant message: %d tool calls awaiting results", len(s.pending))
	}
	incoming := make(map[string]bool, len(calls))
	for _, call := range calls {
		if call.ID == "" {
			return fmt.Errorf("tool call for %q has empty invocation ID", call.Name)
		}
		if s.seenCallIDs[call.ID] || incoming[call.ID] {
			return fmt.Errorf("duplicate invocation ID %q", call.ID)
		}
		incoming[call.ID] = true
	}
	for _, call := range calls {
		s.seenCallIDs[call.ID] = true
	}

	s.transcript = append(s.transcript, core.NewAssistantMessage(text, calls))
	s.pending = append([]core.ToolCall(nil), calls...)
	return nil
}

// AppendToolResults appends one result per pending call. Results must cover
// the pending calls exactly, in request order; anything else would leave an
// orphaned invocation or reorder the transcript.
func (s *Session) AppendToolResults(results []core.Message) error {
	if len(results) != len(s.pending) {
		return fmt.Errorf("got %d tool results for %d pending calls", len(results), len(s.pending))
	}
	for i, res := range results {
		if res.Role != core.RoleTool {
			return fmt.Errorf("result %d has role %q, want %q", i, res.Role, core.RoleTool)
		}
		if res.ToolCallID != s.pending[i].ID {
			return fmt.Errorf("result %d answers call %q, expected %q in request order",
				i, res.ToolCallID, s.pending[i].ID)
		}
	}

	s.transcript = append(s.transcript, results...)
	s.pending = nil
	return nil
}

// HasPending reports whether tool calls are awaiting results.
func (s *Session) HasPending() bool {
	return len(s.pending) > 0
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []core.Message {
	out := make([]core.Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Len returns the transcript length.
func (s *Session) Len() int {
	return len(s.transcript)
}

// mark returns a position for later rollback.
func (s *Session) mark() int {
	return len(s.transcript)
}

// rollback discards everything appended since the mark. Used when a turn
// aborts on an external service failure, so the transcript is never left
// with a tool call lacking its result.
func (s *Session) rollback(mark int) {
	for _, msg := range s.transcript[mark:] {
		for _, call := range msg.ToolCalls {
			delete(s.seenCallIDs, call.ID)
		}
	}
	s.transcript = s.transcript[:mark]
	s.pending = nil
}
