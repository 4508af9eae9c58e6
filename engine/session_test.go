package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mementolabs/memento-go-sdk/core"
)

func call(id, name string) core.ToolCall {
	return core.ToolCall{ID: id, Name: name, Input: json.RawMessage(`{}`)}
}

func TestSession_ToolResultOrdering(t *testing.T) {
	s := NewSession()

	require.NoError(t, s.AppendUser("remember my flight"))
	require.NoError(t, s.AppendAssistant("", []core.ToolCall{call("c1", "note_to_memory"), call("c2", "recall")}))

	results := []core.Message{
		core.NewToolResultMessage("c1", "note_to_memory", "Note added.", false),
		core.NewToolResultMessage("c2", "recall", "nothing found", false),
	}
	require.NoError(t, s.AppendToolResults(results))

	msgs := s.Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, core.RoleUser, msgs[0].Role)
	assert.Equal(t, core.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "c1", msgs[2].ToolCallID)
	assert.Equal(t, "c2", msgs[3].ToolCallID)
	assert.False(t, s.HasPending())
}

func TestSession_RejectsOutOfOrderResults(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.AppendUser("hi"))
	require.NoError(t, s.AppendAssistant("", []core.ToolCall{call("c1", "a"), call("c2", "b")}))

	// Results must arrive in request order, not completion order.
	swapped := []core.Message{
		core.NewToolResultMessage("c2", "b", "second", false),
		core.NewToolResultMessage("c1", "a", "first", false),
	}
	assert.Error(t, s.AppendToolResults(swapped))
}

func TestSession_RejectsIncompleteResults(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.AppendUser("hi"))
	require.NoError(t, s.AppendAssistant("", []core.ToolCall{call("c1", "a"), call("c2", "b")}))

	one := []core.Message{core.NewToolResultMessage("c1", "a", "only one", false)}
	assert.Error(t, s.AppendToolResults(one))
	assert.True(t, s.HasPending())
}

func TestSession_RejectsDuplicateCallIDs(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.AppendUser("hi"))
	require.NoError(t, s.AppendAssistant("", []core.ToolCall{call("c1", "a")}))
	require.NoError(t, s.AppendToolResults([]core.Message{
		core.NewToolResultMessage("c1", "a", "done", false),
	}))

	require.NoError(t, s.AppendUser("again"))
	assert.Error(t, s.AppendAssistant("", []core.ToolCall{call("c1", "a")}),
		"an invocation ID must never appear twice in a transcript")
}

func TestSession_RejectsDuplicateCallIDsWithinOneTurn(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.AppendUser("hi"))

	err := s.AppendAssistant("", []core.ToolCall{call("c1", "a"), call("c1", "b")})
	require.Error(t, err, "two calls in one turn must not share an invocation ID")

	// The rejected append must leave no trace: no pending calls, and the
	// ID stays available for a well-formed turn.
	assert.False(t, s.HasPending())
	assert.Equal(t, 1, s.Len())
	assert.NoError(t, s.AppendAssistant("", []core.ToolCall{call("c1", "a")}))
}

func TestSession_RejectsNewInputWhilePending(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.AppendUser("hi"))
	require.NoError(t, s.AppendAssistant("", []core.ToolCall{call("c1", "a")}))

	assert.Error(t, s.AppendUser("impatient"))
	assert.Error(t, s.AppendAssistant("previous still pending", nil))
}

func TestSession_Rollback(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.AppendUser("turn one"))
	require.NoError(t, s.AppendAssistant("done", nil))

	mark := s.mark()
	require.NoError(t, s.AppendUser("turn two"))
	require.NoError(t, s.AppendAssistant("", []core.ToolCall{call("c9", "a")}))

	s.rollback(mark)

	assert.Equal(t, 2, s.Len())
	assert.False(t, s.HasPending())

	// The rolled-back call ID is free again.
	require.NoError(t, s.AppendUser("turn two retry"))
	assert.NoError(t, s.AppendAssistant("", []core.ToolCall{call("c9", "a")}))
}
