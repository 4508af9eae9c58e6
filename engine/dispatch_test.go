package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mementolabs/memento-go-sdk/core"
	"github.com/mementolabs/memento-go-sdk/tools"
)

// slowEcho sleeps for the given duration, then echoes its index. Staggered
// delays make completion order the reverse of request order.
func slowEcho(name string, delay time.Duration) core.Tool {
	return tools.New(name).
		Description("echo after a delay").
		Schema(tools.ObjectSchema(map[string]interface{}{})).
		Handler(func(ctx context.Context, p *core.ToolParams) (*core.ToolResult, error) {
			time.Sleep(delay)
			return core.OK(name), nil
		})
}

func TestDispatcher_ResultsInRequestOrder(t *testing.T) {
	r := NewToolRegistry()
	const n = 5
	calls := make([]core.ToolCall, 0, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("tool_%d", i)
		// Earlier requests finish last.
		require.NoError(t, r.Register(slowEcho(name, time.Duration(n-i)*20*time.Millisecond)))
		calls = append(calls, core.ToolCall{
			ID:    fmt.Sprintf("call_%d", i),
			Name:  name,
			Input: json.RawMessage(`{}`),
		})
	}

	d := NewDispatcher(r)
	results := d.Dispatch(context.Background(), "s1", calls)

	require.Len(t, results, n)
	for i, res := range results {
		assert.Equal(t, fmt.Sprintf("call_%d", i), res.ToolCallID)
		assert.Equal(t, fmt.Sprintf("tool_%d", i), res.ToolName)
		assert.False(t, res.IsError)
	}
}

func TestDispatcher_UnknownTool(t *testing.T) {
	d := NewDispatcher(NewToolRegistry())

	results := d.Dispatch(context.Background(), "s1", []core.ToolCall{
		{ID: "c1", Name: "hallucinated_tool", Input: json.RawMessage(`{}`)},
	})

	require.Len(t, results, 1)
	assert.True(t, results[0].IsError)
	assert.Contains(t, results[0].Text, "unknown tool")
	assert.Equal(t, "c1", results[0].ToolCallID)
}

func TestDispatcher_ValidationFailure(t *testing.T) {
	r := NewToolRegistry()
	executed := false
	tool := tools.New("strict").
		Description("requires a name").
		Schema(tools.ObjectSchema(map[string]interface{}{
			"name": tools.StringProperty("who"),
		}, "name")).
		Handler(func(ctx context.Context, p *core.ToolParams) (*core.ToolResult, error) {
			executed = true
			return core.OK("ran"), nil
		})
	require.NoError(t, r.Register(tool))

	d := NewDispatcher(r)
	results := d.Dispatch(context.Background(), "s1", []core.ToolCall{
		{ID: "c1", Name: "strict", Input: json.RawMessage(`{}`)},
	})

	require.Len(t, results, 1)
	assert.True(t, results[0].IsError)
	assert.Contains(t, results[0].Text, "name")
	assert.False(t, executed, "invalid arguments must not reach the executor")
}

func TestDispatcher_FailureDoesNotAbortBatch(t *testing.T) {
	r := NewToolRegistry()
	require.NoError(t, r.Register(tools.New("fails").
		Description("always fails").
		Schema(tools.ObjectSchema(map[string]interface{}{})).
		Handler(func(ctx context.Context, p *core.ToolParams) (*core.ToolResult, error) {
			return nil, fmt.Errorf("backend unreachable")
		})))
	require.NoError(t, r.Register(slowEcho("works", 0)))

	d := NewDispatcher(r)
	results := d.Dispatch(context.Background(), "s1", []core.ToolCall{
		{ID: "c1", Name: "fails", Input: json.RawMessage(`{}`)},
		{ID: "c2", Name: "works", Input: json.RawMessage(`{}`)},
	})

	require.Len(t, results, 2)
	assert.True(t, results[0].IsError)
	assert.Contains(t, results[0].Text, "backend unreachable")
	assert.False(t, results[1].IsError)
}

func TestDispatcher_ExecutorPanicRecovered(t *testing.T) {
	r := NewToolRegistry()
	require.NoError(t, r.Register(tools.New("panics").
		Description("panics").
		Schema(tools.ObjectSchema(map[string]interface{}{})).
		Handler(func(ctx context.Context, p *core.ToolParams) (*core.ToolResult, error) {
			panic("boom")
		})))

	d := NewDispatcher(r)
	results := d.Dispatch(context.Background(), "s1", []core.ToolCall{
		{ID: "c1", Name: "panics", Input: json.RawMessage(`{}`)},
	})

	require.Len(t, results, 1)
	assert.True(t, results[0].IsError)
	assert.Contains(t, results[0].Text, "panic")
}

func TestDispatcher_MaxParallel(t *testing.T) {
	r := NewToolRegistry()
	require.NoError(t, r.Register(slowEcho("slow", 10*time.Millisecond)))

	calls := make([]core.ToolCall, 4)
	for i := range calls {
		calls[i] = core.ToolCall{ID: fmt.Sprintf("c%d", i), Name: "slow", Input: json.RawMessage(`{}`)}
	}

	d := NewDispatcher(r, WithMaxParallel(1))
	start := time.Now()
	results := d.Dispatch(context.Background(), "s1", calls)

	require.Len(t, results, 4)
	// Serial execution of four 10ms calls cannot finish in under 40ms.
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}
