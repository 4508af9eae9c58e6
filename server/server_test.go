package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mementolabs/memento-go-sdk/core"
	"github.com/mementolabs/memento-go-sdk/engine"
	"github.com/mementolabs/memento-go-sdk/tools"
)

// echoModel answers every decision request with a fixed transform of the
// last user message.
type echoModel struct{}

func (echoModel) Decide(ctx context.Context, req *engine.DecisionRequest) (*engine.Decision, error) {
	last := req.Messages[len(req.Messages)-1]
	return &engine.Decision{Text: "echo: " + last.Text}, nil
}

// failingModel always fails, simulating an unreachable model API.
type failingModel struct{}

func (failingModel) Decide(ctx context.Context, req *engine.DecisionRequest) (*engine.Decision, error) {
	return nil, fmt.Errorf("model unreachable")
}

// toolOnceModel requests one greet call on its first request, then answers
// with the tool's output.
type toolOnceModel struct {
	calls atomic.Int32
}

func (m *toolOnceModel) Decide(ctx context.Context, req *engine.DecisionRequest) (*engine.Decision, error) {
	if m.calls.Add(1) == 1 {
		return &engine.Decision{
			ToolCalls: []core.ToolCall{{
				ID:    "call_1",
				Name:  "greet",
				Input: json.RawMessage(`{"name": "alice"}`),
			}},
		}, nil
	}
	last := req.Messages[len(req.Messages)-1]
	return &engine.Decision{Text: last.Text}, nil
}

func dial(t *testing.T, srv *Server) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestServer_RequiresModel(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestServer_Health(t *testing.T) {
	srv, err := New(Config{Model: echoModel{}})
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)
}

func TestServer_ChatRoundTrip(t *testing.T) {
	srv, err := New(Config{Model: echoModel{}})
	require.NoError(t, err)

	conn := dial(t, srv)

	require.NoError(t, conn.WriteJSON(frame{Type: "user", Text: "hello"}))

	var out frame
	require.NoError(t, conn.ReadJSON(&out))
	assert.Equal(t, "assistant", out.Type)
	assert.Equal(t, "echo: hello", out.Text)
}

func TestServer_DomainToolDispatch(t *testing.T) {
	srv, err := New(Config{Model: &toolOnceModel{}})
	require.NoError(t, err)

	srv.AddTool(tools.New("greet").
		Description("greet someone by name").
		Schema(tools.ObjectSchema(map[string]interface{}{
			"name": tools.StringProperty("who to greet"),
		}, "name")).
		Handler(func(ctx context.Context, p *core.ToolParams) (*core.ToolResult, error) {
			var args struct {
				Name string `json:"name"`
			}
			if err := json.Unmarshal(p.Input, &args); err != nil {
				return core.Fail(err.Error()), nil
			}
			return core.OK("hello, " + args.Name), nil
		}))

	conn := dial(t, srv)

	require.NoError(t, conn.WriteJSON(frame{Type: "user", Text: "greet alice"}))

	var out frame
	require.NoError(t, conn.ReadJSON(&out))
	assert.Equal(t, "assistant", out.Type)
	// The final decision echoes the tool result back.
	assert.Equal(t, "hello, alice", out.Text)
}

func TestServer_TurnErrorKeepsConnection(t *testing.T) {
	srv, err := New(Config{Model: failingModel{}})
	require.NoError(t, err)

	conn := dial(t, srv)

	require.NoError(t, conn.WriteJSON(frame{Type: "user", Text: "hello"}))

	var out frame
	require.NoError(t, conn.ReadJSON(&out))
	assert.Equal(t, "error", out.Type)
	assert.Contains(t, out.Text, "model unreachable")

	// The connection survives; a second message still gets a reply.
	require.NoError(t, conn.WriteJSON(frame{Type: "user", Text: "again"}))
	require.NoError(t, conn.ReadJSON(&out))
	assert.Equal(t, "error", out.Type)
}

func TestServer_IgnoresNonUserFrames(t *testing.T) {
	srv, err := New(Config{Model: echoModel{}})
	require.NoError(t, err)

	conn := dial(t, srv)

	require.NoError(t, conn.WriteJSON(frame{Type: "ping", Text: "x"}))
	require.NoError(t, conn.WriteJSON(frame{Type: "user", Text: ""}))
	require.NoError(t, conn.WriteJSON(frame{Type: "user", Text: "real"}))

	var out frame
	require.NoError(t, conn.ReadJSON(&out))
	assert.Equal(t, "echo: real", out.Text)
}
