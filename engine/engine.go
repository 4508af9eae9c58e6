package engine

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/mementolabs/memento-go-sdk/core"
	"github.com/mementolabs/memento-go-sdk/memory"
)

// DefaultExitWord terminates an interactive chat, matched case-insensitively.
const DefaultExitWord = "exit"

// Engine drives the conversation loop: accept input, render the memory
// snapshot into system context, request a model decision, dispatch any
// requested tools, request the final response, append everything to the
// transcript, repeat.
//
// One turn is strictly sequential relative to the next: turn N+1 renders
// its context only after turn N fully completed, so every memory write a
// tool performed is visible to the following turn. The engine itself never
// writes the memory tiers; writes happen only inside tool executors.
type Engine struct {
	model      ModelClient
	registry   *ToolRegistry
	dispatcher *Dispatcher
	tiers      *memory.Tiers

	systemPrompt string
	exitWord     string
}

// Option configures the engine.
type Option func(*Engine)

// WithSystemPrompt replaces the default system prompt.
func WithSystemPrompt(p string) Option {
	return func(e *Engine) {
		e.systemPrompt = p
	}
}

// WithMemory attaches the memory tiers rendered into each turn's context.
func WithMemory(t *memory.Tiers) Option {
	return func(e *Engine) {
		e.tiers = t
	}
}

// WithExitWord changes the chat exit sentinel.
func WithExitWord(w string) Option {
	return func(e *Engine) {
		e.exitWord = w
	}
}

// WithDispatcher replaces the default dispatcher, e.g. to cap per-turn
// tool concurrency.
func WithDispatcher(d *Dispatcher) Option {
	return func(e *Engine) {
		e.dispatcher = d
	}
}

// New creates an engine over the given model client and tool registry.
func New(model ModelClient, registry *ToolRegistry, opts ...Option) *Engine {
	e := &Engine{
		model:        model,
		registry:     registry,
		systemPrompt: DefaultSystemPrompt,
		exitWord:     DefaultExitWord,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.dispatcher == nil {
		e.dispatcher = NewDispatcher(registry)
	}
	return e
}

// Registry returns the engine's tool registry.
func (e *Engine) Registry() *ToolRegistry {
	return e.registry
}

// TurnResult is what one completed turn produced.
type TurnResult struct {
	// Text is the assistant's final response.
	Text string

	// ToolResults are the result messages appended this turn, in
	// request order. Empty when the model answered directly.
	ToolResults []core.Message
}

// RunTurn processes one user input to completion: context rendering,
// decision request, tool dispatch, final response. On an external service
// failure the transcript is rolled back to its pre-turn state and the
// error is surfaced; there is nothing useful to continue from without a
// model response, and a half-appended turn would orphan tool calls.
func (e *Engine) RunTurn(ctx context.Context, session *Session, userText string) (*TurnResult, error) {
	mark := session.mark()

	// Render the memory snapshot into this turn's system context.
	sysCtx, err := e.renderSystemContext(ctx)
	if err != nil {
		return nil, &core.ExternalServiceError{Service: "memory", Err: err}
	}

	if err := session.AppendUser(userText); err != nil {
		return nil, err
	}

	// Decision request: transcript + context + advertised tools.
	decision, err := e.model.Decide(ctx, &DecisionRequest{
		System:   sysCtx,
		Messages: session.Messages(),
		Tools:    e.registry.Definitions(),
	})
	if err != nil {
		session.rollback(mark)
		return nil, &core.ExternalServiceError{Service: "model decision", Err: err}
	}

	// No tools requested: the decision text is the final answer.
	if len(decision.ToolCalls) == 0 {
		if err := session.AppendAssistant(decision.Text, nil); err != nil {
			session.rollback(mark)
			return nil, err
		}
		return &TurnResult{Text: decision.Text}, nil
	}

	if err := session.AppendAssistant(decision.Text, decision.ToolCalls); err != nil {
		session.rollback(mark)
		return nil, err
	}

	log.Printf("[ENGINE] dispatching %d tool calls", len(decision.ToolCalls))
	results := e.dispatcher.Dispatch(ctx, session.ID, decision.ToolCalls)
	if err := session.AppendToolResults(results); err != nil {
		session.rollback(mark)
		return nil, err
	}

	// Final response request: same transcript, no tool advertisements.
	final, err := e.model.Decide(ctx, &DecisionRequest{
		System:   sysCtx,
		Messages: session.Messages(),
	})
	if err != nil {
		session.rollback(mark)
		return nil, &core.ExternalServiceError{Service: "model response", Err: err}
	}
	if len(final.ToolCalls) > 0 {
		// Tools were not advertised; drop stray calls rather than
		// dispatch something the turn cannot answer.
		log.Printf("[ENGINE] ignoring %d tool calls in final response", len(final.ToolCalls))
	}

	if err := session.AppendAssistant(final.Text, nil); err != nil {
		session.rollback(mark)
		return nil, err
	}

	return &TurnResult{Text: final.Text, ToolResults: results}, nil
}

// Chat runs the interactive loop: read a line, run the turn, print the
// response, until EOF or the exit sentinel (case-insensitive, surrounding
// whitespace ignored). Each Chat call owns a fresh session.
func (e *Engine) Chat(ctx context.Context, r io.Reader, w io.Writer) error {
	session := NewSession()
	scanner := bufio.NewScanner(r)

	for {
		if _, err := fmt.Fprint(w, "you> "); err != nil {
			return err
		}
		if !scanner.Scan() {
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if strings.EqualFold(input, e.exitWord) {
			fmt.Fprintln(w, "bye")
			return nil
		}

		result, err := e.RunTurn(ctx, session, input)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "assistant> %s\n", result.Text)
	}
}

// renderSystemContext combines the base prompt with the current memory
// snapshot. The semantic tier is absent on purpose: recall is a tool call
// the model chooses, not ambient context.
func (e *Engine) renderSystemContext(ctx context.Context) (string, error) {
	if e.tiers == nil {
		return e.systemPrompt, nil
	}
	snapshot, err := e.tiers.RenderContext(ctx)
	if err != nil {
		return "", err
	}
	return e.systemPrompt + "\n\n" + snapshot, nil
}

// DefaultSystemPrompt is the default system prompt for the agent.
const DefaultSystemPrompt = `You are a helpful assistant with a tiered memory system.

MEMORY:
- Your SHORT-TERM MEMORY notes and LONG-TERM FILE MEMORY appear below and are
  already visible to you; do not call a tool to read them.
- Use note_to_memory for facts that matter for the rest of this session.
- Use journal_append for durable facts the user wants kept across sessions.
- Use remember to store information retrievable by meaning later.
- Use recall when the user refers to something from a past conversation that
  is not in your visible memory.

GUIDELINES:
- Be conversational and helpful.
- Ask clarifying questions when needed.
- Use tools when you have enough information; answer directly when you do.
- After using tools, summarize the outcome in plain language.`
