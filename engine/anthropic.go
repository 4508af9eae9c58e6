package engine

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/mementolabs/memento-go-sdk/core"
	"github.com/mementolabs/memento-go-sdk/tools"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-sonnet-4-20250514"

// DefaultMaxTokens caps response length when unconfigured.
const DefaultMaxTokens = 4096

// AnthropicConfig configures the Anthropic-backed ModelClient.
type AnthropicConfig struct {
	// APIKey authenticates against the Anthropic API.
	APIKey string

	// Model selects the Claude model. Defaults to DefaultModel.
	Model string

	// MaxTokens caps response tokens. Defaults to DefaultMaxTokens.
	MaxTokens int64
}

// AnthropicModel adapts the Anthropic Messages API to ModelClient.
type AnthropicModel struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewAnthropicModel creates an Anthropic-backed model client.
func NewAnthropicModel(cfg AnthropicConfig) (*AnthropicModel, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("APIKey is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	return &AnthropicModel{
		client:    anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}, nil
}

// Decide sends the transcript and returns the model's text and requested
// tool calls.
func (m *AnthropicModel) Decide(ctx context.Context, req *DecisionRequest) (*Decision, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(m.model),
		MaxTokens: m.maxTokens,
		Messages:  toAPIMessages(req.Messages),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if len(req.Tools) > 0 {
		params.Tools = toAPITools(req.Tools)
	}

	resp, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic messages: %w", err)
	}

	decision := &Decision{}
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			decision.Text += block.Text
		case "tool_use":
			decision.ToolCalls = append(decision.ToolCalls, core.ToolCall{
				ID:    block.ID,
				Name:  block.Name,
				Input: block.Input,
			})
		}
	}
	return decision, nil
}

// toAPIMessages converts the transcript to Anthropic message params.
// Consecutive tool result messages collapse into one user message, the
// shape the Messages API requires after an assistant tool_use turn.
func toAPIMessages(messages []core.Message) []anthropic.MessageParam {
	var out []anthropic.MessageParam

	var pendingResults []anthropic.ContentBlockParamUnion
	flushResults := func() {
		if len(pendingResults) > 0 {
			out = append(out, anthropic.NewUserMessage(pendingResults...))
			pendingResults = nil
		}
	}

	for _, msg := range messages {
		switch msg.Role {
		case core.RoleUser:
			flushResults()
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Text)))

		case core.RoleAssistant:
			flushResults()
			var blocks []anthropic.ContentBlockParamUnion
			if msg.Text != "" {
				blocks = append(blocks, anthropic.NewTextBlock(msg.Text))
			}
			for _, call := range msg.ToolCalls {
				blocks = append(blocks, anthropic.ContentBlockParamUnion{
					OfToolUse: &anthropic.ToolUseBlockParam{
						ID:    call.ID,
						Name:  call.Name,
						Input: call.Input,
					},
				})
			}
			out = append(out, anthropic.NewAssistantMessage(blocks...))

		case core.RoleTool:
			pendingResults = append(pendingResults,
				anthropic.NewToolResultBlock(msg.ToolCallID, msg.Text, msg.IsError))
		}
	}
	flushResults()
	return out
}

// toAPITools converts tool definitions to the Anthropic wire shape,
// preserving registry order.
func toAPITools(defs []core.ToolDefinition) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(defs))
	for _, def := range defs {
		schema := anthropic.ToolInputSchemaParam{}
		if def.InputSchema != nil {
			schema.Properties = def.InputSchema["properties"]
			// JSON-loaded definitions carry []interface{} here.
			schema.Required = tools.StringSlice(def.InputSchema["required"])
		}
		out = append(out, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        def.ToolName,
				Description: anthropic.String(def.ToolDescription),
				InputSchema: schema,
			},
		})
	}
	return out
}

var _ ModelClient = (*AnthropicModel)(nil)
