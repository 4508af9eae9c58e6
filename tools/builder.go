package tools

import (
	"context"
	"fmt"

	"github.com/mementolabs/memento-go-sdk/core"
)

// Handler is the function bound to a tool.
type Handler func(ctx context.Context, params *core.ToolParams) (*core.ToolResult, error)

// Builder assembles a tool fluently:
//
//	tools.New("get_weather").
//	    Description("Current weather for a city.").
//	    Schema(tools.ObjectSchema(...)).
//	    Handler(fn)
type Builder struct {
	def     core.ToolDefinition
	handler Handler
}

// New starts building a tool with the given name.
func New(name string) *Builder {
	return &Builder{def: core.ToolDefinition{ToolName: name}}
}

// Description sets the description advertised to the model.
func (b *Builder) Description(d string) *Builder {
	b.def.ToolDescription = d
	return b
}

// Schema sets the parameter schema.
func (b *Builder) Schema(s map[string]interface{}) *Builder {
	b.def.InputSchema = s
	return b
}

// Handler binds the executor and returns the finished tool.
func (b *Builder) Handler(h Handler) core.Tool {
	b.handler = h
	return &funcTool{def: b.def, handler: h}
}

// FromDefinition binds a handler to an existing definition.
func FromDefinition(def core.ToolDefinition, h Handler) core.Tool {
	return &funcTool{def: def, handler: h}
}

type funcTool struct {
	def     core.ToolDefinition
	handler Handler
}

func (t *funcTool) Name() string        { return t.def.ToolName }
func (t *funcTool) Description() string { return t.def.ToolDescription }

func (t *funcTool) InputSchema() map[string]interface{} {
	if t.def.InputSchema == nil {
		return ObjectSchema(map[string]interface{}{})
	}
	return t.def.InputSchema
}

func (t *funcTool) Execute(ctx context.Context, params *core.ToolParams) (*core.ToolResult, error) {
	if t.handler == nil {
		return nil, fmt.Errorf("tool %s has no handler", t.def.ToolName)
	}
	return t.handler(ctx, params)
}
