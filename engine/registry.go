package engine

import (
	"github.com/mementolabs/memento-go-sdk/core"
)

// ToolRegistry is the process-wide catalog of callable tools. It is filled
// during startup and read-only afterwards. Iteration order is registration
// order, stable across calls: some models' tool selection is sensitive to
// advertisement order, so it must never depend on map iteration.
type ToolRegistry struct {
	byName  map[string]core.Tool
	ordered []core.Tool
}

// NewToolRegistry creates an empty registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{byName: make(map[string]core.Tool)}
}

// Register adds a tool. Registering a name twice is a configuration fault
// and returns a DuplicateToolError.
func (r *ToolRegistry) Register(tool core.Tool) error {
	name := tool.Name()
	if _, exists := r.byName[name]; exists {
		return &core.DuplicateToolError{Tool: name}
	}
	r.byName[name] = tool
	r.ordered = append(r.ordered, tool)
	return nil
}

// RegisterAll registers every tool, stopping at the first duplicate.
func (r *ToolRegistry) RegisterAll(tools ...core.Tool) error {
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			return err
		}
	}
	return nil
}

// Get looks up a tool by name.
func (r *ToolRegistry) Get(name string) (core.Tool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// All returns the tools in registration order.
func (r *ToolRegistry) All() []core.Tool {
	out := make([]core.Tool, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Definitions returns the advertised metadata in registration order.
func (r *ToolRegistry) Definitions() []core.ToolDefinition {
	out := make([]core.ToolDefinition, 0, len(r.ordered))
	for _, t := range r.ordered {
		out = append(out, core.ToolDefinition{
			ToolName:        t.Name(),
			ToolDescription: t.Description(),
			InputSchema:     t.InputSchema(),
		})
	}
	return out
}

// Len returns the number of registered tools.
func (r *ToolRegistry) Len() int {
	return len(r.ordered)
}
