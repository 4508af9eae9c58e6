package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mementolabs/memento-go-sdk/core"
	"github.com/mementolabs/memento-go-sdk/memory"
)

// MemoryToolDefinitions returns the definitions for the built-in memory
// tools. These are the standard tools every memory-capable agent carries.
func MemoryToolDefinitions() []core.ToolDefinition {
	return []core.ToolDefinition{
		{
			ToolName:        "note_to_memory",
			ToolDescription: "Save a short note to this session's short-term memory. Notes appear in your context for the rest of the session and are discarded when it ends. Use for facts that matter right now, like 'flight is AA100'.",
			InputSchema: ObjectSchema(map[string]interface{}{
				"note": StringProperty("The note to remember for this session"),
			}, "note"),
		},
		{
			ToolName:        "journal_append",
			ToolDescription: "Append an entry to the user's long-term journal file. The journal persists across sessions and its full content appears in your context every turn. Use for durable facts the user wants kept.",
			InputSchema: ObjectSchema(map[string]interface{}{
				"entry": StringProperty("The journal entry to append"),
			}, "entry"),
		},
		{
			ToolName:        "remember",
			ToolDescription: "Store a piece of information in long-term semantic memory. Stored items are found later by meaning, not exact wording. Use for facts worth recalling in future conversations.",
			InputSchema: ObjectSchema(map[string]interface{}{
				"content": StringProperty("The information to store"),
			}, "content"),
		},
		{
			ToolName:        "recall",
			ToolDescription: "Search long-term semantic memory for information related to a query. Returns the most similar stored items. Use when the user refers to something from a past conversation.",
			InputSchema: ObjectSchema(map[string]interface{}{
				"query": StringProperty("What to search memory for"),
			}, "query"),
		},
	}
}

// MemoryTools builds the built-in memory tools bound to the given tiers.
func MemoryTools(tiers *memory.Tiers) []core.Tool {
	defs := MemoryToolDefinitions()

	handlers := map[string]Handler{
		"note_to_memory": func(ctx context.Context, p *core.ToolParams) (*core.ToolResult, error) {
			var args struct {
				Note string `json:"note"`
			}
			if err := json.Unmarshal(p.Input, &args); err != nil {
				return core.Fail(fmt.Sprintf("invalid input: %v", err)), nil
			}
			if err := tiers.Write(ctx, memory.TierNotes, args.Note); err != nil {
				return core.Fail(err.Error()), nil
			}
			return core.OK("Note added to short-term memory."), nil
		},

		"journal_append": func(ctx context.Context, p *core.ToolParams) (*core.ToolResult, error) {
			var args struct {
				Entry string `json:"entry"`
			}
			if err := json.Unmarshal(p.Input, &args); err != nil {
				return core.Fail(fmt.Sprintf("invalid input: %v", err)), nil
			}
			if err := tiers.Write(ctx, memory.TierFile, args.Entry); err != nil {
				return core.Fail(err.Error()), nil
			}
			return core.OK("Entry appended to the journal."), nil
		},

		"remember": func(ctx context.Context, p *core.ToolParams) (*core.ToolResult, error) {
			var args struct {
				Content string `json:"content"`
			}
			if err := json.Unmarshal(p.Input, &args); err != nil {
				return core.Fail(fmt.Sprintf("invalid input: %v", err)), nil
			}
			if err := tiers.Write(ctx, memory.TierSemantic, args.Content); err != nil {
				return core.Fail(err.Error()), nil
			}
			return core.OK("Stored in long-term memory."), nil
		},

		"recall": func(ctx context.Context, p *core.ToolParams) (*core.ToolResult, error) {
			var args struct {
				Query string `json:"query"`
			}
			if err := json.Unmarshal(p.Input, &args); err != nil {
				return core.Fail(fmt.Sprintf("invalid input: %v", err)), nil
			}
			hits, err := tiers.Read(ctx, memory.TierSemantic, args.Query)
			if err != nil {
				return core.Fail(err.Error()), nil
			}
			if len(hits) == 0 {
				return core.OK("No related memories found."), nil
			}
			return core.OK(strings.Join(hits, "\n")), nil
		},
	}

	out := make([]core.Tool, 0, len(defs))
	for _, def := range defs {
		out = append(out, FromDefinition(def, handlers[def.ToolName]))
	}
	return out
}
