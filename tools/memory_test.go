package tools

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mementolabs/memento-go-sdk/core"
	"github.com/mementolabs/memento-go-sdk/memory"
	"github.com/mementolabs/memento-go-sdk/memory/embedder/mock"
	"github.com/mementolabs/memento-go-sdk/memory/store/chromem"
)

func newTestTiers(t *testing.T) *memory.Tiers {
	t.Helper()
	store, err := chromem.New()
	require.NoError(t, err)
	semantic, err := memory.NewSemanticStore(store, mock.New())
	require.NoError(t, err)
	return &memory.Tiers{
		Notes:    memory.NewNoteStore(),
		File:     memory.NewFileStore(filepath.Join(t.TempDir(), "journal.txt")),
		Semantic: semantic,
	}
}

func execute(t *testing.T, tool core.Tool, input string) *core.ToolResult {
	t.Helper()
	result, err := tool.Execute(context.Background(), &core.ToolParams{
		SessionID: "s1",
		CallID:    "c1",
		Input:     json.RawMessage(input),
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func toolByName(t *testing.T, list []core.Tool, name string) core.Tool {
	t.Helper()
	for _, tool := range list {
		if tool.Name() == name {
			return tool
		}
	}
	t.Fatalf("tool %q not found", name)
	return nil
}

func TestMemoryTools_Definitions(t *testing.T) {
	defs := MemoryToolDefinitions()
	require.Len(t, defs, 4)

	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, d.ToolName)
		assert.NotEmpty(t, d.ToolDescription)
		assert.NotNil(t, d.InputSchema)
	}
	assert.Equal(t, []string{"note_to_memory", "journal_append", "remember", "recall"}, names)
}

func TestMemoryTools_NoteToMemory(t *testing.T) {
	tiers := newTestTiers(t)
	list := MemoryTools(tiers)

	result := execute(t, toolByName(t, list, "note_to_memory"),
		`{"note": "user prefers aisle seats"}`)
	assert.True(t, result.Success)

	assert.Equal(t, []string{"user prefers aisle seats"}, tiers.Notes.All())
}

func TestMemoryTools_JournalAppend(t *testing.T) {
	tiers := newTestTiers(t)
	list := MemoryTools(tiers)

	result := execute(t, toolByName(t, list, "journal_append"),
		`{"entry": "started learning Portuguese"}`)
	assert.True(t, result.Success)

	content, err := tiers.File.Read()
	require.NoError(t, err)
	assert.Equal(t, "started learning Portuguese\n", content)
}

func TestMemoryTools_RememberThenRecall(t *testing.T) {
	tiers := newTestTiers(t)
	list := MemoryTools(tiers)

	result := execute(t, toolByName(t, list, "remember"),
		`{"content": "the wifi password is hunter2"}`)
	assert.True(t, result.Success)

	result = execute(t, toolByName(t, list, "recall"),
		`{"query": "the wifi password is hunter2"}`)
	assert.True(t, result.Success)
	assert.Contains(t, result.Data, "hunter2")
}

func TestMemoryTools_RecallEmptyStore(t *testing.T) {
	tiers := newTestTiers(t)
	list := MemoryTools(tiers)

	result := execute(t, toolByName(t, list, "recall"), `{"query": "anything"}`)
	assert.True(t, result.Success)
	assert.Equal(t, "No related memories found.", result.Data)
}

func TestMemoryTools_UnconfiguredTierFails(t *testing.T) {
	tiers := &memory.Tiers{Notes: memory.NewNoteStore()}
	list := MemoryTools(tiers)

	result := execute(t, toolByName(t, list, "journal_append"), `{"entry": "x"}`)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "not configured")
}
