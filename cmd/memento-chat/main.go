// memento-chat is a console chat client for the memory agent: a REPL over
// the conversation loop with all three memory tiers wired in.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mementolabs/memento-go-sdk/engine"
	"github.com/mementolabs/memento-go-sdk/memory"
	"github.com/mementolabs/memento-go-sdk/memory/embedder/cached"
	"github.com/mementolabs/memento-go-sdk/memory/embedder/mock"
	"github.com/mementolabs/memento-go-sdk/memory/embedder/openai"
	"github.com/mementolabs/memento-go-sdk/memory/store/chromem"
	"github.com/mementolabs/memento-go-sdk/tools"
)

var rootCmd = &cobra.Command{
	Use:   "memento-chat",
	Short: "Chat with a memory-capable agent in the terminal",
	Long: `memento-chat runs a conversational agent with three memory tiers:
session notes (in-process), a journal file (append-only, cross-session),
and semantic memory (vector search over stored facts).

Type "exit" to quit.

Configuration comes from flags, MEMENTO_* environment variables, or a .env
file. ANTHROPIC_API_KEY is required; OPENAI_API_KEY enables real semantic
embeddings (a deterministic offline embedder is used otherwise).`,
	RunE: runChat,
}

func init() {
	flags := rootCmd.Flags()
	flags.String("model", engine.DefaultModel, "Claude model to use")
	flags.String("journal", "memento-journal.txt", "path of the journal file tier")
	flags.String("store-dir", "", "directory for persistent semantic records (in-memory when empty)")
	flags.Int("top-k", memory.DefaultTopK, "how many records a semantic recall returns")
	flags.Int("max-parallel", 0, "cap on concurrent tool calls per turn (0 = no cap)")
	flags.String("exit-word", engine.DefaultExitWord, "word that ends the chat")
	flags.String("embedder", "", "embedder to use: openai or mock (auto-detected when empty)")

	_ = viper.BindPFlags(flags)
	viper.SetEnvPrefix("MEMENTO")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runChat(cmd *cobra.Command, args []string) error {
	anthropicKey := os.Getenv("ANTHROPIC_API_KEY")
	if anthropicKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY environment variable is required")
	}

	model, err := engine.NewAnthropicModel(engine.AnthropicConfig{
		APIKey: anthropicKey,
		Model:  viper.GetString("model"),
	})
	if err != nil {
		return err
	}

	embedder, err := buildEmbedder()
	if err != nil {
		return err
	}

	var store memory.VectorStore
	if dir := viper.GetString("store-dir"); dir != "" {
		store, err = chromem.NewPersistent(dir)
	} else {
		store, err = chromem.New()
	}
	if err != nil {
		return err
	}

	semantic, err := memory.NewSemanticStore(store, embedder,
		memory.WithTopK(viper.GetInt("top-k")))
	if err != nil {
		return err
	}
	defer semantic.Close()

	tiers := &memory.Tiers{
		Notes:    memory.NewNoteStore(),
		File:     memory.NewFileStore(viper.GetString("journal")),
		Semantic: semantic,
	}

	registry := engine.NewToolRegistry()
	if err := registry.RegisterAll(tools.MemoryTools(tiers)...); err != nil {
		return err
	}

	opts := []engine.Option{
		engine.WithMemory(tiers),
		engine.WithExitWord(viper.GetString("exit-word")),
	}
	if n := viper.GetInt("max-parallel"); n > 0 {
		opts = append(opts, engine.WithDispatcher(
			engine.NewDispatcher(registry, engine.WithMaxParallel(n))))
	}
	eng := engine.New(model, registry, opts...)

	fmt.Printf("memento-chat ready (journal: %s). Type %q to quit.\n",
		tiers.File.Path(), viper.GetString("exit-word"))

	return eng.Chat(context.Background(), os.Stdin, os.Stdout)
}

// buildEmbedder picks the embedder: the flag wins, otherwise OpenAI when a
// key is present, otherwise the deterministic offline embedder.
func buildEmbedder() (memory.Embedder, error) {
	choice := viper.GetString("embedder")
	openaiKey := os.Getenv("OPENAI_API_KEY")
	if choice == "" {
		if openaiKey != "" {
			choice = "openai"
		} else {
			choice = "mock"
		}
	}

	switch choice {
	case "openai":
		inner, err := openai.New(openai.Config{APIKey: openaiKey})
		if err != nil {
			return nil, err
		}
		// Cache repeated embeddings; note-then-recall hits the same text.
		return cached.New(inner, 4096)
	case "mock":
		log.Println("[CHAT] using offline embedder; semantic recall matches exact text only")
		return mock.New(), nil
	default:
		return nil, fmt.Errorf("unknown embedder %q (want openai or mock)", choice)
	}
}
