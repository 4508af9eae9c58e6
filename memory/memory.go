package memory

import (
	"context"
	"fmt"
	"time"
)

// Tier names one of the three memory backends.
type Tier string

const (
	// TierNotes is the short-term in-process note list.
	TierNotes Tier = "notes"

	// TierFile is the long-term append-only text file.
	TierFile Tier = "file"

	// TierSemantic is the long-term vector-indexed record store.
	TierSemantic Tier = "semantic"
)

// Record is one stored semantic memory. Records are append-only: there is
// no update or delete path, and retrieval is by similarity, never by ID.
type Record struct {
	ID        string
	Content   string
	Embedding []float32
	CreatedAt time.Time
}

// SearchResult is one similarity query hit.
type SearchResult struct {
	Content string
	Score   float32
}

// VectorStore is the storage backend for the semantic tier.
// Implementations: chromem (embedded, local), or a hosted vector database.
type VectorStore interface {
	// Insert stores a record. The record must carry its embedding.
	Insert(ctx context.Context, rec *Record) error

	// QuerySimilar returns up to k results ordered by similarity,
	// highest score first.
	QuerySimilar(ctx context.Context, embedding []float32, k int) ([]SearchResult, error)

	// Close releases resources.
	Close() error
}

// Embedder converts text to a fixed-length vector. All vectors stored in
// and queried against a given store instance must share one dimensionality;
// NewSemanticStore checks this once at construction.
type Embedder interface {
	// Embed converts a single text to its embedding vector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int
}

// Tiers is the uniform adapter over the three memory backends. The
// conversation loop holds one Tiers value per session; tool executors write
// through it, and context rendering reads through it.
type Tiers struct {
	Notes    *NoteStore
	File     *FileStore
	Semantic *SemanticStore
}

// Write appends content to the named tier. Writing to a tier that was not
// configured is an error, not a silent drop.
func (t *Tiers) Write(ctx context.Context, tier Tier, content string) error {
	switch tier {
	case TierNotes:
		if t.Notes == nil {
			return fmt.Errorf("notes tier not configured")
		}
		return t.Notes.Append(content)
	case TierFile:
		if t.File == nil {
			return fmt.Errorf("file tier not configured")
		}
		return t.File.Append(content)
	case TierSemantic:
		if t.Semantic == nil {
			return fmt.Errorf("semantic tier not configured")
		}
		return t.Semantic.Write(ctx, content)
	default:
		return fmt.Errorf("unknown memory tier: %s", tier)
	}
}

// Read returns the tier's current content as an ordered sequence of texts.
// The query argument is used only by the semantic tier; the other tiers
// return their full content and ignore it.
func (t *Tiers) Read(ctx context.Context, tier Tier, query string) ([]string, error) {
	switch tier {
	case TierNotes:
		if t.Notes == nil {
			return nil, fmt.Errorf("notes tier not configured")
		}
		return t.Notes.All(), nil
	case TierFile:
		if t.File == nil {
			return nil, fmt.Errorf("file tier not configured")
		}
		content, err := t.File.Read()
		if err != nil {
			return nil, err
		}
		if content == "" {
			return nil, nil
		}
		return []string{content}, nil
	case TierSemantic:
		if t.Semantic == nil {
			return nil, fmt.Errorf("semantic tier not configured")
		}
		return t.Semantic.Search(ctx, query)
	default:
		return nil, fmt.Errorf("unknown memory tier: %s", tier)
	}
}

// RenderContext renders the notes and file tiers into the system context
// block for the next model request. The semantic tier is deliberately
// absent: recall is an explicit tool call, not ambient context.
func (t *Tiers) RenderContext(ctx context.Context) (string, error) {
	var b []byte

	b = append(b, "SHORT-TERM MEMORY (this session):\n"...)
	var notes []string
	if t.Notes != nil {
		notes = t.Notes.All()
	}
	if len(notes) == 0 {
		b = append(b, "(empty)\n"...)
	}
	for _, note := range notes {
		b = append(b, "- "...)
		b = append(b, note...)
		b = append(b, '\n')
	}

	b = append(b, "\nLONG-TERM FILE MEMORY:\n"...)
	var fileContent string
	if t.File != nil {
		var err error
		fileContent, err = t.File.Read()
		if err != nil {
			return "", err
		}
	}
	if fileContent == "" {
		b = append(b, "(empty)\n"...)
	} else {
		b = append(b, fileContent...)
		if fileContent[len(fileContent)-1] != '\n' {
			b = append(b, '\n')
		}
	}

	return string(b), nil
}
