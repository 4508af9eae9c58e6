// Package chromem adapts chromem-go, a pure Go embedded vector database,
// to the memory.VectorStore interface.
package chromem

import (
	"context"
	"fmt"
	"strings"
	"time"

	chromem "github.com/philippgille/chromem-go"

	"github.com/mementolabs/memento-go-sdk/memory"
)

const collectionName = "memories"

// Store is a chromem-go backed vector store. Records live in process
// memory; use NewPersistent to keep them on disk across restarts.
type Store struct {
	db  *chromem.DB
	col *chromem.Collection
}

// New creates an in-memory chromem store.
func New() (*Store, error) {
	return wrap(chromem.NewDB())
}

// NewPersistent creates a chromem store that persists records under dir.
func NewPersistent(dir string) (*Store, error) {
	db, err := chromem.NewPersistentDB(dir, false)
	if err != nil {
		return nil, fmt.Errorf("open persistent store: %w", err)
	}
	return wrap(db)
}

func wrap(db *chromem.DB) (*Store, error) {
	// nil embedding func: the semantic tier supplies vectors itself.
	col, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return &Store{db: db, col: col}, nil
}

// Insert stores a record with its embedding.
func (s *Store) Insert(ctx context.Context, rec *memory.Record) error {
	if len(rec.Embedding) == 0 {
		return fmt.Errorf("record %s has no embedding", rec.ID)
	}

	doc := chromem.Document{
		ID:        rec.ID,
		Content:   rec.Content,
		Embedding: rec.Embedding,
		Metadata: map[string]string{
			"created_at": rec.CreatedAt.Format(time.RFC3339),
		},
	}
	if err := s.col.AddDocument(ctx, doc); err != nil {
		return fmt.Errorf("add document: %w", err)
	}
	return nil
}

// QuerySimilar returns up to k results ordered by cosine similarity,
// highest first.
func (s *Store) QuerySimilar(ctx context.Context, embedding []float32, k int) ([]memory.SearchResult, error) {
	// chromem rejects nResults larger than the collection; clamp first
	// and walk down in case of a concurrent count mismatch.
	if count := s.col.Count(); k > count {
		k = count
	}
	if k == 0 {
		return nil, nil
	}

	var results []chromem.Result
	for n := k; n >= 1; n-- {
		var err error
		results, err = s.col.QueryEmbedding(ctx, embedding, n, nil, nil)
		if err == nil {
			break
		}
		if !isTooFewDocsError(err) {
			return nil, fmt.Errorf("chromem query: %w", err)
		}
		if n == 1 {
			return nil, nil
		}
	}

	out := make([]memory.SearchResult, 0, len(results))
	for _, r := range results {
		out = append(out, memory.SearchResult{
			Content: r.Content,
			Score:   r.Similarity,
		})
	}
	return out, nil
}

// Close releases resources. chromem keeps everything in memory or flushes
// on write, so there is nothing to tear down.
func (s *Store) Close() error {
	return nil
}

func isTooFewDocsError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "nResults must be") ||
		strings.Contains(msg, "number of documents")
}

var _ memory.VectorStore = (*Store)(nil)
