package memory

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// DefaultTopK is the number of records a semantic search returns when no
// explicit K is configured.
const DefaultTopK = 5

// SemanticStore is the long-term semantic tier: records stored with an
// embedding and retrieved by vector similarity.
type SemanticStore struct {
	store    VectorStore
	embedder Embedder
	topK     int
}

// SemanticOption configures a SemanticStore.
type SemanticOption func(*SemanticStore)

// WithTopK sets how many records a search returns.
func WithTopK(k int) SemanticOption {
	return func(s *SemanticStore) {
		s.topK = k
	}
}

// NewSemanticStore wires a vector store to an embedder. The embedder's
// dimensionality must be fixed; a store populated with vectors of a
// different size is a configuration fault, checked here once rather than
// on every write.
func NewSemanticStore(store VectorStore, embedder Embedder, opts ...SemanticOption) (*SemanticStore, error) {
	if embedder.Dimensions() <= 0 {
		return nil, fmt.Errorf("embedder reports invalid dimensionality %d", embedder.Dimensions())
	}

	s := &SemanticStore{
		store:    store,
		embedder: embedder,
		topK:     DefaultTopK,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.topK <= 0 {
		return nil, fmt.Errorf("top-K must be positive, got %d", s.topK)
	}
	return s, nil
}

// Write embeds content and inserts it as a new record. The two external
// calls are sequential with no atomicity between them: if the insert fails
// after the embedding succeeded, the embedding is discarded and the
// failure is reported to the caller.
func (s *SemanticStore) Write(ctx context.Context, content string) error {
	embedding, err := s.embedder.Embed(ctx, content)
	if err != nil {
		return fmt.Errorf("embed content: %w", err)
	}
	if len(embedding) != s.embedder.Dimensions() {
		return fmt.Errorf("embedder returned %d dimensions, expected %d",
			len(embedding), s.embedder.Dimensions())
	}

	rec := &Record{
		ID:        uuid.New().String(),
		Content:   content,
		Embedding: embedding,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Insert(ctx, rec); err != nil {
		return fmt.Errorf("insert record: %w", err)
	}

	log.Printf("[MEMORY] Stored semantic record %s (%d chars)", rec.ID, len(content))
	return nil
}

// Search embeds the query and returns the top-K most similar records'
// content in similarity-descending order.
func (s *SemanticStore) Search(ctx context.Context, query string) ([]string, error) {
	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := s.store.QuerySimilar(ctx, embedding, s.topK)
	if err != nil {
		return nil, fmt.Errorf("similarity query: %w", err)
	}

	log.Printf("[MEMORY] Semantic search returned %d of up to %d records", len(results), s.topK)

	contents := make([]string, 0, len(results))
	for _, r := range results {
		contents = append(contents, r.Content)
	}
	return contents, nil
}

// Close releases the underlying vector store.
func (s *SemanticStore) Close() error {
	return s.store.Close()
}
