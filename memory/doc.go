// Package memory provides the tiered memory system for conversational agents.
//
// Three tiers of different durability and retrieval semantics:
//   - Notes: in-process ordered note list, discarded with the loop instance
//   - File: append-only flat text file, shared across process invocations
//   - Semantic: vector-indexed records retrieved by similarity search
//
// Architecture:
//   - Tiers: uniform read/write adapter over the three backends
//   - VectorStore: storage backend for the semantic tier (chromem-go for
//     local use, swappable for a hosted store in production)
//   - Embedder: text-to-vector conversion (mock for tests, OpenAI or a
//     local ONNX model for real semantic search)
//
// The conversation loop reads the notes and file tiers when rendering the
// system context for a turn. The semantic tier is never auto-injected;
// recall happens only through an explicit tool call chosen by the model.
//
// No tier deletes or edits. Everything is append-only, which keeps the
// consistency story simple at the cost of unbounded growth; optional
// retention caps are available but off by default.
package memory
