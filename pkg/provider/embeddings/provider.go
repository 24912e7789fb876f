// Package embeddings defines the Provider interface for text embedding
// backends used by the vector store's ingestion and query paths.
package embeddings

import "context"

// Provider is the abstraction over any text embedding backend.
//
// Implementations must be safe for concurrent use.
type Provider interface {
	// Embed converts a single text into its vector representation.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch converts multiple texts in one request where the backend
	// supports it. The result preserves input order and length.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the vector length this provider produces.
	Dimensions() int

	// ModelID returns the backend model identifier, used in logs and for
	// collection compatibility checks.
	ModelID() string
}
