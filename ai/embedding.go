package ai

import "context"

// EmbeddingService converts free text into a fixed-length vector at query
// time. Implementations must be safe for concurrent use; the retriever takes
// this interface so tests can substitute a deterministic double.
type EmbeddingService interface {
	// Embed returns one embedding vector for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)
	// IsEnabled reports whether the provider is configured at all.
	IsEnabled() bool
}
