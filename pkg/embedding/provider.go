package embedding

import "context"

// Dimensions is fixed by the embedding model (text-embedding-3-large).
// The chunks table declares vector(3072) to match.
const Dimensions = 3072

// Provider defines the interface for generating text embeddings
type Provider interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}
