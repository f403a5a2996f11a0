package domain

import "context"

// DefaultDimensions is the embedding width used when config leaves it unset.
const DefaultDimensions = 768

// EmbeddingResult holds a query embedding and provider token usage.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Embedder vectorizes text into a fixed-length embedding.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker is optionally implemented by embedders that can probe
// their provider.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
