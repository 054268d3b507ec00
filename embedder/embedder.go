package embedder

import "context"

// Embedder maps text to a fixed-dimension vector. One embedder instance is
// bound to one model configuration for the lifetime of a collection.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}
