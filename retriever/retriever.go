package retriever

import (
	"context"
	"fmt"

	"github.com/me-nabi/pdf-assistant/document"
	"github.com/me-nabi/pdf-assistant/embedder"
	"github.com/me-nabi/pdf-assistant/index"
)

// Retriever embeds a query and asks the index for the most similar chunks
// within one collection. The same embedder instance must be used for queries
// as was used during ingestion.
type Retriever struct {
	options  Options
	embedder embedder.Embedder
	index    index.Index
}

// Retrieve returns up to k chunks ranked by similarity. k < 1 falls back to
// the configured default. An empty or unknown collection yields an empty
// slice, not an error.
func (r *Retriever) Retrieve(ctx context.Context, collectionId string, query string, k int) ([]document.ScoredChunk, error) {
	if k < 1 {
		k = r.options.DefaultK
	}

	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := r.index.Search(ctx, collectionId, vector, k)
	if err != nil {
		return nil, fmt.Errorf("search collection %s: %w", collectionId, err)
	}

	return results, nil
}

func NewRetriever(e embedder.Embedder, i index.Index, opts ...Option) *Retriever {
	options := NewOptions(opts...)

	return &Retriever{
		options:  options,
		embedder: e,
		index:    i,
	}
}
