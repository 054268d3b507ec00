package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/me-nabi/pdf-assistant/document"
	"github.com/me-nabi/pdf-assistant/embedder"
	"github.com/me-nabi/pdf-assistant/index"
	"github.com/me-nabi/pdf-assistant/loader"
	"golang.org/x/sync/errgroup"
)

// Result reports a completed ingestion. SourceFailures lists sources that
// could not be loaded; the remaining sources' chunks were all embedded and
// committed.
type Result struct {
	CollectionId   string
	ChunksIndexed  int
	SourceFailures []Failure
}

// Pipeline orchestrates loader -> embedder -> index. A run either commits
// every chunk of every readable source in a single upsert, or commits
// nothing.
type Pipeline struct {
	options  Options
	loader   loader.Loader
	embedder embedder.Embedder
	index    index.Index
}

// Run populates collectionId with the given sources. Unreadable sources are
// collected into Result.SourceFailures without failing the run; any
// embedding or index failure aborts the whole ingestion and nothing is
// committed.
func (p *Pipeline) Run(ctx context.Context, collectionId string, sources []document.Source) (Result, error) {
	result := Result{CollectionId: collectionId}

	if len(sources) == 0 {
		return result, &Error{Failures: []Failure{{Err: fmt.Errorf("no sources provided")}}}
	}

	loaded := p.loader.Load(ctx, sources)

	var chunks []document.Chunk
	for _, lr := range loaded {
		if lr.Err != nil {
			slog.WarnContext(ctx, "source failed to load", "source", lr.SourceId, "error", lr.Err)
			result.SourceFailures = append(result.SourceFailures, Failure{SourceId: lr.SourceId, Err: lr.Err})
			continue
		}
		chunks = append(chunks, lr.Chunks...)
	}

	if len(chunks) == 0 {
		return result, &Error{Failures: result.SourceFailures}
	}

	dimension := p.embedder.Dimension()

	if err := p.index.CreateCollection(ctx, collectionId, dimension); err != nil {
		return result, err
	}

	entries := make([]index.Entry, len(chunks))

	var mtx sync.Mutex
	var failures []Failure

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.options.Parallelism)

	for i, chunk := range chunks {
		g.Go(func() error {
			embedCtx, cancel := context.WithTimeout(gctx, p.options.EmbedTimeout)
			defer cancel()

			vector, err := p.embedder.Embed(embedCtx, chunk.Text)
			if err != nil {
				mtx.Lock()
				failures = append(failures, Failure{SourceId: chunk.SourceId, ChunkId: chunk.Id, Err: err})
				mtx.Unlock()
				return err
			}

			if len(vector) != dimension {
				err := fmt.Errorf("%w: chunk %s embedded to %d, collection %s expects %d", index.ErrDimensionMismatch, chunk.Id, len(vector), collectionId, dimension)
				mtx.Lock()
				failures = append(failures, Failure{SourceId: chunk.SourceId, ChunkId: chunk.Id, Err: err})
				mtx.Unlock()
				return err
			}

			entries[i] = index.Entry{Chunk: chunk, Vector: vector}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// Any embedding failure aborts the whole ingestion; no partial
		// collection is committed.
		return result, &Error{Failures: append(result.SourceFailures, failures...)}
	}

	if err := p.index.Upsert(ctx, collectionId, entries); err != nil {
		return result, err
	}

	result.ChunksIndexed = len(entries)

	slog.InfoContext(ctx, "ingestion complete", "collection", collectionId, "chunks", result.ChunksIndexed, "failed_sources", len(result.SourceFailures))

	return result, nil
}

func NewPipeline(l loader.Loader, e embedder.Embedder, i index.Index, opts ...Option) *Pipeline {
	options := NewOptions(opts...)

	return &Pipeline{
		options:  options,
		loader:   l,
		embedder: e,
		index:    i,
	}
}
