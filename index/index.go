package index

import (
	"context"
	"errors"

	"github.com/me-nabi/pdf-assistant/document"
)

var (
	// ErrDimensionMismatch reports a vector whose length differs from the
	// collection's fixed dimension. It is never silently coerced.
	ErrDimensionMismatch = errors.New("vector dimension does not match collection dimension")

	// ErrCollectionConflict reports a CreateCollection against an existing
	// collection with a different dimension.
	ErrCollectionConflict = errors.New("collection exists with a different dimension")

	// ErrUnavailable reports that the backing store cannot be reached.
	ErrUnavailable = errors.New("index unavailable")

	// ErrUnknownCollection reports an Upsert against a collection that was
	// never created. Search against an unknown collection is not an error;
	// it returns no results.
	ErrUnknownCollection = errors.New("unknown collection")
)

// Entry is one indexed (chunk, vector) pair. Entries are created during
// ingestion and never updated in place.
type Entry struct {
	Chunk  document.Chunk
	Vector []float32
}

// Index stores entries in named, isolated collections and supports
// nearest-neighbor search within one collection.
type Index interface {
	// CreateCollection is idempotent when the collection already exists
	// with the same dimension and fails with ErrCollectionConflict otherwise.
	CreateCollection(ctx context.Context, id string, dimension int) error

	// Upsert adds entries without deduplicating by content. Re-ingesting the
	// same document into an uncleaned collection produces duplicate
	// retrievable chunks; callers replace the collection instead.
	Upsert(ctx context.Context, collectionId string, entries []Entry) error

	// Search returns up to k chunks ranked by descending similarity, ties
	// broken by ascending sequence index. An unknown or empty collection
	// yields an empty result, not an error.
	Search(ctx context.Context, collectionId string, vector []float32, k int) ([]document.ScoredChunk, error)

	// DropCollection removes a collection and its entries. Dropping a
	// collection that does not exist is a no-op.
	DropCollection(ctx context.Context, id string) error
}
