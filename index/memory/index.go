package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/me-nabi/pdf-assistant/document"
	"github.com/me-nabi/pdf-assistant/index"
)

type collection struct {
	dimension int
	entries   []index.Entry
}

type memoryIndex struct {
	options     index.Options
	collections map[string]*collection
	mtx         sync.RWMutex
}

func (m *memoryIndex) CreateCollection(ctx context.Context, id string, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("invalid dimension %d", dimension)
	}

	m.mtx.Lock()
	defer m.mtx.Unlock()

	if c, ok := m.collections[id]; ok {
		if c.dimension != dimension {
			return fmt.Errorf("%w: %s has dimension %d, requested %d", index.ErrCollectionConflict, id, c.dimension, dimension)
		}
		return nil
	}

	m.collections[id] = &collection{dimension: dimension}

	return nil
}

func (m *memoryIndex) Upsert(ctx context.Context, collectionId string, entries []index.Entry) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	c, ok := m.collections[collectionId]
	if !ok {
		return fmt.Errorf("%w: %s", index.ErrUnknownCollection, collectionId)
	}

	for _, entry := range entries {
		if len(entry.Vector) != c.dimension {
			return fmt.Errorf("%w: chunk %s has %d, collection %s expects %d", index.ErrDimensionMismatch, entry.Chunk.Id, len(entry.Vector), collectionId, c.dimension)
		}
	}

	for _, entry := range entries {
		cpy := make([]float32, len(entry.Vector))
		copy(cpy, entry.Vector)
		entry.Vector = cpy
		c.entries = append(c.entries, entry)
	}

	return nil
}

func (m *memoryIndex) Search(ctx context.Context, collectionId string, vector []float32, k int) ([]document.ScoredChunk, error) {
	if k < 1 {
		return nil, nil
	}

	m.mtx.RLock()
	defer m.mtx.RUnlock()

	c, ok := m.collections[collectionId]
	if !ok {
		return nil, nil
	}

	if len(vector) != c.dimension {
		return nil, fmt.Errorf("%w: query has %d, collection %s expects %d", index.ErrDimensionMismatch, len(vector), collectionId, c.dimension)
	}

	candidates := make([]document.ScoredChunk, 0, len(c.entries))
	for _, entry := range c.entries {
		candidates = append(candidates, document.ScoredChunk{
			Chunk: entry.Chunk,
			Score: float32(index.CosineSimilarity(vector, entry.Vector)),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Chunk.SequenceIndex < candidates[j].Chunk.SequenceIndex
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}

	return candidates, nil
}

func (m *memoryIndex) DropCollection(ctx context.Context, id string) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	delete(m.collections, id)

	return nil
}

func NewIndex(opts ...index.Option) index.Index {
	options := index.NewOptions(opts...)

	m := &memoryIndex{
		options:     options,
		collections: map[string]*collection{},
		mtx:         sync.RWMutex{},
	}

	return m
}
