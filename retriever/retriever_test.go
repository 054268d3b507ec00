package retriever

import (
	"context"
	"errors"
	"testing"

	"github.com/me-nabi/pdf-assistant/document"
	"github.com/me-nabi/pdf-assistant/index"
	indexmemory "github.com/me-nabi/pdf-assistant/index/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return []float32{0, 0, 1}, nil
}

func (f *fakeEmbedder) Dimension() int {
	return 3
}

func seededIndex(t *testing.T) index.Index {
	t.Helper()

	ctx := context.Background()
	idx := indexmemory.NewIndex()

	require.NoError(t, idx.CreateCollection(ctx, "docs_abc", 3))
	require.NoError(t, idx.Upsert(ctx, "docs_abc", []index.Entry{
		{Chunk: document.Chunk{Id: "c1", SourceId: "src", Text: "apples", SequenceIndex: 0}, Vector: []float32{1, 0, 0}},
		{Chunk: document.Chunk{Id: "c2", SourceId: "src", Text: "oranges", SequenceIndex: 1}, Vector: []float32{0, 1, 0}},
	}))

	return idx
}

func TestRetrieve_RanksMostSimilarFirst(t *testing.T) {
	e := &fakeEmbedder{vectors: map[string][]float32{"about apples": {1, 0, 0}}}
	r := NewRetriever(e, seededIndex(t))

	found, err := r.Retrieve(context.Background(), "docs_abc", "about apples", 2)

	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "c1", found[0].Chunk.Id)
}

func TestRetrieve_DefaultsKWhenNotPositive(t *testing.T) {
	e := &fakeEmbedder{vectors: map[string][]float32{"q": {1, 0, 0}}}
	r := NewRetriever(e, seededIndex(t), WithDefaultK(1))

	found, err := r.Retrieve(context.Background(), "docs_abc", "q", 0)

	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestRetrieve_UnknownCollectionIsEmpty(t *testing.T) {
	e := &fakeEmbedder{}
	r := NewRetriever(e, indexmemory.NewIndex())

	found, err := r.Retrieve(context.Background(), "docs_missing", "q", 5)

	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestRetrieve_EmbedFailure(t *testing.T) {
	wantErr := errors.New("provider down")
	e := &fakeEmbedder{err: wantErr}
	r := NewRetriever(e, seededIndex(t))

	_, err := r.Retrieve(context.Background(), "docs_abc", "q", 5)

	assert.ErrorIs(t, err, wantErr)
}
