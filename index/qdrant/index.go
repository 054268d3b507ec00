package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/me-nabi/pdf-assistant/document"
	"github.com/me-nabi/pdf-assistant/index"
	getsafe "github.com/me-nabi/pdf-assistant/util/get_safe"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type qdrantIndex struct {
	options index.Options
	client  *http.Client
}

func (q *qdrantIndex) CreateCollection(ctx context.Context, id string, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("invalid dimension %d", dimension)
	}

	existing, err := q.collectionDimension(ctx, id)
	if err != nil {
		return err
	}

	if existing > 0 {
		if existing != dimension {
			return fmt.Errorf("%w: %s has dimension %d, requested %d", index.ErrCollectionConflict, id, existing, dimension)
		}
		return nil
	}

	req := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}

	var rsp qdrantEnvelope[json.RawMessage]

	path := fmt.Sprintf("/collections/%s", url.PathEscape(id))

	if err := q.do(ctx, http.MethodPut, path, req, &rsp); err != nil {
		return err
	}

	if !strings.EqualFold(rsp.Status.State, "ok") && len(rsp.Status.Error) > 0 {
		return errors.New(rsp.Status.Error)
	}

	return nil
}

func (q *qdrantIndex) Upsert(ctx context.Context, collectionId string, entries []index.Entry) error {
	dimension, err := q.collectionDimension(ctx, collectionId)
	if err != nil {
		return err
	}
	if dimension == 0 {
		return fmt.Errorf("%w: %s", index.ErrUnknownCollection, collectionId)
	}

	points := make([]map[string]any, 0, len(entries))

	for _, entry := range entries {
		if len(entry.Vector) != dimension {
			return fmt.Errorf("%w: chunk %s has %d, collection %s expects %d", index.ErrDimensionMismatch, entry.Chunk.Id, len(entry.Vector), collectionId, dimension)
		}

		points = append(points, map[string]any{
			"id":     uuid.New().String(),
			"vector": entry.Vector,
			"payload": map[string]any{
				"chunk_id":       entry.Chunk.Id,
				"source_id":      entry.Chunk.SourceId,
				"content":        entry.Chunk.Text,
				"sequence_index": entry.Chunk.SequenceIndex,
			},
		})
	}

	req := map[string]any{"points": points}

	var rsp qdrantEnvelope[json.RawMessage]

	path := fmt.Sprintf("/collections/%s/points?wait=true", url.PathEscape(collectionId))

	if err := q.do(ctx, http.MethodPut, path, req, &rsp); err != nil {
		return err
	}

	if !strings.EqualFold(rsp.Status.State, "ok") && len(rsp.Status.Error) > 0 {
		return errors.New(rsp.Status.Error)
	}

	return nil
}

func (q *qdrantIndex) Search(ctx context.Context, collectionId string, vector []float32, k int) ([]document.ScoredChunk, error) {
	if k < 1 {
		return nil, nil
	}

	dimension, err := q.collectionDimension(ctx, collectionId)
	if err != nil {
		return nil, err
	}
	if dimension == 0 {
		return nil, nil
	}
	if len(vector) != dimension {
		return nil, fmt.Errorf("%w: query has %d, collection %s expects %d", index.ErrDimensionMismatch, len(vector), collectionId, dimension)
	}

	req := map[string]any{
		"vector":       vector,
		"limit":        k,
		"with_payload": true,
	}

	var rsp qdrantEnvelope[[]qdrantPointResult]

	path := fmt.Sprintf("/collections/%s/points/search", url.PathEscape(collectionId))

	if err := q.do(ctx, http.MethodPost, path, req, &rsp); err != nil {
		return nil, err
	}

	results := make([]document.ScoredChunk, 0, len(rsp.Result))

	for _, point := range rsp.Result {
		payload := point.Payload

		results = append(results, document.ScoredChunk{
			Chunk: document.Chunk{
				Id:            getsafe.String(payload, "chunk_id"),
				SourceId:      getsafe.String(payload, "source_id"),
				Text:          getsafe.String(payload, "content"),
				SequenceIndex: getsafe.Int(payload, "sequence_index"),
			},
			Score: point.Score,
		})
	}

	// Qdrant orders by score only; re-assert the sequence tiebreak.
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Chunk.SequenceIndex < results[j].Chunk.SequenceIndex
	})

	return results, nil
}

func (q *qdrantIndex) DropCollection(ctx context.Context, id string) error {
	path := fmt.Sprintf("/collections/%s", url.PathEscape(id))

	var rsp qdrantEnvelope[json.RawMessage]

	if err := q.do(ctx, http.MethodDelete, path, nil, &rsp); err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}

	return nil
}

// collectionDimension returns 0 when the collection does not exist.
func (q *qdrantIndex) collectionDimension(ctx context.Context, id string) (int, error) {
	path := fmt.Sprintf("/collections/%s", url.PathEscape(id))

	var rsp qdrantEnvelope[qdrantCollectionInfo]

	if err := q.do(ctx, http.MethodGet, path, nil, &rsp); err != nil {
		if isNotFound(err) {
			return 0, nil
		}
		return 0, err
	}

	return rsp.Result.Config.Params.Vectors.Size, nil
}

func isNotFound(err error) bool {
	var se *statusError
	return errors.As(err, &se) && se.code == http.StatusNotFound
}

func (q *qdrantIndex) do(ctx context.Context, method string, path string, req any, rsp any) error {
	u := q.options.Location + path

	var buf io.Reader
	if req != nil {
		data, err := json.Marshal(req)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(data)
	}

	request, err := http.NewRequestWithContext(ctx, method, u, buf)
	if err != nil {
		return err
	}

	request.Header.Set("Content-Type", "application/json")

	if len(q.options.ApiKey) > 0 {
		request.Header.Set("api-key", q.options.ApiKey)
		request.Header.Set("Authorization", "Bearer "+q.options.ApiKey)
	}

	response, err := q.client.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", index.ErrUnavailable, err)
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", index.ErrUnavailable, err)
	}

	if response.StatusCode >= 400 {
		return &statusError{code: response.StatusCode, body: string(payload)}
	}

	if rsp != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, rsp); err != nil {
			return err
		}
	}

	return nil
}

func NewIndex(opts ...index.Option) index.Index {
	options := index.NewOptions(opts...)

	if len(options.Location) == 0 {
		panic("qdrant index requires a location")
	}

	q := &qdrantIndex{
		options: options,
		client: &http.Client{
			Timeout:   options.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}

	return q
}
