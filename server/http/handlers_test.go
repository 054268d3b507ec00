package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	assistant "github.com/me-nabi/pdf-assistant"
	"github.com/me-nabi/pdf-assistant/document"
	indexmemory "github.com/me-nabi/pdf-assistant/index/memory"
	"github.com/me-nabi/pdf-assistant/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoader struct{}

func (f *fakeLoader) Load(ctx context.Context, sources []document.Source) []loader.SourceResult {
	results := make([]loader.SourceResult, 0, len(sources))
	for _, src := range sources {
		if src.Id == "broken.pdf" {
			results = append(results, loader.SourceResult{SourceId: src.Id, Err: loader.ErrNotPDF})
			continue
		}
		results = append(results, loader.SourceResult{
			SourceId: src.Id,
			Chunks: []document.Chunk{
				{Id: src.Id + "-0", SourceId: src.Id, Text: "content of " + src.Id, SequenceIndex: 0},
			},
		})
	}
	return results
}

type fakeEmbedder struct{}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func (f *fakeEmbedder) Dimension() int {
	return 3
}

type fakeGenerator struct{}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return "a generated answer", nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	a := assistant.New(&fakeLoader{}, &fakeEmbedder{}, indexmemory.NewIndex(), &fakeGenerator{})

	srv := httptest.NewServer(NewServer(a).server.Handler)
	t.Cleanup(srv.Close)

	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()

	bs, err := json.Marshal(body)
	require.NoError(t, err)

	rsp, err := http.Post(url, "application/json", bytes.NewReader(bs))
	require.NoError(t, err)

	return rsp
}

func decode[T any](t *testing.T, rsp *http.Response) T {
	t.Helper()
	defer rsp.Body.Close()

	var out T
	require.NoError(t, json.NewDecoder(rsp.Body).Decode(&out))

	return out
}

func TestHandleStatus_EmptyUntilIngestion(t *testing.T) {
	srv := newTestServer(t)

	rsp, err := http.Get(srv.URL + "/v1/status")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rsp.StatusCode)

	body := decode[map[string]string](t, rsp)
	assert.Equal(t, "empty", body["status"])
	assert.NotEmpty(t, body["session_id"])
}

func TestHandleAsk_BeforeIngestion(t *testing.T) {
	srv := newTestServer(t)

	rsp := postJSON(t, srv.URL+"/v1/ask", askRequest{Question: "anything?"})

	assert.Equal(t, http.StatusConflict, rsp.StatusCode)
	body := decode[map[string]string](t, rsp)
	assert.Contains(t, body["error"], "not ready")
}

func TestHandleIngest_ThenAsk(t *testing.T) {
	srv := newTestServer(t)

	rsp := postJSON(t, srv.URL+"/v1/ingest", ingestRequest{
		Sources: []document.Source{{Id: "a.pdf", Kind: document.SourceKindBytes}},
	})
	require.Equal(t, http.StatusOK, rsp.StatusCode)

	ingested := decode[ingestResponse](t, rsp)
	assert.Equal(t, 1, ingested.ChunksIndexed)
	assert.Empty(t, ingested.FailedSources)
	assert.NotEmpty(t, ingested.CollectionId)

	rsp = postJSON(t, srv.URL+"/v1/ask", askRequest{Question: "what is in a.pdf?"})
	require.Equal(t, http.StatusOK, rsp.StatusCode)

	answered := decode[askResponse](t, rsp)
	assert.Equal(t, "a generated answer", answered.Answer)
}

func TestHandleIngest_ReportsFailedSources(t *testing.T) {
	srv := newTestServer(t)

	rsp := postJSON(t, srv.URL+"/v1/ingest", ingestRequest{
		Sources: []document.Source{
			{Id: "a.pdf", Kind: document.SourceKindBytes},
			{Id: "broken.pdf", Kind: document.SourceKindBytes},
		},
	})
	require.Equal(t, http.StatusOK, rsp.StatusCode)

	ingested := decode[ingestResponse](t, rsp)
	assert.Equal(t, 1, ingested.ChunksIndexed)
	assert.Equal(t, []string{"broken.pdf"}, ingested.FailedSources)
}

func TestHandleIngest_AllSourcesFailed(t *testing.T) {
	srv := newTestServer(t)

	rsp := postJSON(t, srv.URL+"/v1/ingest", ingestRequest{
		Sources: []document.Source{{Id: "broken.pdf", Kind: document.SourceKindBytes}},
	})
	defer rsp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, rsp.StatusCode)
}

func TestHandleIngest_BadBody(t *testing.T) {
	srv := newTestServer(t)

	rsp, err := http.Post(srv.URL+"/v1/ingest", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer rsp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, rsp.StatusCode)
}

func TestHandleTranscript_RoundTrip(t *testing.T) {
	srv := newTestServer(t)

	rsp := postJSON(t, srv.URL+"/v1/ingest", ingestRequest{
		Sources: []document.Source{{Id: "a.pdf", Kind: document.SourceKindBytes}},
	})
	require.Equal(t, http.StatusOK, rsp.StatusCode)
	rsp.Body.Close()

	rsp = postJSON(t, srv.URL+"/v1/ask", askRequest{Question: "q1"})
	require.Equal(t, http.StatusOK, rsp.StatusCode)
	rsp.Body.Close()

	rsp, err := http.Get(srv.URL + "/v1/transcript")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rsp.StatusCode)

	type transcriptResponse struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	transcript := decode[transcriptResponse](t, rsp)
	require.Len(t, transcript.Messages, 2)
	assert.Equal(t, "user", transcript.Messages[0].Role)
	assert.Equal(t, "assistant", transcript.Messages[1].Role)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/v1/transcript", nil)
	require.NoError(t, err)
	rsp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	rsp.Body.Close()
	assert.Equal(t, http.StatusNoContent, rsp.StatusCode)

	rsp, err = http.Get(srv.URL + "/v1/transcript")
	require.NoError(t, err)
	transcript = decode[transcriptResponse](t, rsp)
	assert.Empty(t, transcript.Messages)
}
