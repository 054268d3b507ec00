package openai

import (
	"context"
	"errors"
	"net/http"

	"github.com/me-nabi/pdf-assistant/embedder"
	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type openAIEmbedder struct {
	options embedder.Options
	client  *openai.Client
}

func (e *openAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	rsp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(e.options.Model),
	})
	if err != nil {
		return nil, err
	}

	if len(rsp.Data) == 0 || len(rsp.Data[0].Embedding) == 0 {
		return nil, errors.New("no response from OpenAI")
	}

	return rsp.Data[0].Embedding, nil
}

func (e *openAIEmbedder) Dimension() int {
	return e.options.Dimension
}

// NewEmbedder works against any OpenAI-compatible embeddings endpoint; set
// WithBaseURL to point it at e.g. the GitHub Models inference endpoint.
func NewEmbedder(opts ...embedder.Option) embedder.Embedder {
	options := embedder.NewOptions(opts...)

	e := &openAIEmbedder{
		options: options,
	}

	config := openai.DefaultConfig(options.ApiKey)
	if len(options.BaseURL) > 0 {
		config.BaseURL = options.BaseURL
	}
	config.HTTPClient = &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	e.client = openai.NewClientWithConfig(config)

	return e
}
