package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
	"github.com/me-nabi/pdf-assistant/document"
	"github.com/me-nabi/pdf-assistant/loader"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type pdfLoader struct {
	options loader.Options
	client  *http.Client
}

func (l *pdfLoader) Load(ctx context.Context, sources []document.Source) []loader.SourceResult {
	results := make([]loader.SourceResult, 0, len(sources))

	for _, src := range sources {
		sourceId := src.Id
		if len(sourceId) == 0 {
			if src.Kind == document.SourceKindURL {
				sourceId = src.URL
			} else {
				sourceId = uuid.New().String()
			}
		}

		chunks, err := l.loadOne(ctx, sourceId, src)

		results = append(results, loader.SourceResult{
			SourceId: sourceId,
			Chunks:   chunks,
			Err:      err,
		})
	}

	return results
}

func (l *pdfLoader) loadOne(ctx context.Context, sourceId string, src document.Source) ([]document.Chunk, error) {
	data := src.Data

	if src.Kind == document.SourceKindURL {
		fetched, err := l.fetch(ctx, src.URL)
		if err != nil {
			return nil, err
		}
		data = fetched
	}

	if len(data) == 0 {
		return nil, loader.ErrEmptyDocument
	}

	text, err := extractText(data)
	if err != nil {
		return nil, err
	}

	spans := splitText(text, l.options.MaxChunkSize)
	if len(spans) == 0 {
		return nil, loader.ErrEmptyDocument
	}

	chunks := make([]document.Chunk, 0, len(spans))
	for i, span := range spans {
		chunks = append(chunks, document.Chunk{
			Id:            uuid.New().String(),
			SourceId:      sourceId,
			Text:          span,
			SequenceIndex: i,
		})
	}

	return chunks, nil
}

func (l *pdfLoader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	rsp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer rsp.Body.Close()

	if rsp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetch %s: status %s", url, rsp.Status)
	}

	return io.ReadAll(rsp.Body)
}

func extractText(data []byte) (text string, err error) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", loader.ErrNotPDF, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", loader.ErrNotPDF, err)
	}

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %v", loader.ErrNotPDF, err)
	}

	bs, err := io.ReadAll(plain)
	if err != nil {
		return "", err
	}

	return string(bs), nil
}

func NewLoader(opts ...loader.Option) loader.Loader {
	options := loader.NewOptions(opts...)

	l := &pdfLoader{
		options: options,
		client: &http.Client{
			Timeout:   options.HTTPTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}

	return l
}
