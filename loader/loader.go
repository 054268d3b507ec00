package loader

import (
	"context"
	"errors"

	"github.com/me-nabi/pdf-assistant/document"
)

var (
	ErrEmptyDocument = errors.New("document contains no extractable text")
	ErrNotPDF        = errors.New("source is not a valid PDF")
)

type Loader interface {
	Load(ctx context.Context, sources []document.Source) []SourceResult
}

// SourceResult reports the outcome for one source. Exactly one of Chunks
// or Err is meaningful: a failed source carries no chunks.
type SourceResult struct {
	SourceId string
	Chunks   []document.Chunk
	Err      error
}
