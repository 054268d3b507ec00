package assistant

import (
	"context"

	"github.com/me-nabi/pdf-assistant/composer"
	"github.com/me-nabi/pdf-assistant/document"
	"github.com/me-nabi/pdf-assistant/embedder"
	"github.com/me-nabi/pdf-assistant/generator"
	"github.com/me-nabi/pdf-assistant/history"
	historymemory "github.com/me-nabi/pdf-assistant/history/memory"
	"github.com/me-nabi/pdf-assistant/index"
	"github.com/me-nabi/pdf-assistant/internal/service/ingest"
	"github.com/me-nabi/pdf-assistant/internal/service/session"
	"github.com/me-nabi/pdf-assistant/loader"
	"github.com/me-nabi/pdf-assistant/retriever"
)

// Assistant is the top-level entry point: it wires loader, embedder, index,
// and generator into a conversation over a set of PDF documents. Each
// Assistant owns one session; additional isolated sessions can be created
// with NewSession.
type Assistant struct {
	service *session.Service
	session *session.Session
}

// IngestionResult reports what a completed ingestion indexed and which
// sources, if any, could not be read.
type IngestionResult = ingest.Result

func (a *Assistant) StartIngestion(ctx context.Context, sources []document.Source) (IngestionResult, error) {
	return a.session.StartIngestion(ctx, sources)
}

func (a *Assistant) Ask(ctx context.Context, question string) (string, error) {
	return a.session.Ask(ctx, question)
}

func (a *Assistant) Transcript(ctx context.Context) ([]history.Message, error) {
	return a.session.Transcript(ctx)
}

func (a *Assistant) ClearTranscript(ctx context.Context) error {
	return a.session.ClearTranscript(ctx)
}

func (a *Assistant) Status(ctx context.Context) session.State {
	return a.session.Status()
}

func (a *Assistant) SessionId() string {
	return a.session.ID()
}

// NewSession returns an additional session with its own collection and
// transcript, isolated from every other session.
func (a *Assistant) NewSession(ctx context.Context, id string) (*session.Session, error) {
	return a.service.CreateSession(ctx, id)
}

func New(
	l loader.Loader,
	e embedder.Embedder,
	i index.Index,
	g generator.Generator,
	opts ...Option,
) *Assistant {
	options := NewOptions(opts...)

	h := options.History
	if h == nil {
		h = historymemory.NewHistory()
	}

	pipeline := ingest.NewPipeline(
		l,
		e,
		i,
		ingest.WithParallelism(options.Parallelism),
		ingest.WithEmbedTimeout(options.Timeout),
	)

	r := retriever.NewRetriever(
		e,
		i,
		retriever.WithDefaultK(options.TopK),
	)

	c := composer.NewComposer(
		composer.WithMaxContextLength(options.MaxContextLength),
	)

	service := session.New(
		pipeline,
		r,
		c,
		g,
		i,
		h,
		session.WithTopK(options.TopK),
		session.WithTurnTimeout(options.Timeout),
	)

	s, _ := service.CreateSession(options.Context, options.SessionId)

	return &Assistant{
		service: service,
		session: s,
	}
}
