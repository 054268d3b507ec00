package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/me-nabi/pdf-assistant/composer"
	"github.com/me-nabi/pdf-assistant/document"
	"github.com/me-nabi/pdf-assistant/generator"
	"github.com/me-nabi/pdf-assistant/history"
	"github.com/me-nabi/pdf-assistant/index"
	"github.com/me-nabi/pdf-assistant/internal/service/ingest"
	"github.com/me-nabi/pdf-assistant/retriever"
)

type State string

const (
	StateEmpty     State = "empty"
	StateIngesting State = "ingesting"
	StateReady     State = "ready"
)

var (
	// ErrNotReady reports an Ask before any ingestion has completed.
	ErrNotReady = errors.New("session is not ready: no documents have been loaded")

	// ErrIngestionInProgress reports a StartIngestion while another one is
	// still running for the same session.
	ErrIngestionInProgress = errors.New("ingestion already in progress")
)

// Session owns one collection and one transcript. A fresh ingestion replaces
// the collection rather than merging into it; Ask calls are serialized so
// transcript order is deterministic.
type Session struct {
	options   Options
	id        string
	pipeline  *ingest.Pipeline
	retriever *retriever.Retriever
	composer  *composer.Composer
	generator generator.Generator
	index     index.Index
	history   history.History

	stateMtx     sync.RWMutex
	state        State
	collectionId string

	turnMtx sync.Mutex
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Status() State {
	s.stateMtx.RLock()
	defer s.stateMtx.RUnlock()
	return s.state
}

func (s *Session) CollectionId() string {
	s.stateMtx.RLock()
	defer s.stateMtx.RUnlock()
	return s.collectionId
}

// StartIngestion loads the sources into a fresh collection and, on success,
// atomically swaps it in and marks the session ready. On failure the session
// falls back to its previous state and the old collection stays queryable.
func (s *Session) StartIngestion(ctx context.Context, sources []document.Source) (ingest.Result, error) {
	s.stateMtx.Lock()
	if s.state == StateIngesting {
		s.stateMtx.Unlock()
		return ingest.Result{}, ErrIngestionInProgress
	}
	prev := s.state
	s.state = StateIngesting
	s.stateMtx.Unlock()

	next := newCollectionId()

	result, err := s.pipeline.Run(ctx, next, sources)
	if err != nil {
		if dropErr := s.index.DropCollection(ctx, next); dropErr != nil {
			slog.WarnContext(ctx, "failed to drop aborted collection", "collection", next, "error", dropErr)
		}

		s.stateMtx.Lock()
		s.state = prev
		s.stateMtx.Unlock()

		return result, err
	}

	s.stateMtx.Lock()
	old := s.collectionId
	s.collectionId = next
	s.state = StateReady
	s.stateMtx.Unlock()

	if len(old) > 0 {
		if dropErr := s.index.DropCollection(ctx, old); dropErr != nil {
			slog.WarnContext(ctx, "failed to drop replaced collection", "collection", old, "error", dropErr)
		}
	}

	return result, nil
}

// Ask answers one question against the loaded documents. Both sides of the
// turn are appended to the transcript even when retrieval or generation
// fails; in that case the assistant content is a visible error string and
// the session stays ready for the next turn.
func (s *Session) Ask(ctx context.Context, question string) (string, error) {
	s.turnMtx.Lock()
	defer s.turnMtx.Unlock()

	s.stateMtx.RLock()
	state := s.state
	collectionId := s.collectionId
	s.stateMtx.RUnlock()

	if state != StateReady {
		return "", ErrNotReady
	}

	answer, turnErr := s.runTurn(ctx, collectionId, question)
	if turnErr != nil {
		answer = fmt.Sprintf("Error: %v", turnErr)
	}

	s.append(ctx, history.RoleUser, question)
	s.append(ctx, history.RoleAssistant, answer)

	return answer, turnErr
}

func (s *Session) runTurn(ctx context.Context, collectionId string, question string) (string, error) {
	retrieveCtx, cancel := context.WithTimeout(ctx, s.options.TurnTimeout)
	defer cancel()

	chunks, err := s.retriever.Retrieve(retrieveCtx, collectionId, question, s.options.TopK)
	if err != nil {
		return "", err
	}

	prompt := s.composer.Compose(question, chunks)

	generateCtx, cancel := context.WithTimeout(ctx, s.options.TurnTimeout)
	defer cancel()

	answer, err := s.generator.Generate(generateCtx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}

	return answer, nil
}

func (s *Session) Transcript(ctx context.Context) ([]history.Message, error) {
	return s.history.List(ctx, s.id)
}

func (s *Session) ClearTranscript(ctx context.Context) error {
	return s.history.Clear(ctx, s.id)
}

func (s *Session) append(ctx context.Context, role string, content string) {
	msg := history.Message{
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.history.Append(ctx, s.id, msg); err != nil {
		slog.ErrorContext(ctx, "failed to append to transcript", "session", s.id, "role", role, "error", err)
	}
}

// One collection per ingestion: docs_ plus the first 8 characters of a UUID.
func newCollectionId() string {
	return "docs_" + uuid.New().String()[:8]
}
