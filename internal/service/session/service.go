package session

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/me-nabi/pdf-assistant/composer"
	"github.com/me-nabi/pdf-assistant/generator"
	"github.com/me-nabi/pdf-assistant/history"
	"github.com/me-nabi/pdf-assistant/index"
	"github.com/me-nabi/pdf-assistant/internal/service/ingest"
	"github.com/me-nabi/pdf-assistant/retriever"
)

// Service tracks live sessions. Each session gets its own collection, so
// no cross-session coordination happens at the index level.
type Service struct {
	options   Options
	pipeline  *ingest.Pipeline
	retriever *retriever.Retriever
	composer  *composer.Composer
	generator generator.Generator
	index     index.Index
	history   history.History
	sessions  map[string]*Session
	mtx       sync.RWMutex
}

func (s *Service) CreateSession(ctx context.Context, id string) (*Session, error) {
	if len(strings.TrimSpace(id)) == 0 {
		id = uuid.New().String()
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if session, ok := s.sessions[id]; ok {
		return session, nil
	}

	session := &Session{
		options:   s.options,
		id:        id,
		pipeline:  s.pipeline,
		retriever: s.retriever,
		composer:  s.composer,
		generator: s.generator,
		index:     s.index,
		history:   s.history,
		state:     StateEmpty,
	}

	s.sessions[id] = session

	return session, nil
}

func (s *Service) GetSession(ctx context.Context, id string) (*Session, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s not found", id)
	}

	return session, nil
}

func (s *Service) ListSessionIds(ctx context.Context) []string {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}

func (s *Service) DeleteSession(ctx context.Context, id string) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	delete(s.sessions, id)
}

func New(
	pipeline *ingest.Pipeline,
	r *retriever.Retriever,
	c *composer.Composer,
	g generator.Generator,
	i index.Index,
	h history.History,
	opts ...Option,
) *Service {
	options := NewOptions(opts...)

	return &Service{
		options:   options,
		pipeline:  pipeline,
		retriever: r,
		composer:  c,
		generator: g,
		index:     i,
		history:   h,
		sessions:  map[string]*Session{},
		mtx:       sync.RWMutex{},
	}
}
