package memory

import (
	"context"
	"sync"

	"github.com/me-nabi/pdf-assistant/history"
)

type memoryHistory struct {
	options  history.Options
	messages map[string][]history.Message
	mtx      sync.RWMutex
}

func (m *memoryHistory) Append(ctx context.Context, sessionId string, msg history.Message) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.messages[sessionId] = append(m.messages[sessionId], msg)

	return nil
}

func (m *memoryHistory) List(ctx context.Context, sessionId string) ([]history.Message, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	cpy := make([]history.Message, len(m.messages[sessionId]))
	copy(cpy, m.messages[sessionId])

	return cpy, nil
}

func (m *memoryHistory) Clear(ctx context.Context, sessionId string) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	delete(m.messages, sessionId)

	return nil
}

func NewHistory(opts ...history.Option) history.History {
	options := history.NewOptions(opts...)

	return &memoryHistory{
		options:  options,
		messages: map[string][]history.Message{},
		mtx:      sync.RWMutex{},
	}
}
