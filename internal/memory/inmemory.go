package memory

import (
	"context"
	"maps"
	"sync"
)

// InMemory is a process-local Store safe for concurrent use.
type InMemory struct {
	mu     sync.RWMutex
	byText map[string]int
	exps   []Experience
}

func NewInMemory() *InMemory {
	return &InMemory{byText: make(map[string]int)}
}

func (m *InMemory) Record(ctx context.Context, e Experience) (Experience, error) {
	if err := ctx.Err(); err != nil {
		return Experience{}, err
	}
	e, err := prepare(e)
	if err != nil {
		return Experience{}, err
	}
	e.Metadata = maps.Clone(e.Metadata)

	m.mu.Lock()
	defer m.mu.Unlock()
	if i, ok := m.byText[e.ProblemText]; ok {
		e.ID = m.exps[i].ID
		m.exps[i] = e
		return e, nil
	}
	m.byText[e.ProblemText] = len(m.exps)
	m.exps = append(m.exps, e)
	return e, nil
}

func (m *InMemory) Recall(ctx context.Context, query string, limit int) ([]Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return rank(query, m.exps, limit), nil
}

func (m *InMemory) Insights(ctx context.Context) (Insights, error) {
	if err := ctx.Err(); err != nil {
		return Insights{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return summarize(m.exps), nil
}

func (m *InMemory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.exps)
}
