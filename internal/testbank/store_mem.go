package testbank

import (
	"context"
	"sort"
	"sync"
)

type memoryStore struct {
	mu        sync.RWMutex
	tests     map[string]Test
	questions map[string][]Question // testID -> ordered questions
}

// NewInMemoryStore backs unit tests and offline demos; production uses the
// SQL store.
func NewInMemoryStore() Store {
	return &memoryStore{
		tests:     map[string]Test{},
		questions: map[string][]Question{},
	}
}

func (m *memoryStore) PutTest(_ context.Context, t Test, questions []Question) error {
	if err := ValidateTest(t, questions); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	qs := make([]Question, len(questions))
	copy(qs, questions)
	for i := range qs {
		qs[i].TestID = t.ID
		if qs[i].Position == 0 {
			qs[i].Position = i + 1
		}
		if qs[i].Type == FillBlank {
			for j := range qs[i].Options {
				qs[i].Options[j].IsCorrect = true
			}
		}
	}
	m.tests[t.ID] = t
	m.questions[t.ID] = qs
	return nil
}

func (m *memoryStore) GetTest(_ context.Context, id string) (Test, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tests[id]
	if !ok {
		return Test{}, ErrTestNotFound
	}
	return t, nil
}

func (m *memoryStore) ListTests(_ context.Context, opts ListOpts) ([]Test, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Test
	for _, t := range m.tests {
		if opts.ActiveOnly && !t.Active {
			continue
		}
		if opts.SeriesID != "" && t.SeriesID != opts.SeriesID {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func (m *memoryStore) GetQuestions(_ context.Context, testID string) ([]Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.tests[testID]; !ok {
		return nil, ErrTestNotFound
	}
	qs := m.questions[testID]
	out := make([]Question, len(qs))
	copy(out, qs)
	return out, nil
}

func (m *memoryStore) GetQuestion(_ context.Context, id string) (Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, qs := range m.questions {
		for _, q := range qs {
			if q.ID == id {
				return q, nil
			}
		}
	}
	return Question{}, ErrQuestionNotFound
}

func (m *memoryStore) CountQuestions(_ context.Context, testID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.tests[testID]; !ok {
		return 0, ErrTestNotFound
	}
	return len(m.questions[testID]), nil
}
