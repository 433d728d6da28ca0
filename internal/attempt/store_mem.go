package attempt

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/ascentprep/ascentprep/internal/scoring"
)

type memoryStore struct {
	mu       sync.Mutex
	attempts map[string]TestAttempt
	answers  map[string]map[string]UserAnswer // attemptID -> questionID -> answer
}

// NewInMemoryStore backs the service unit tests.
func NewInMemoryStore() Store {
	return &memoryStore{
		attempts: map[string]TestAttempt{},
		answers:  map[string]map[string]UserAnswer{},
	}
}

func (m *memoryStore) CreateAttempt(_ context.Context, a TestAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts[a.ID] = a
	m.answers[a.ID] = map[string]UserAnswer{}
	return nil
}

func (m *memoryStore) GetAttempt(_ context.Context, id string) (TestAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attempts[id]
	if !ok {
		return TestAttempt{}, ErrAttemptNotFound
	}
	return a, nil
}

func (m *memoryStore) FindOpenAttempt(_ context.Context, userID, testID string) (TestAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found *TestAttempt
	for _, a := range m.attempts {
		if a.UserID == userID && a.TestID == testID && !a.Completed {
			if found == nil || a.StartedAt > found.StartedAt {
				c := a
				found = &c
			}
		}
	}
	if found == nil {
		return TestAttempt{}, ErrAttemptNotFound
	}
	return *found, nil
}

func (m *memoryStore) ListAttempts(_ context.Context, userID string) ([]TestAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []TestAttempt
	for _, a := range m.attempts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt > out[j].StartedAt })
	return out, nil
}

func (m *memoryStore) UpsertAnswer(_ context.Context, ans UserAnswer) (UserAnswer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byQ, ok := m.answers[ans.AttemptID]
	if !ok {
		return UserAnswer{}, ErrAttemptNotFound
	}
	if prev, ok := byQ[ans.QuestionID]; ok {
		ans.ID = prev.ID
	} else if ans.ID == "" {
		ans.ID = uuid.NewString()
	}
	byQ[ans.QuestionID] = ans
	return ans, nil
}

func (m *memoryStore) ListAnswers(_ context.Context, attemptID string) ([]UserAnswer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byQ, ok := m.answers[attemptID]
	if !ok {
		return nil, ErrAttemptNotFound
	}
	out := make([]UserAnswer, 0, len(byQ))
	for _, ua := range byQ {
		out = append(out, ua)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out, nil
}

func (m *memoryStore) FinalizeAttempt(_ context.Context, id string, endedAt int64, sum scoring.Summary) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attempts[id]
	if !ok {
		return false, ErrAttemptNotFound
	}
	if a.Completed {
		return false, nil
	}
	a.EndedAt = &endedAt
	a.Completed = true
	score, pct := sum.Score, sum.Percentage
	correct, incorrect, unanswered := sum.Correct, sum.Incorrect, sum.Unanswered
	a.Score = &score
	a.CorrectCount = &correct
	a.IncorrectCount = &incorrect
	a.UnansweredCount = &unanswered
	a.Percentage = &pct
	m.attempts[id] = a
	return true, nil
}
