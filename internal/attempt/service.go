package attempt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ascentprep/ascentprep/internal/scoring"
	"github.com/ascentprep/ascentprep/internal/testbank"
)

// ErrTimeExpired is returned for a submission that arrives after the
// attempt's deadline. The attempt is finalized as a side effect.
var ErrTimeExpired = errors.New("attempt time expired")

// Service drives the attempt state machine:
// InProgress (answers accepted) -> Completed (terminal).
// Completion happens on an explicit call or on server-detected timeout; the
// deadline is always recomputed from the stored start timestamp.
type Service struct {
	bank   testbank.Store
	store  Store
	grader scoring.Grader
	log    *zap.Logger
	now    func() time.Time
}

type ServiceOption func(*Service)

// WithClock overrides the service clock, for deadline tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

func NewService(bank testbank.Store, store Store, grader scoring.Grader, log *zap.Logger, opts ...ServiceOption) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{bank: bank, store: store, grader: grader, log: log, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Start creates an attempt for (userID, testID), or resumes the existing
// incomplete one so retrying "start" is safe. An open attempt whose deadline
// has already passed is finalized and a fresh attempt is created.
func (s *Service) Start(ctx context.Context, userID, testID string) (TestAttempt, error) {
	if userID == "" {
		return TestAttempt{}, ErrUnauthenticated
	}
	t, err := s.bank.GetTest(ctx, testID)
	if err != nil {
		return TestAttempt{}, err
	}
	if !t.Active {
		return TestAttempt{}, testbank.ErrTestNotFound
	}

	if open, err := s.store.FindOpenAttempt(ctx, userID, testID); err == nil {
		if s.now().Before(open.Deadline(t)) {
			return open, nil
		}
		if _, err := s.finalize(ctx, open, open.Deadline(t)); err != nil {
			return TestAttempt{}, err
		}
	} else if !errors.Is(err, ErrAttemptNotFound) {
		return TestAttempt{}, err
	}

	a := TestAttempt{
		ID:         uuid.NewString(),
		UserID:     userID,
		TestID:     testID,
		StartedAt:  s.now().Unix(),
		TotalMarks: t.TotalMarks,
	}
	if err := s.store.CreateAttempt(ctx, a); err != nil {
		return TestAttempt{}, err
	}
	s.log.Info("attempt started", zap.String("attempt_id", a.ID), zap.String("test_id", testID))
	return a, nil
}

// SubmitAnswer scores one answer immediately and upserts it keyed by
// (attempt, question). Submissions past the deadline finalize the attempt
// and are rejected.
func (s *Service) SubmitAnswer(ctx context.Context, userID, attemptID, questionID, raw string) (UserAnswer, error) {
	a, t, err := s.ownedAttempt(ctx, userID, attemptID)
	if err != nil {
		return UserAnswer{}, err
	}
	if a.Completed {
		return UserAnswer{}, ErrAlreadyCompleted
	}
	if dl := a.Deadline(t); !s.now().Before(dl) {
		if _, err := s.finalize(ctx, a, dl); err != nil {
			return UserAnswer{}, err
		}
		return UserAnswer{}, ErrTimeExpired
	}

	q, err := s.bank.GetQuestion(ctx, questionID)
	if err != nil {
		return UserAnswer{}, err
	}
	if q.TestID != a.TestID {
		return UserAnswer{}, testbank.ErrQuestionNotFound
	}
	resp, err := scoring.ParseResponse(q, raw)
	if err != nil {
		return UserAnswer{}, err
	}
	res := s.grader.Score(q, t.NegativeMarking, resp)
	return s.store.UpsertAnswer(ctx, UserAnswer{
		AttemptID:     a.ID,
		QuestionID:    q.ID,
		Answer:        resp.Raw(),
		IsCorrect:     res.IsCorrect,
		MarksObtained: res.Marks,
	})
}

// Complete finalizes the attempt. It is idempotent: a completed attempt is
// returned as-is, and the underlying conditional update guarantees a
// concurrent duplicate call cannot double-count.
func (s *Service) Complete(ctx context.Context, userID, attemptID string) (TestAttempt, error) {
	a, t, err := s.ownedAttempt(ctx, userID, attemptID)
	if err != nil {
		return TestAttempt{}, err
	}
	if a.Completed {
		return a, nil
	}
	end := s.now()
	if dl := a.Deadline(t); end.After(dl) {
		end = dl
	}
	return s.finalize(ctx, a, end)
}

// Get builds the report payload. A status check past the deadline finalizes
// the attempt first. Correctness flags and explanations are withheld while
// the attempt is still in progress.
func (s *Service) Get(ctx context.Context, userID, attemptID string) (Report, error) {
	a, t, err := s.ownedAttempt(ctx, userID, attemptID)
	if err != nil {
		return Report{}, err
	}
	if !a.Completed {
		if dl := a.Deadline(t); !s.now().Before(dl) {
			if a, err = s.finalize(ctx, a, dl); err != nil {
				return Report{}, err
			}
		}
	}

	qs, err := s.bank.GetQuestions(ctx, a.TestID)
	if err != nil {
		return Report{}, err
	}
	answers, err := s.store.ListAnswers(ctx, a.ID)
	if err != nil {
		return Report{}, err
	}
	byQ := make(map[string]UserAnswer, len(answers))
	for _, ua := range answers {
		byQ[ua.QuestionID] = ua
	}

	rep := Report{Attempt: a, Questions: make([]ReportQuestion, 0, len(qs))}
	for _, q := range qs {
		if !a.Completed {
			q = q.Sanitize()
		}
		rq := ReportQuestion{Question: q}
		if ua, ok := byQ[q.ID]; ok {
			ua := ua
			if !a.Completed {
				// no provisional correctness leaks before finalization
				ua.IsCorrect = false
				ua.MarksObtained = 0
			}
			rq.Answer = &ua
		}
		rep.Questions = append(rep.Questions, rq)
	}
	if !a.Completed {
		remaining := int64(a.Deadline(t).Sub(s.now()).Seconds())
		if remaining < 0 {
			remaining = 0
		}
		rep.RemainingSec = &remaining
	}
	return rep, nil
}

// ListForUser returns the caller's attempts, newest first.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]TestAttempt, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	return s.store.ListAttempts(ctx, userID)
}

func (s *Service) ownedAttempt(ctx context.Context, userID, attemptID string) (TestAttempt, testbank.Test, error) {
	if userID == "" {
		return TestAttempt{}, testbank.Test{}, ErrUnauthenticated
	}
	a, err := s.store.GetAttempt(ctx, attemptID)
	if err != nil {
		return TestAttempt{}, testbank.Test{}, err
	}
	if a.UserID != userID {
		return TestAttempt{}, testbank.Test{}, ErrForbidden
	}
	t, err := s.bank.GetTest(ctx, a.TestID)
	if err != nil {
		return TestAttempt{}, testbank.Test{}, fmt.Errorf("load test for attempt %s: %w", a.ID, err)
	}
	return a, t, nil
}

// finalize aggregates the already-scored answer rows and performs the
// conditional completed=false -> true update. The loser of a concurrent
// race just reads back the finalized row.
func (s *Service) finalize(ctx context.Context, a TestAttempt, end time.Time) (TestAttempt, error) {
	total, err := s.bank.CountQuestions(ctx, a.TestID)
	if err != nil {
		return TestAttempt{}, err
	}
	answers, err := s.store.ListAnswers(ctx, a.ID)
	if err != nil {
		return TestAttempt{}, err
	}
	rows := make([]scoring.AnswerRow, 0, len(answers))
	for _, ua := range answers {
		rows = append(rows, scoring.AnswerRow{Answer: ua.Answer, IsCorrect: ua.IsCorrect, Marks: ua.MarksObtained})
	}
	sum := scoring.Aggregate(total, a.TotalMarks, rows)

	won, err := s.store.FinalizeAttempt(ctx, a.ID, end.Unix(), sum)
	if err != nil {
		return TestAttempt{}, err
	}
	if won {
		s.log.Info("attempt finalized",
			zap.String("attempt_id", a.ID),
			zap.Float64("score", sum.Score),
			zap.Float64("percentage", sum.Percentage))
	}
	return s.store.GetAttempt(ctx, a.ID)
}
