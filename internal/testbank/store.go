package testbank

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrTestNotFound     = errors.New("test not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrInvalidTest      = errors.New("invalid test definition")
)

type ListOpts struct {
	SeriesID   string
	ActiveOnly bool
	Limit      int
	Offset     int
}

// Store is the read side consumed by the attempt lifecycle plus the admin
// write path (PutTest replaces a test and its question set wholesale).
type Store interface {
	PutTest(ctx context.Context, t Test, questions []Question) error
	GetTest(ctx context.Context, id string) (Test, error)
	ListTests(ctx context.Context, opts ListOpts) ([]Test, error)

	// GetQuestions returns the full question set, answer keys included.
	// Callers serving candidates must Sanitize before encoding.
	GetQuestions(ctx context.Context, testID string) ([]Question, error)
	GetQuestion(ctx context.Context, id string) (Question, error)
	CountQuestions(ctx context.Context, testID string) (int, error)
}

// ValidateTest checks the structural invariants of a test's question set
// before it is persisted.
func ValidateTest(t Test, questions []Question) error {
	if t.ID == "" || t.Title == "" {
		return fmt.Errorf("%w: id and title required", ErrInvalidTest)
	}
	if t.DurationMin <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidTest)
	}
	if t.NegativeMarking < 0 {
		return fmt.Errorf("%w: negative-marking fraction must be >= 0", ErrInvalidTest)
	}
	for _, q := range questions {
		if q.Marks <= 0 {
			return fmt.Errorf("%w: question %s: marks must be positive", ErrInvalidTest, q.ID)
		}
		switch q.Type {
		case SingleChoice:
			if len(q.Options) < 2 {
				return fmt.Errorf("%w: question %s: single-choice needs at least 2 options", ErrInvalidTest, q.ID)
			}
			if len(q.CorrectOptionIDs()) == 0 {
				return fmt.Errorf("%w: question %s: no option marked correct", ErrInvalidTest, q.ID)
			}
		case FillBlank:
			if len(q.Options) < 1 {
				return fmt.Errorf("%w: question %s: fill-blank needs at least 1 accepted answer", ErrInvalidTest, q.ID)
			}
		case FreeText:
			if len(q.Options) != 0 {
				return fmt.Errorf("%w: question %s: free-text takes no options", ErrInvalidTest, q.ID)
			}
		default:
			return fmt.Errorf("%w: question %s: unknown type %q", ErrInvalidTest, q.ID, q.Type)
		}
	}
	return nil
}
