package attempt

import (
	"context"
	"errors"

	"github.com/ascentprep/ascentprep/internal/scoring"
)

var (
	ErrAttemptNotFound  = errors.New("attempt not found")
	ErrForbidden        = errors.New("attempt belongs to another user")
	ErrAlreadyCompleted = errors.New("attempt already completed")
	ErrUnauthenticated  = errors.New("no authenticated user")
)

// Store persists attempts and their answer rows.
type Store interface {
	CreateAttempt(ctx context.Context, a TestAttempt) error
	GetAttempt(ctx context.Context, id string) (TestAttempt, error)
	// FindOpenAttempt returns the incomplete attempt for (userID, testID),
	// or ErrAttemptNotFound.
	FindOpenAttempt(ctx context.Context, userID, testID string) (TestAttempt, error)
	ListAttempts(ctx context.Context, userID string) ([]TestAttempt, error)

	UpsertAnswer(ctx context.Context, ans UserAnswer) (UserAnswer, error)
	ListAnswers(ctx context.Context, attemptID string) ([]UserAnswer, error)

	// FinalizeAttempt performs the atomic conditional update
	// (completed=false -> completed=true, aggregates set). It reports false
	// when another caller already finalized the row; only one caller ever
	// wins the race.
	FinalizeAttempt(ctx context.Context, id string, endedAt int64, sum scoring.Summary) (bool, error)
}
