package attempt

import (
	"time"

	"github.com/ascentprep/ascentprep/internal/testbank"
)

// TestAttempt is one user's timed run through a test. Aggregate fields stay
// nil until the attempt is finalized, and are written exactly once.
type TestAttempt struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	TestID     string `json:"test_id"`
	StartedAt  int64  `json:"started_at"`
	EndedAt    *int64 `json:"ended_at,omitempty"`
	Completed  bool   `json:"completed"`
	TotalMarks float64 `json:"total_marks"`

	Score           *float64 `json:"score,omitempty"`
	CorrectCount    *int     `json:"correct_count,omitempty"`
	IncorrectCount  *int     `json:"incorrect_count,omitempty"`
	UnansweredCount *int     `json:"unanswered_count,omitempty"`
	Percentage      *float64 `json:"percentage,omitempty"`
}

// Deadline is the authoritative cut-off, derived from the stored start
// timestamp and the test duration. Client countdowns are advisory only.
func (a TestAttempt) Deadline(t testbank.Test) time.Time {
	return time.Unix(a.StartedAt, 0).Add(t.Duration())
}

// UserAnswer is one scored answer row, keyed by (attempt, question) with
// last-write-wins upsert semantics.
type UserAnswer struct {
	ID            string  `json:"id"`
	AttemptID     string  `json:"attempt_id"`
	QuestionID    string  `json:"question_id"`
	Answer        string  `json:"answer"`
	IsCorrect     bool    `json:"is_correct"`
	MarksObtained float64 `json:"marks_obtained"`
}

// ReportQuestion pairs a question with the caller's answer for the report
// view.
type ReportQuestion struct {
	testbank.Question
	Answer *UserAnswer `json:"answer,omitempty"`
}

// Report is the full payload behind GET /test-attempts/{id}. RemainingSec
// is present only while the attempt is in progress; clients may render a
// countdown from it but the server-side deadline stays authoritative.
type Report struct {
	Attempt      TestAttempt      `json:"test_attempt"`
	Questions    []ReportQuestion `json:"questions"`
	RemainingSec *int64           `json:"remaining_sec,omitempty"`
}
