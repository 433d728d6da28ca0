package attempt

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/ascentprep/ascentprep/internal/scoring"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

const attemptCols = `id,user_id,test_id,started_at,ended_at,completed,total_marks,
	score,correct_count,incorrect_count,unanswered_count,percentage`

func scanAttempt(row interface{ Scan(...any) error }) (TestAttempt, error) {
	var a TestAttempt
	err := row.Scan(&a.ID, &a.UserID, &a.TestID, &a.StartedAt, &a.EndedAt, &a.Completed,
		&a.TotalMarks, &a.Score, &a.CorrectCount, &a.IncorrectCount, &a.UnansweredCount, &a.Percentage)
	return a, err
}

func (s *SQLStore) CreateAttempt(ctx context.Context, a TestAttempt) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO test_attempts
		(id,user_id,test_id,started_at,completed,total_marks) VALUES ($1,$2,$3,$4,FALSE,$5)`,
		a.ID, a.UserID, a.TestID, a.StartedAt, a.TotalMarks)
	return err
}

func (s *SQLStore) GetAttempt(ctx context.Context, id string) (TestAttempt, error) {
	a, err := scanAttempt(s.db.QueryRowContext(ctx,
		`SELECT `+attemptCols+` FROM test_attempts WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return TestAttempt{}, ErrAttemptNotFound
	}
	return a, err
}

func (s *SQLStore) FindOpenAttempt(ctx context.Context, userID, testID string) (TestAttempt, error) {
	a, err := scanAttempt(s.db.QueryRowContext(ctx,
		`SELECT `+attemptCols+` FROM test_attempts
		 WHERE user_id=$1 AND test_id=$2 AND completed = FALSE
		 ORDER BY started_at DESC LIMIT 1`, userID, testID))
	if errors.Is(err, sql.ErrNoRows) {
		return TestAttempt{}, ErrAttemptNotFound
	}
	return a, err
}

func (s *SQLStore) ListAttempts(ctx context.Context, userID string) ([]TestAttempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+attemptCols+` FROM test_attempts WHERE user_id=$1 ORDER BY started_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TestAttempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) UpsertAnswer(ctx context.Context, ans UserAnswer) (UserAnswer, error) {
	if ans.ID == "" {
		ans.ID = uuid.NewString()
	}
	// last write wins per (attempt, question); the original row id is kept
	_, err := s.db.ExecContext(ctx, `INSERT INTO user_answers
		(id,attempt_id,question_id,answer,is_correct,marks_obtained)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (attempt_id,question_id) DO UPDATE SET
		  answer=EXCLUDED.answer, is_correct=EXCLUDED.is_correct, marks_obtained=EXCLUDED.marks_obtained`,
		ans.ID, ans.AttemptID, ans.QuestionID, ans.Answer, ans.IsCorrect, ans.MarksObtained)
	if err != nil {
		return UserAnswer{}, err
	}
	row := s.db.QueryRowContext(ctx, `SELECT id,attempt_id,question_id,answer,is_correct,marks_obtained
		FROM user_answers WHERE attempt_id=$1 AND question_id=$2`, ans.AttemptID, ans.QuestionID)
	var out UserAnswer
	if err := row.Scan(&out.ID, &out.AttemptID, &out.QuestionID, &out.Answer, &out.IsCorrect, &out.MarksObtained); err != nil {
		return UserAnswer{}, err
	}
	return out, nil
}

func (s *SQLStore) ListAnswers(ctx context.Context, attemptID string) ([]UserAnswer, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,attempt_id,question_id,answer,is_correct,marks_obtained
		FROM user_answers WHERE attempt_id=$1`, attemptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []UserAnswer
	for rows.Next() {
		var ua UserAnswer
		if err := rows.Scan(&ua.ID, &ua.AttemptID, &ua.QuestionID, &ua.Answer, &ua.IsCorrect, &ua.MarksObtained); err != nil {
			return nil, err
		}
		out = append(out, ua)
	}
	return out, rows.Err()
}

func (s *SQLStore) FinalizeAttempt(ctx context.Context, id string, endedAt int64, sum scoring.Summary) (bool, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE test_attempts SET
		ended_at=$1, completed=TRUE, score=$2, correct_count=$3, incorrect_count=$4,
		unanswered_count=$5, percentage=$6
		WHERE id=$7 AND completed = FALSE`,
		endedAt, sum.Score, sum.Correct, sum.Incorrect, sum.Unanswered, sum.Percentage, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
