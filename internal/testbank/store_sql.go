package testbank

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"
)

func placeholder(n int) string { return "$" + strconv.Itoa(n) }

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// PutTest replaces the test row and its whole question set in one
// transaction. Questions referenced by an in-progress attempt must not be
// edited; that discipline lives in the admin workflow, not here.
func (s *SQLStore) PutTest(ctx context.Context, t Test, questions []Question) error {
	if err := ValidateTest(t, questions); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	created := t.CreatedAt
	if created == 0 {
		created = time.Now().Unix()
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO tests
		(id,series_id,title,description,duration_min,total_marks,passing_marks,negative_marking,active,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET
		  series_id=EXCLUDED.series_id, title=EXCLUDED.title, description=EXCLUDED.description,
		  duration_min=EXCLUDED.duration_min, total_marks=EXCLUDED.total_marks,
		  passing_marks=EXCLUDED.passing_marks, negative_marking=EXCLUDED.negative_marking,
		  active=EXCLUDED.active`,
		t.ID, t.SeriesID, t.Title, t.Description, t.DurationMin,
		t.TotalMarks, t.PassingMarks, t.NegativeMarking, t.Active, created)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE test_id=$1`, t.ID); err != nil {
		return err
	}
	for i, q := range questions {
		pos := q.Position
		if pos == 0 {
			pos = i + 1
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO questions
			(id,test_id,position,qtype,text,marks,image_url) VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			q.ID, t.ID, pos, string(q.Type), q.Text, q.Marks, q.ImageURL)
		if err != nil {
			return err
		}
		for j, o := range q.Options {
			correct := o.IsCorrect
			if q.Type == FillBlank {
				// every listed fill-blank option is an accepted answer
				correct = true
			}
			_, err = tx.ExecContext(ctx, `INSERT INTO options
				(id,question_id,position,text,is_correct) VALUES ($1,$2,$3,$4,$5)`,
				o.ID, q.ID, j+1, o.Text, correct)
			if err != nil {
				return err
			}
		}
		if q.Explanation != "" {
			_, err = tx.ExecContext(ctx, `INSERT INTO explanations (question_id,body) VALUES ($1,$2)
				ON CONFLICT (question_id) DO UPDATE SET body=EXCLUDED.body`, q.ID, q.Explanation)
			if err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

func (s *SQLStore) GetTest(ctx context.Context, id string) (Test, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,series_id,title,description,duration_min,
		total_marks,passing_marks,negative_marking,active,created_at FROM tests WHERE id=$1`, id)
	var t Test
	err := row.Scan(&t.ID, &t.SeriesID, &t.Title, &t.Description, &t.DurationMin,
		&t.TotalMarks, &t.PassingMarks, &t.NegativeMarking, &t.Active, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Test{}, ErrTestNotFound
	}
	if err != nil {
		return Test{}, err
	}
	return t, nil
}

func (s *SQLStore) ListTests(ctx context.Context, opts ListOpts) ([]Test, error) {
	q := `SELECT id,series_id,title,description,duration_min,total_marks,passing_marks,
		negative_marking,active,created_at FROM tests WHERE 1=1`
	args := []any{}
	n := 0
	next := func() string {
		n++
		return placeholder(n)
	}
	if opts.ActiveOnly {
		q += ` AND active = TRUE`
	}
	if opts.SeriesID != "" {
		q += ` AND series_id = ` + next()
		args = append(args, opts.SeriesID)
	}
	q += ` ORDER BY created_at DESC`
	if opts.Limit > 0 {
		q += ` LIMIT ` + next()
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			q += ` OFFSET ` + next()
			args = append(args, opts.Offset)
		}
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Test
	for rows.Next() {
		var t Test
		if err := rows.Scan(&t.ID, &t.SeriesID, &t.Title, &t.Description, &t.DurationMin,
			&t.TotalMarks, &t.PassingMarks, &t.NegativeMarking, &t.Active, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetQuestions(ctx context.Context, testID string) ([]Question, error) {
	if _, err := s.GetTest(ctx, testID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT q.id,q.test_id,q.position,q.qtype,q.text,q.marks,q.image_url,
		COALESCE(e.body,'')
		FROM questions q LEFT JOIN explanations e ON e.question_id = q.id
		WHERE q.test_id=$1 ORDER BY q.position`, testID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var qs []Question
	byID := map[string]int{}
	for rows.Next() {
		var q Question
		var typ string
		if err := rows.Scan(&q.ID, &q.TestID, &q.Position, &typ, &q.Text, &q.Marks, &q.ImageURL, &q.Explanation); err != nil {
			return nil, err
		}
		q.Type = QuestionType(typ)
		byID[q.ID] = len(qs)
		qs = append(qs, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(qs) == 0 {
		return qs, nil
	}

	orows, err := s.db.QueryContext(ctx, `SELECT o.id,o.question_id,o.position,o.text,o.is_correct
		FROM options o JOIN questions q ON q.id = o.question_id
		WHERE q.test_id=$1 ORDER BY o.question_id, o.position`, testID)
	if err != nil {
		return nil, err
	}
	defer orows.Close()
	for orows.Next() {
		var o Option
		if err := orows.Scan(&o.ID, &o.QuestionID, &o.Position, &o.Text, &o.IsCorrect); err != nil {
			return nil, err
		}
		if i, ok := byID[o.QuestionID]; ok {
			qs[i].Options = append(qs[i].Options, o)
		}
	}
	return qs, orows.Err()
}

func (s *SQLStore) GetQuestion(ctx context.Context, id string) (Question, error) {
	row := s.db.QueryRowContext(ctx, `SELECT q.id,q.test_id,q.position,q.qtype,q.text,q.marks,q.image_url,
		COALESCE(e.body,'')
		FROM questions q LEFT JOIN explanations e ON e.question_id = q.id WHERE q.id=$1`, id)
	var q Question
	var typ string
	err := row.Scan(&q.ID, &q.TestID, &q.Position, &typ, &q.Text, &q.Marks, &q.ImageURL, &q.Explanation)
	if errors.Is(err, sql.ErrNoRows) {
		return Question{}, ErrQuestionNotFound
	}
	if err != nil {
		return Question{}, err
	}
	q.Type = QuestionType(typ)

	rows, err := s.db.QueryContext(ctx, `SELECT id,question_id,position,text,is_correct
		FROM options WHERE question_id=$1 ORDER BY position`, id)
	if err != nil {
		return Question{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var o Option
		if err := rows.Scan(&o.ID, &o.QuestionID, &o.Position, &o.Text, &o.IsCorrect); err != nil {
			return Question{}, err
		}
		q.Options = append(q.Options, o)
	}
	return q, rows.Err()
}

func (s *SQLStore) CountQuestions(ctx context.Context, testID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions WHERE test_id=$1`, testID).Scan(&n)
	return n, err
}
