package testbank

import "time"

type QuestionType string

const (
	SingleChoice QuestionType = "single_choice"
	FillBlank    QuestionType = "fill_blank"
	FreeText     QuestionType = "free_text"
)

type Option struct {
	ID         string `json:"id"`
	QuestionID string `json:"question_id,omitempty"`
	Position   int    `json:"position,omitempty"`
	Text       string `json:"text"`
	IsCorrect  bool   `json:"is_correct,omitempty"`
}

type Question struct {
	ID       string       `json:"id"`
	TestID   string       `json:"test_id"`
	Position int          `json:"position,omitempty"`
	Type     QuestionType `json:"type"`
	Text     string       `json:"text"`
	Marks    float64      `json:"marks"`
	ImageURL string       `json:"image_url,omitempty"`

	Options     []Option `json:"options,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
}

// Sanitize strips correctness flags and the explanation so a question can be
// served to a candidate mid-attempt. Fill-blank options are dropped
// entirely: every option text there is an accepted answer.
func (q Question) Sanitize() Question {
	q.Explanation = ""
	if q.Type == FillBlank {
		q.Options = nil
		return q
	}
	opts := make([]Option, len(q.Options))
	copy(opts, q.Options)
	for i := range opts {
		opts[i].IsCorrect = false
	}
	q.Options = opts
	return q
}

// CorrectOptionIDs returns the ids of options flagged correct.
func (q Question) CorrectOptionIDs() []string {
	var ids []string
	for _, o := range q.Options {
		if o.IsCorrect {
			ids = append(ids, o.ID)
		}
	}
	return ids
}

type Test struct {
	ID              string  `json:"id"`
	SeriesID        string  `json:"series_id,omitempty"`
	Title           string  `json:"title"`
	Description     string  `json:"description,omitempty"`
	DurationMin     int     `json:"duration_min"`
	TotalMarks      float64 `json:"total_marks"`
	PassingMarks    float64 `json:"passing_marks"`
	NegativeMarking float64 `json:"negative_marking"`
	Active          bool    `json:"active"`
	CreatedAt       int64   `json:"created_at,omitempty"`
}

// Duration is the attempt time limit.
func (t Test) Duration() time.Duration {
	return time.Duration(t.DurationMin) * time.Minute
}
