package scoring

import (
	"errors"
	"testing"

	"github.com/ascentprep/ascentprep/internal/testbank"
)

func singleChoiceQ(marks float64) testbank.Question {
	return testbank.Question{
		ID:    "q1",
		Type:  testbank.SingleChoice,
		Marks: marks,
		Options: []testbank.Option{
			{ID: "opt-a", Text: "A"},
			{ID: "opt-b", Text: "B", IsCorrect: true},
			{ID: "opt-c", Text: "C"},
		},
	}
}

func fillBlankQ(marks float64, accepted ...string) testbank.Question {
	q := testbank.Question{ID: "q2", Type: testbank.FillBlank, Marks: marks}
	for i, a := range accepted {
		q.Options = append(q.Options, testbank.Option{ID: string(rune('a' + i)), Text: a, IsCorrect: true})
	}
	return q
}

func TestScoreSingleChoice(t *testing.T) {
	g := NewDefaultGrader()
	tests := []struct {
		name      string
		penalty   float64
		answer    string
		answered  bool
		isCorrect bool
		marks     float64
	}{
		{name: "correct", penalty: 0.25, answer: "opt-b", answered: true, isCorrect: true, marks: 4},
		{name: "wrong with penalty", penalty: 0.25, answer: "opt-a", answered: true, isCorrect: false, marks: -1},
		{name: "wrong without penalty", penalty: 0, answer: "opt-c", answered: true, isCorrect: false, marks: 0},
		{name: "unanswered never penalized", penalty: 0.25, answer: "", answered: false, isCorrect: false, marks: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := singleChoiceQ(4)
			resp, err := ParseResponse(q, tc.answer)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			res := g.Score(q, tc.penalty, resp)
			if res.Answered != tc.answered || res.IsCorrect != tc.isCorrect || res.Marks != tc.marks {
				t.Fatalf("got answered=%v correct=%v marks=%v, want %v/%v/%v",
					res.Answered, res.IsCorrect, res.Marks, tc.answered, tc.isCorrect, tc.marks)
			}
		})
	}
}

func TestScoreFillBlank(t *testing.T) {
	q := fillBlankQ(2, "Paris", "paris ")

	g := NewDefaultGrader()
	tests := []struct {
		name      string
		answer    string
		isCorrect bool
		marks     float64
	}{
		{name: "exact match", answer: "Paris", isCorrect: true, marks: 2},
		{name: "second accepted literal", answer: "paris ", isCorrect: true, marks: 2},
		{name: "case matters", answer: "PARIS", isCorrect: false, marks: -1},
		{name: "trailing space matters", answer: "Paris ", isCorrect: false, marks: -1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := ParseResponse(q, tc.answer)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			res := g.Score(q, 0.5, resp)
			if res.IsCorrect != tc.isCorrect || res.Marks != tc.marks {
				t.Fatalf("got correct=%v marks=%v, want %v/%v", res.IsCorrect, res.Marks, tc.isCorrect, tc.marks)
			}
		})
	}

	t.Run("folded matching option", func(t *testing.T) {
		folded := NewDefaultGrader(WithFoldedBlankMatch(true))
		resp, _ := ParseResponse(q, "  PARIS ")
		res := folded.Score(q, 0.5, resp)
		if !res.IsCorrect || res.Marks != 2 {
			t.Fatalf("folded match: got correct=%v marks=%v", res.IsCorrect, res.Marks)
		}
	})
}

func TestScoreFreeText(t *testing.T) {
	q := testbank.Question{ID: "q3", Type: testbank.FreeText, Marks: 10}
	g := NewDefaultGrader()

	resp, err := ParseResponse(q, "my essay answer")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	res := g.Score(q, 0.5, resp)
	if res.IsCorrect || res.Marks != 0 || !res.NeedsReview || !res.Answered {
		t.Fatalf("free text must await manual grading, got %+v", res)
	}

	empty, _ := ParseResponse(q, "")
	res = g.Score(q, 0.5, empty)
	if res.Answered || res.Marks != 0 {
		t.Fatalf("empty free text is unanswered, got %+v", res)
	}
}

func TestParseResponseValidation(t *testing.T) {
	q := singleChoiceQ(1)

	if _, err := ParseResponse(q, "not-an-option"); !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown option id must fail validation, got %v", err)
	}
	if resp, err := ParseResponse(q, ""); err != nil || resp.Kind != None {
		t.Fatalf("empty answer parses to None, got %+v %v", resp, err)
	}
	if resp, err := ParseResponse(q, "opt-a"); err != nil || resp.OptionID != "opt-a" {
		t.Fatalf("valid option id, got %+v %v", resp, err)
	}

	bad := testbank.Question{ID: "qx", Type: testbank.QuestionType("matrix"), Marks: 1}
	if _, err := ParseResponse(bad, "x"); !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown question type must fail validation, got %v", err)
	}
}
