package testbank

import (
	"context"
	"errors"
	"testing"
)

func validTest() (Test, []Question) {
	t := Test{ID: "t1", Title: "Algebra Mock 1", DurationMin: 30, TotalMarks: 10, NegativeMarking: 0.25, Active: true}
	qs := []Question{
		{ID: "q1", Type: SingleChoice, Text: "2+2?", Marks: 5, Options: []Option{
			{ID: "o1", Text: "3"}, {ID: "o2", Text: "4", IsCorrect: true},
		}},
		{ID: "q2", Type: FillBlank, Text: "Capital of France?", Marks: 3, Options: []Option{
			{ID: "o3", Text: "Paris"},
		}},
		{ID: "q3", Type: FreeText, Text: "Explain.", Marks: 2},
	}
	return t, qs
}

func TestValidateTest(t *testing.T) {
	base, qs := validTest()
	if err := ValidateTest(base, qs); err != nil {
		t.Fatalf("valid test rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Test, []Question)
	}{
		{"missing title", func(tt *Test, _ []Question) { tt.Title = "" }},
		{"zero duration", func(tt *Test, _ []Question) { tt.DurationMin = 0 }},
		{"negative penalty fraction", func(tt *Test, _ []Question) { tt.NegativeMarking = -0.25 }},
		{"zero marks", func(_ *Test, qs []Question) { qs[0].Marks = 0 }},
		{"single option single-choice", func(_ *Test, qs []Question) { qs[0].Options = qs[0].Options[:1] }},
		{"no correct option", func(_ *Test, qs []Question) { qs[0].Options[1].IsCorrect = false }},
		{"fill-blank without accepted answers", func(_ *Test, qs []Question) { qs[1].Options = nil }},
		{"free-text with options", func(_ *Test, qs []Question) { qs[2].Options = []Option{{ID: "ox", Text: "x"}} }},
		{"unknown question type", func(_ *Test, qs []Question) { qs[0].Type = "matrix" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tt, qs := validTest()
			tc.mutate(&tt, qs)
			if err := ValidateTest(tt, qs); !errors.Is(err, ErrInvalidTest) {
				t.Fatalf("want ErrInvalidTest, got %v", err)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	_, qs := validTest()

	sc := qs[0]
	sc.Explanation = "4 is the sum"
	got := sc.Sanitize()
	if got.Explanation != "" {
		t.Fatal("explanation must be stripped")
	}
	if len(got.Options) != 2 {
		t.Fatalf("single-choice keeps its options, got %d", len(got.Options))
	}
	for _, o := range got.Options {
		if o.IsCorrect {
			t.Fatal("correct flags must be stripped")
		}
	}
	// original untouched
	if !sc.Options[1].IsCorrect {
		t.Fatal("sanitize must not mutate the source question")
	}

	fb := qs[1].Sanitize()
	if fb.Options != nil {
		t.Fatal("fill-blank options are the answer key and must be dropped")
	}
}

func TestMemoryStoreRoundtrip(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	tt, qs := validTest()
	if err := store.PutTest(ctx, tt, qs); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.GetTest(ctx, "t1")
	if err != nil || got.Title != tt.Title {
		t.Fatalf("get test: %+v %v", got, err)
	}

	list, err := store.ListTests(ctx, ListOpts{ActiveOnly: true})
	if err != nil || len(list) != 1 {
		t.Fatalf("list active: %v %v", list, err)
	}

	qs2, err := store.GetQuestions(ctx, "t1")
	if err != nil || len(qs2) != 3 {
		t.Fatalf("questions: %v %v", qs2, err)
	}
	for i, q := range qs2 {
		if q.TestID != "t1" || q.Position != i+1 {
			t.Fatalf("question %d not normalized: %+v", i, q)
		}
	}
	// fill-blank accepted answers are implicitly correct
	for _, o := range qs2[1].Options {
		if !o.IsCorrect {
			t.Fatalf("fill-blank option not flagged correct: %+v", o)
		}
	}

	n, err := store.CountQuestions(ctx, "t1")
	if err != nil || n != 3 {
		t.Fatalf("count: %d %v", n, err)
	}

	if _, err := store.GetTest(ctx, "nope"); !errors.Is(err, ErrTestNotFound) {
		t.Fatalf("want ErrTestNotFound, got %v", err)
	}
	if _, err := store.GetQuestion(ctx, "nope"); !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("want ErrQuestionNotFound, got %v", err)
	}
}
