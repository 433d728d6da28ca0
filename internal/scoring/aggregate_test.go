package scoring

import "testing"

func TestAggregateScenarios(t *testing.T) {
	// Two 5-mark single-choice questions, negative marking f=0.5,
	// totalMarks=10.
	tests := []struct {
		name string
		rows []AnswerRow
		want Summary
	}{
		{
			name: "one correct one blank",
			rows: []AnswerRow{
				{Answer: "opt-1", IsCorrect: true, Marks: 5},
			},
			want: Summary{Score: 5, Correct: 1, Incorrect: 0, Unanswered: 1, Percentage: 50},
		},
		{
			name: "one correct one wrong",
			rows: []AnswerRow{
				{Answer: "opt-1", IsCorrect: true, Marks: 5},
				{Answer: "opt-9", IsCorrect: false, Marks: -2.5},
			},
			want: Summary{Score: 2.5, Correct: 1, Incorrect: 1, Unanswered: 0, Percentage: 25},
		},
		{
			name: "no answers at all",
			rows: nil,
			want: Summary{Score: 0, Correct: 0, Incorrect: 0, Unanswered: 2, Percentage: 0},
		},
		{
			name: "empty answer row counts as unanswered",
			rows: []AnswerRow{
				{Answer: "", IsCorrect: false, Marks: 0},
				{Answer: "opt-1", IsCorrect: true, Marks: 5},
			},
			want: Summary{Score: 5, Correct: 1, Incorrect: 0, Unanswered: 1, Percentage: 50},
		},
		{
			name: "percentage floored at zero",
			rows: []AnswerRow{
				{Answer: "opt-9", IsCorrect: false, Marks: -2.5},
				{Answer: "opt-8", IsCorrect: false, Marks: -2.5},
			},
			want: Summary{Score: -5, Correct: 0, Incorrect: 2, Unanswered: 0, Percentage: 0},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Aggregate(2, 10, tc.rows)
			if got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
			if got.Correct+got.Incorrect+got.Unanswered != 2 {
				t.Fatalf("counts must sum to total questions, got %+v", got)
			}
		})
	}
}

func TestAggregateDeterministic(t *testing.T) {
	rows := []AnswerRow{
		{Answer: "a", IsCorrect: true, Marks: 4},
		{Answer: "b", IsCorrect: false, Marks: -1},
		{Answer: "", Marks: 0},
	}
	first := Aggregate(5, 20, rows)
	second := Aggregate(5, 20, rows)
	if first != second {
		t.Fatalf("aggregate not deterministic: %+v vs %+v", first, second)
	}
}

func TestAggregateZeroTotalMarks(t *testing.T) {
	got := Aggregate(1, 0, []AnswerRow{{Answer: "a", IsCorrect: true, Marks: 1}})
	if got.Percentage != 0 {
		t.Fatalf("zero total marks must not divide, got %+v", got)
	}
}
