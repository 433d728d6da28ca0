package scoring

// AnswerRow is the already-scored view of one stored answer, the input to
// the completion-time fold.
type AnswerRow struct {
	Answer    string
	IsCorrect bool
	Marks     float64
}

// Summary holds the aggregate fields written onto a finalized attempt.
type Summary struct {
	Score      float64 `json:"score"`
	Correct    int     `json:"correct_count"`
	Incorrect  int     `json:"incorrect_count"`
	Unanswered int     `json:"unanswered_count"`
	Percentage float64 `json:"percentage"`
}

// Aggregate folds the stored per-answer results into the attempt totals.
// It is pure and deterministic: calling it twice over the same rows yields
// identical summaries, which is what makes completion idempotent.
//
// A row with an empty answer string counts as unanswered, never incorrect,
// regardless of the negative-marking configuration. The percentage is
// floored at 0 when penalties drive the score negative.
func Aggregate(totalQuestions int, totalMarks float64, rows []AnswerRow) Summary {
	var sum Summary
	for _, r := range rows {
		if r.Answer == "" {
			continue
		}
		sum.Score += r.Marks
		if r.IsCorrect {
			sum.Correct++
		} else {
			sum.Incorrect++
		}
	}
	sum.Unanswered = totalQuestions - sum.Correct - sum.Incorrect
	if sum.Unanswered < 0 {
		sum.Unanswered = 0
	}
	if totalMarks > 0 {
		sum.Percentage = 100 * sum.Score / totalMarks
	}
	if sum.Percentage < 0 {
		sum.Percentage = 0
	}
	return sum
}
