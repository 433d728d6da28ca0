package scoring

import (
	"strings"

	"github.com/ascentprep/ascentprep/internal/testbank"
)

// Result is the outcome of scoring a single answer at submission time.
type Result struct {
	Answered    bool
	IsCorrect   bool
	Marks       float64 // signed: negative when a penalty applies
	NeedsReview bool    // free-text answers await manual grading
}

// Strategy scores one question type.
type Strategy interface {
	Score(q testbank.Question, penalty float64, resp Response) Result
}

// Grader routes by question type to the correct Strategy. penalty is the
// test's negative-marking fraction, applied per wrong answer as
// penalty × question.Marks.
type Grader interface {
	Score(q testbank.Question, penalty float64, resp Response) Result
}

type defaultGrader struct {
	strategies map[testbank.QuestionType]Strategy
}

func (g *defaultGrader) Score(q testbank.Question, penalty float64, resp Response) Result {
	s, ok := g.strategies[q.Type]
	if !ok {
		return Result{Answered: resp.Kind != None, NeedsReview: true}
	}
	return s.Score(q, penalty, resp)
}

type Option func(*config)

type config struct {
	FoldBlanks bool // case-insensitive, trimmed fill-blank matching
}

// WithFoldedBlankMatch relaxes fill-blank matching to be case-insensitive
// and whitespace-trimmed. Default is exact, case-sensitive match.
func WithFoldedBlankMatch(b bool) Option { return func(c *config) { c.FoldBlanks = b } }

// NewDefaultGrader installs the built-in strategies.
func NewDefaultGrader(opts ...Option) Grader {
	cfg := &config{}
	for _, o := range opts {
		o(cfg)
	}
	return &defaultGrader{
		strategies: map[testbank.QuestionType]Strategy{
			testbank.SingleChoice: singleChoiceStrategy{},
			testbank.FillBlank:    fillBlankStrategy{fold: cfg.FoldBlanks},
			testbank.FreeText:     freeTextStrategy{},
		},
	}
}

// --- Strategies ---

type singleChoiceStrategy struct{}

func (singleChoiceStrategy) Score(q testbank.Question, penalty float64, resp Response) Result {
	if resp.Kind == None {
		return Result{}
	}
	res := Result{Answered: true}
	for _, id := range q.CorrectOptionIDs() {
		if resp.OptionID == id {
			res.IsCorrect = true
			res.Marks = q.Marks
			return res
		}
	}
	res.Marks = -penalty * q.Marks
	return res
}

type fillBlankStrategy struct{ fold bool }

func (s fillBlankStrategy) Score(q testbank.Question, penalty float64, resp Response) Result {
	if resp.Kind == None {
		return Result{}
	}
	res := Result{Answered: true}
	got := resp.Text
	if s.fold {
		got = strings.ToLower(strings.TrimSpace(got))
	}
	for _, o := range q.Options {
		if !o.IsCorrect {
			continue
		}
		want := o.Text
		if s.fold {
			want = strings.ToLower(strings.TrimSpace(want))
		}
		if got == want {
			res.IsCorrect = true
			res.Marks = q.Marks
			return res
		}
	}
	res.Marks = -penalty * q.Marks
	return res
}

type freeTextStrategy struct{}

// Free text is never auto-scored; it contributes 0 until a grader reviews it.
func (freeTextStrategy) Score(_ testbank.Question, _ float64, resp Response) Result {
	if resp.Kind == None {
		return Result{}
	}
	return Result{Answered: true, NeedsReview: true}
}
