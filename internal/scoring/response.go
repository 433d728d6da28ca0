package scoring

import (
	"errors"
	"fmt"

	"github.com/ascentprep/ascentprep/internal/testbank"
)

var ErrValidation = errors.New("invalid answer payload")

type ResponseKind int

const (
	// None means no answer was submitted; it must never incur a penalty.
	None ResponseKind = iota
	OptionChoice
	FreeText
)

// Response is the typed form of the wire-level answer string. The raw field
// is interpreted against the question's type exactly once, here, so the rest
// of the pipeline never re-guesses what the string means.
type Response struct {
	Kind     ResponseKind
	OptionID string
	Text     string
}

// ParseResponse validates a raw submission against the question type and
// returns the tagged variant. An empty submission parses to None for every
// type.
func ParseResponse(q testbank.Question, raw string) (Response, error) {
	if raw == "" {
		return Response{Kind: None}, nil
	}
	switch q.Type {
	case testbank.SingleChoice:
		for _, o := range q.Options {
			if o.ID == raw {
				return Response{Kind: OptionChoice, OptionID: raw}, nil
			}
		}
		return Response{}, fmt.Errorf("%w: %q is not an option of question %s", ErrValidation, raw, q.ID)
	case testbank.FillBlank, testbank.FreeText:
		return Response{Kind: FreeText, Text: raw}, nil
	default:
		return Response{}, fmt.Errorf("%w: unknown question type %q", ErrValidation, q.Type)
	}
}

// Raw converts a Response back to the persisted answer string.
func (r Response) Raw() string {
	switch r.Kind {
	case OptionChoice:
		return r.OptionID
	case FreeText:
		return r.Text
	default:
		return ""
	}
}
