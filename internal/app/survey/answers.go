package survey

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ikkim/survei-backend/internal/app/model"
)

// InvalidAnswerError names the question whose answer is outside its domain.
type InvalidAnswerError struct {
	QuestionID   string
	QuestionText string
	Reason       string
}

func (e *InvalidAnswerError) Error() string {
	return fmt.Sprintf("invalid answer for %q: %s", e.QuestionText, e.Reason)
}

func (e *InvalidAnswerError) Unwrap() error {
	return model.ErrInvalidAnswer
}

// DecodeAnswers turns raw submitted answers into typed answers of the walk's
// questions. Ids outside the walk are ignored and an empty string counts as no
// answer. Questions are checked in walk
// order so the first reported error is stable.
func DecodeAnswers(walk Walk, raw map[string]json.RawMessage) (map[string]model.AnswerValue, error) {
	answers := make(map[string]model.AnswerValue, len(raw))
	for _, s := range walk {
		for _, q := range s.Questions {
			if _, done := answers[q.ID]; done {
				continue
			}
			data, ok := raw[q.ID]
			if !ok || string(bytes.TrimSpace(data)) == `""` {
				continue
			}
			a, err := model.DecodeAnswer(q.Type, data)
			if err != nil {
				return nil, &InvalidAnswerError{QuestionID: q.ID, QuestionText: q.Text, Reason: err.Error()}
			}
			a = normalizeAnswer(a)
			if err := ValidateAnswer(q, a); err != nil {
				return nil, err
			}
			if a != nil {
				answers[q.ID] = a
			}
		}
	}
	return answers, nil
}

func normalizeAnswer(a model.AnswerValue) model.AnswerValue {
	switch v := a.(type) {
	case model.TextAnswer:
		return model.TextAnswer(strings.TrimSpace(string(v)))
	case model.MultipleChoiceAnswer:
		return model.MultipleChoiceAnswer(strings.TrimSpace(string(v)))
	case model.ChecklistAnswer:
		seen := make(map[string]struct{}, len(v))
		out := make(model.ChecklistAnswer, 0, len(v))
		for _, opt := range v {
			opt = strings.TrimSpace(opt)
			if _, dup := seen[opt]; dup || opt == "" {
				continue
			}
			seen[opt] = struct{}{}
			out = append(out, opt)
		}
		return out
	}
	return a
}

// ValidateAnswer checks a typed answer against the question's domain. Empty
// answers pass; whether they are allowed is a mandatory-question concern.
func ValidateAnswer(q model.Question, a model.AnswerValue) error {
	if model.AnswerIsEmpty(a) {
		return nil
	}
	fail := func(format string, args ...interface{}) error {
		return &InvalidAnswerError{QuestionID: q.ID, QuestionText: q.Text, Reason: fmt.Sprintf(format, args...)}
	}
	if a.QuestionType() != q.Type {
		return fail("expected %s answer, got %s", q.Type, a.QuestionType())
	}

	switch v := a.(type) {
	case model.RatingAnswer:
		if v < model.RatingMin || v > model.RatingMax {
			return fail("rating must be between %d and %d", model.RatingMin, model.RatingMax)
		}
	case model.SliderAnswer:
		if v < model.SliderMin || v > model.SliderMax {
			return fail("slider value must be between %d and %d", model.SliderMin, model.SliderMax)
		}
	case model.MultipleChoiceAnswer:
		if !q.HasOption(string(v)) {
			return fail("%q is not an option", string(v))
		}
	case model.ChecklistAnswer:
		for _, opt := range v {
			if !q.HasOption(opt) {
				return fail("%q is not an option", opt)
			}
		}
		if l := q.ChecklistLimits; l != nil {
			if l.MinSelections != nil && len(v) < *l.MinSelections {
				return fail("select at least %d options", *l.MinSelections)
			}
			if l.MaxSelections != nil && len(v) > *l.MaxSelections {
				return fail("select at most %d options", *l.MaxSelections)
			}
		}
	}
	return nil
}
