package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidAnswer = errors.New("invalid answer")

// AnswerValue is a typed answer. Exactly one variant exists per question type.
type AnswerValue interface {
	QuestionType() QuestionType
	// IsEmpty reports a missing answer: "" for text and choice, no selections for
	// checklist. Numbers are never empty, 0 included.
	IsEmpty() bool
	String() string
	isAnswerValue()
}

type TextAnswer string

type RatingAnswer int

type MultipleChoiceAnswer string

type ChecklistAnswer []string

type SliderAnswer int

func (TextAnswer) QuestionType() QuestionType           { return QuestionTypeText }
func (RatingAnswer) QuestionType() QuestionType         { return QuestionTypeRating }
func (MultipleChoiceAnswer) QuestionType() QuestionType { return QuestionTypeMultipleChoice }
func (ChecklistAnswer) QuestionType() QuestionType      { return QuestionTypeChecklist }
func (SliderAnswer) QuestionType() QuestionType         { return QuestionTypeSlider }

func (a TextAnswer) IsEmpty() bool           { return a == "" }
func (RatingAnswer) IsEmpty() bool           { return false }
func (a MultipleChoiceAnswer) IsEmpty() bool { return a == "" }
func (a ChecklistAnswer) IsEmpty() bool      { return len(a) == 0 }
func (SliderAnswer) IsEmpty() bool           { return false }

func (a TextAnswer) String() string           { return string(a) }
func (a RatingAnswer) String() string         { return strconv.Itoa(int(a)) }
func (a MultipleChoiceAnswer) String() string { return string(a) }
func (a ChecklistAnswer) String() string      { return strings.Join(a, ", ") }
func (a SliderAnswer) String() string         { return strconv.Itoa(int(a)) }

func (TextAnswer) isAnswerValue()           {}
func (RatingAnswer) isAnswerValue()         {}
func (MultipleChoiceAnswer) isAnswerValue() {}
func (ChecklistAnswer) isAnswerValue()      {}
func (SliderAnswer) isAnswerValue()         {}

// AnswerIsEmpty treats a nil answer as empty.
func AnswerIsEmpty(a AnswerValue) bool {
	return a == nil || a.IsEmpty()
}

// DecodeAnswer converts a raw JSON answer into the variant of question type t.
// Absent or null input yields a nil answer. Numbers may arrive as strings and a
// checklist as a single string. Rating and slider values must be whole numbers.
func DecodeAnswer(t QuestionType, raw json.RawMessage) (AnswerValue, error) {
	return decodeAnswer(t, raw, false)
}

// DecodeStoredAnswer is DecodeAnswer for documents already persisted: fractional
// rating and slider values are rounded instead of rejected.
func DecodeStoredAnswer(t QuestionType, raw json.RawMessage) (AnswerValue, error) {
	return decodeAnswer(t, raw, true)
}

func decodeAnswer(t QuestionType, raw json.RawMessage, roundNumbers bool) (AnswerValue, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	switch t {
	case QuestionTypeText:
		s, err := decodeString(raw)
		if err != nil {
			return nil, err
		}
		return TextAnswer(s), nil
	case QuestionTypeMultipleChoice:
		s, err := decodeString(raw)
		if err != nil {
			return nil, err
		}
		return MultipleChoiceAnswer(s), nil
	case QuestionTypeRating:
		n, err := decodeInt(raw, roundNumbers)
		if err != nil {
			return nil, err
		}
		return RatingAnswer(n), nil
	case QuestionTypeSlider:
		n, err := decodeInt(raw, roundNumbers)
		if err != nil {
			return nil, err
		}
		return SliderAnswer(n), nil
	case QuestionTypeChecklist:
		var list []string
		if err := json.Unmarshal(raw, &list); err == nil {
			return ChecklistAnswer(list), nil
		}
		var single string
		if err := json.Unmarshal(raw, &single); err == nil {
			if single == "" {
				return ChecklistAnswer{}, nil
			}
			return ChecklistAnswer{single}, nil
		}
		return nil, fmt.Errorf("%w: checklist expects a list of strings", ErrInvalidAnswer)
	default:
		return nil, fmt.Errorf("%w: unknown question type %q", ErrInvalidAnswer, t)
	}
}

func decodeString(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	}
	return "", fmt.Errorf("%w: expected a string", ErrInvalidAnswer)
}

func decodeInt(raw json.RawMessage, round bool) (int, error) {
	f, err := decodeNumber(raw)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		if !round {
			return 0, fmt.Errorf("%w: expected a whole number, got %v", ErrInvalidAnswer, f)
		}
		f = math.Round(f)
	}
	return int(f), nil
}

func decodeNumber(raw json.RawMessage) (float64, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: expected a number", ErrInvalidAnswer)
}
