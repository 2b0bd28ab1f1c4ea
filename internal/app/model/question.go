package model

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionType string

const (
	QuestionTypeText           QuestionType = "text"
	QuestionTypeRating         QuestionType = "rating"
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeChecklist      QuestionType = "checklist"
	QuestionTypeSlider         QuestionType = "slider"
)

// Numeric answer domains.
const (
	RatingMin = 1
	RatingMax = 5
	SliderMin = 1
	SliderMax = 10
)

const minChoiceOptions = 2

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeText, QuestionTypeRating, QuestionTypeMultipleChoice, QuestionTypeChecklist, QuestionTypeSlider:
		return true
	}
	return false
}

// HasOptions reports whether answers are picked from the question's options.
func (t QuestionType) HasOptions() bool {
	return t == QuestionTypeMultipleChoice || t == QuestionTypeChecklist
}

// ChecklistLimits bounds how many options a checklist answer may select.
type ChecklistLimits struct {
	MinSelections *int `json:"minSelections,omitempty"`
	MaxSelections *int `json:"maxSelections,omitempty"`
}

// Question 재사용 가능한 설문 문항
type Question struct {
	ID              string                      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Text            string                      `gorm:"type:text;not null" json:"text"`
	Type            QuestionType                `gorm:"type:varchar(20);not null;index" json:"type"`
	Options         datatypes.JSONSlice[string] `json:"options,omitempty"`
	ChecklistLimits *ChecklistLimits            `gorm:"serializer:json;type:text" json:"checklistLimits,omitempty"`
	CategoryID      string                      `gorm:"type:varchar(36);index" json:"categoryId"`
	ImageURL        string                      `json:"imageUrl,omitempty"`
	IsActive        bool                        `gorm:"not null;index" json:"isActive"`
	CreatedAt       time.Time                   `json:"createdAt"`
	UpdatedAt       time.Time                   `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt              `gorm:"index" json:"-"`
}

func (Question) TableName() string {
	return "questions"
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	ensureID(&q.ID)
	return nil
}

// Normalize trims text and options, drops empty or repeated options and clears
// fields that do not apply to the question type.
func (q *Question) Normalize() {
	q.Text = strings.TrimSpace(q.Text)
	q.CategoryID = strings.TrimSpace(q.CategoryID)

	if !q.Type.HasOptions() {
		q.Options = nil
		q.ChecklistLimits = nil
		return
	}

	seen := make(map[string]struct{}, len(q.Options))
	options := make(datatypes.JSONSlice[string], 0, len(q.Options))
	for _, opt := range q.Options {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}
		if _, dup := seen[opt]; dup {
			continue
		}
		seen[opt] = struct{}{}
		options = append(options, opt)
	}
	q.Options = options

	if q.Type != QuestionTypeChecklist {
		q.ChecklistLimits = nil
	} else if q.ChecklistLimits != nil && q.ChecklistLimits.MinSelections == nil && q.ChecklistLimits.MaxSelections == nil {
		q.ChecklistLimits = nil
	}
}

// Validate checks the question invariants. Call Normalize first.
func (q *Question) Validate() error {
	if q.Text == "" {
		return invalid("text", "teks pertanyaan wajib diisi")
	}
	if !q.Type.Valid() {
		return invalid("type", fmt.Sprintf("jenis pertanyaan tidak dikenal: %q", q.Type))
	}
	if q.Type.HasOptions() && len(q.Options) < minChoiceOptions {
		return invalid("options", "minimal 2 opsi yang tidak kosong")
	}
	if q.ChecklistLimits != nil {
		return q.ChecklistLimits.validate(len(q.Options))
	}
	return nil
}

func (l *ChecklistLimits) validate(optionCount int) error {
	if l.MinSelections != nil && (*l.MinSelections < 1 || *l.MinSelections > optionCount) {
		return invalid("checklistLimits.minSelections", fmt.Sprintf("harus antara 1 dan %d", optionCount))
	}
	if l.MaxSelections != nil && (*l.MaxSelections < 1 || *l.MaxSelections > optionCount) {
		return invalid("checklistLimits.maxSelections", fmt.Sprintf("harus antara 1 dan %d", optionCount))
	}
	if l.MinSelections != nil && l.MaxSelections != nil && *l.MinSelections > *l.MaxSelections {
		return invalid("checklistLimits", "minSelections tidak boleh lebih besar dari maxSelections")
	}
	return nil
}

// HasOption reports whether opt is one of the configured options.
func (q *Question) HasOption(opt string) bool {
	for _, o := range q.Options {
		if o == opt {
			return true
		}
	}
	return false
}
