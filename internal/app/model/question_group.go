package model

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuestionGroup 설문 섹션. QuestionIDs 순서가 곧 노출 순서
type QuestionGroup struct {
	ID                   string                      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name                 string                      `gorm:"type:varchar(150);not null" json:"name"`
	Description          string                      `gorm:"type:text" json:"description,omitempty"`
	QuestionIDs          datatypes.JSONSlice[string] `json:"questionIds"`
	MandatoryQuestionIDs datatypes.JSONSlice[string] `json:"mandatoryQuestionIds"`
	IsActive             bool                        `gorm:"not null;index" json:"isActive"`
	CreatedAt            time.Time                   `json:"createdAt"`
	UpdatedAt            time.Time                   `json:"updatedAt"`
	DeletedAt            gorm.DeletedAt              `gorm:"index" json:"-"`
}

func (QuestionGroup) TableName() string {
	return "question_groups"
}

func (g *QuestionGroup) BeforeCreate(tx *gorm.DB) error {
	ensureID(&g.ID)
	return nil
}

// Normalize trims the name and removes repeated ids, keeping first occurrences.
func (g *QuestionGroup) Normalize() {
	g.Name = strings.TrimSpace(g.Name)
	g.Description = strings.TrimSpace(g.Description)
	g.QuestionIDs = UniqueIDs(g.QuestionIDs)
	g.MandatoryQuestionIDs = UniqueIDs(g.MandatoryQuestionIDs)
}

// Validate requires a name and mandatory ids drawn from QuestionIDs.
func (g *QuestionGroup) Validate() error {
	if g.Name == "" {
		return invalid("name", "nama grup wajib diisi")
	}
	members := make(map[string]struct{}, len(g.QuestionIDs))
	for _, id := range g.QuestionIDs {
		members[id] = struct{}{}
	}
	for _, id := range g.MandatoryQuestionIDs {
		if _, ok := members[id]; !ok {
			return invalid("mandatoryQuestionIds", "pertanyaan wajib harus termasuk dalam grup: "+id)
		}
	}
	return nil
}

// PruneMandatory drops mandatory ids that are no longer group members.
func (g *QuestionGroup) PruneMandatory() {
	members := make(map[string]struct{}, len(g.QuestionIDs))
	for _, id := range g.QuestionIDs {
		members[id] = struct{}{}
	}
	kept := make(datatypes.JSONSlice[string], 0, len(g.MandatoryQuestionIDs))
	for _, id := range g.MandatoryQuestionIDs {
		if _, ok := members[id]; ok {
			kept = append(kept, id)
		}
	}
	g.MandatoryQuestionIDs = kept
}

func (g *QuestionGroup) IsMandatory(questionID string) bool {
	for _, id := range g.MandatoryQuestionIDs {
		if id == questionID {
			return true
		}
	}
	return false
}

// UniqueIDs returns ids without blanks or repeats, preserving first-seen order.
func UniqueIDs(ids []string) datatypes.JSONSlice[string] {
	seen := make(map[string]struct{}, len(ids))
	out := make(datatypes.JSONSlice[string], 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
