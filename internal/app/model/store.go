package model

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Store 설문 대상 매장 (subject)
type Store struct {
	ID               string                      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name             string                      `gorm:"type:varchar(150);not null" json:"name"`
	Address          string                      `gorm:"type:text" json:"address"`
	City             string                      `gorm:"type:varchar(100);index" json:"city"`
	Region           string                      `gorm:"type:varchar(100);index" json:"region"`
	Area             string                      `gorm:"type:varchar(100);index" json:"area"`
	PhoneNumber      string                      `gorm:"type:varchar(30)" json:"phoneNumber,omitempty"`
	Email            string                      `gorm:"type:varchar(150)" json:"email,omitempty"`
	ContactPerson    string                      `gorm:"type:varchar(100)" json:"contactPerson,omitempty"`
	ImageURL         string                      `json:"imageUrl,omitempty"`
	CreatedBy        string                      `gorm:"type:varchar(36);not null;index" json:"createdBy"`
	Managers         datatypes.JSONSlice[string] `json:"managers"`
	QuestionGroupIDs datatypes.JSONSlice[string] `json:"questionGroupIds"`
	IsActive         bool                        `gorm:"not null;index" json:"isActive"`
	CreatedAt        time.Time                   `json:"createdAt"`
	UpdatedAt        time.Time                   `json:"updatedAt"`
	DeletedAt        gorm.DeletedAt              `gorm:"index" json:"-"`
}

func (Store) TableName() string {
	return "stores"
}

func (s *Store) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

func (s *Store) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Address = strings.TrimSpace(s.Address)
	s.City = strings.TrimSpace(s.City)
	s.Region = strings.TrimSpace(s.Region)
	s.Area = strings.TrimSpace(s.Area)
	s.Managers = UniqueIDs(s.Managers)
	s.QuestionGroupIDs = UniqueIDs(s.QuestionGroupIDs)
}

func (s *Store) Validate() error {
	if s.Name == "" {
		return invalid("name", "nama toko wajib diisi")
	}
	return nil
}

// IsManager reports membership in the effective manager set, which always
// contains the creator.
func (s *Store) IsManager(userID string) bool {
	if userID == "" {
		return false
	}
	if s.CreatedBy == userID {
		return true
	}
	for _, id := range s.Managers {
		if id == userID {
			return true
		}
	}
	return false
}

// EffectiveManagers is Managers with the creator guaranteed first.
func (s *Store) EffectiveManagers() []string {
	out := make([]string, 0, len(s.Managers)+1)
	if s.CreatedBy != "" {
		out = append(out, s.CreatedBy)
	}
	for _, id := range s.Managers {
		if id != s.CreatedBy {
			out = append(out, id)
		}
	}
	return out
}
