package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

const DefaultCategoryColor = "#6B7280"

// Category 질문 분류용 태그
type Category struct {
	ID          string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name        string         `gorm:"type:varchar(100);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	Color       string         `gorm:"type:varchar(20)" json:"color"`
	IsActive    bool           `gorm:"not null;index" json:"isActive"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Category) TableName() string {
	return "categories"
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// Normalize trims input and applies the default color.
func (c *Category) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Description = strings.TrimSpace(c.Description)
	c.Color = strings.TrimSpace(c.Color)
	if c.Color == "" {
		c.Color = DefaultCategoryColor
	}
}

func (c *Category) Validate() error {
	if c.Name == "" {
		return invalid("name", "nama kategori wajib diisi")
	}
	return nil
}
