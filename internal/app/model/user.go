package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleStaff      Role = "staff"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleStaff:
		return true
	}
	return false
}

type SurveyPermissions struct {
	View   bool `json:"view"`
	Export bool `json:"export"`
}

type QuestionPermissions struct {
	Questions  bool `json:"questions"`
	Categories bool `json:"categories"`
	Groups     bool `json:"groups"`
}

// Permissions is the per-feature grant set of non super_admin users.
type Permissions struct {
	Subject   bool                `json:"subject"` // 매장(subject) 생성
	Survey    SurveyPermissions   `json:"survey"`
	Questions QuestionPermissions `json:"questions"`
}

// User 대시보드 계정
type User struct {
	ID           string                          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Username     string                          `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	PasswordHash string                          `gorm:"not null" json:"-"`
	DisplayName  string                          `gorm:"type:varchar(100)" json:"displayName"`
	Role         Role                            `gorm:"type:varchar(20);not null;index" json:"role"`
	Permissions  datatypes.JSONType[Permissions] `json:"permissions"`
	IsActive     bool                            `gorm:"not null" json:"isActive"`
	LastLoginAt  *time.Time                      `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time                       `json:"createdAt"`
	UpdatedAt    time.Time                       `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

func (u *User) IsSuperAdmin() bool {
	return u != nil && u.Role == RoleSuperAdmin
}

func (u *User) grants() Permissions {
	if u == nil {
		return Permissions{}
	}
	return u.Permissions.Data()
}

func (u *User) CanCreateStore() bool {
	return u.IsSuperAdmin() || u.grants().Subject
}

func (u *User) CanViewSurveys() bool {
	return u.IsSuperAdmin() || u.grants().Survey.View
}

func (u *User) CanExportSurveys() bool {
	return u.IsSuperAdmin() || u.grants().Survey.Export
}

func (u *User) CanManageQuestions() bool {
	return u.IsSuperAdmin() || u.grants().Questions.Questions
}

func (u *User) CanManageCategories() bool {
	return u.IsSuperAdmin() || u.grants().Questions.Categories
}

func (u *User) CanManageGroups() bool {
	return u.IsSuperAdmin() || u.grants().Questions.Groups
}

// CanManageUsers 계정 관리는 super_admin 전용
func (u *User) CanManageUsers() bool {
	return u.IsSuperAdmin()
}
