package service

import (
	"errors"

	"github.com/ikkim/survei-backend/internal/app/model"
	"github.com/ikkim/survei-backend/internal/app/repository"
	"github.com/ikkim/survei-backend/pkg/logger"
	"github.com/ikkim/survei-backend/pkg/util"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CreateUserInput struct {
	Username    string
	DisplayName string
	Password    string
	Role        model.Role
	Permissions model.Permissions
}

// UpdateUserInput changes only the non-nil fields.
type UpdateUserInput struct {
	DisplayName *string
	Role        *model.Role
	Permissions *model.Permissions
	IsActive    *bool
	Password    *string
}

type UserService interface {
	ListUsers(actor *model.User) ([]model.User, error)
	GetUser(actor *model.User, id string) (*model.User, error)
	CreateUser(actor *model.User, input CreateUserInput) (*model.User, error)
	UpdateUser(actor *model.User, id string, input UpdateUserInput) (*model.User, error)
	DeleteUser(actor *model.User, id string) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) authorize(actor *model.User, action string) error {
	if actor.CanManageUsers() {
		return nil
	}
	logger.Warn("User management denied", map[string]interface{}{
		"actor_id": actorID(actor),
		"action":   action,
	})
	return ErrForbidden
}

func (s *userService) ListUsers(actor *model.User) ([]model.User, error) {
	if err := s.authorize(actor, "list"); err != nil {
		return nil, err
	}
	users, err := s.userRepo.FindAll()
	if err != nil {
		logger.Error("Failed to list users", err)
		return nil, err
	}
	return users, nil
}

func (s *userService) GetUser(actor *model.User, id string) (*model.User, error) {
	if err := s.authorize(actor, "get"); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, translate(err, ErrUserNotFound)
	}
	return user, nil
}

func (s *userService) CreateUser(actor *model.User, input CreateUserInput) (*model.User, error) {
	if err := s.authorize(actor, "create"); err != nil {
		return nil, err
	}

	username := normalizeUsername(input.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if !input.Role.Valid() {
		return nil, ErrInvalidRole
	}
	if err := util.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		logger.Warn("Username already taken", map[string]interface{}{
			"username": username,
		})
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return nil, err
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		DisplayName:  input.DisplayName,
		Role:         input.Role,
		Permissions:  datatypes.NewJSONType(input.Permissions),
		IsActive:     true,
	}
	if user.DisplayName == "" {
		user.DisplayName = username
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	logger.Info("User created", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
		"actor_id": actor.ID,
	})
	return s.userRepo.FindByID(user.ID)
}

func (s *userService) UpdateUser(actor *model.User, id string, input UpdateUserInput) (*model.User, error) {
	if err := s.authorize(actor, "update"); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, translate(err, ErrUserNotFound)
	}

	if input.DisplayName != nil {
		user.DisplayName = *input.DisplayName
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, ErrInvalidRole
		}
		user.Role = *input.Role
	}
	if input.Permissions != nil {
		user.Permissions = datatypes.NewJSONType(*input.Permissions)
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.Password != nil {
		if err := util.ValidatePassword(*input.Password); err != nil {
			return nil, err
		}
		hash, err := util.HashPassword(*input.Password)
		if err != nil {
			logger.Error("Failed to hash password", err)
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	logger.Info("User updated", map[string]interface{}{
		"user_id":          user.ID,
		"actor_id":         actor.ID,
		"password_changed": input.Password != nil,
	})
	return s.userRepo.FindByID(user.ID)
}

func (s *userService) DeleteUser(actor *model.User, id string) error {
	if err := s.authorize(actor, "delete"); err != nil {
		return err
	}
	if actor.ID == id {
		return ErrCannotDeleteSelf
	}
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return translate(err, ErrUserNotFound)
	}
	if user.IsSuperAdmin() {
		logger.Warn("Attempt to delete super admin", map[string]interface{}{
			"user_id":  id,
			"actor_id": actor.ID,
		})
		return ErrCannotDeleteSuperAdmin
	}

	if err := s.userRepo.Delete(id); err != nil {
		return translate(err, ErrUserNotFound)
	}
	logger.Info("User deleted", map[string]interface{}{
		"user_id":  id,
		"username": user.Username,
		"actor_id": actor.ID,
	})
	return nil
}

func actorID(actor *model.User) string {
	if actor == nil {
		return ""
	}
	return actor.ID
}
