package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/survei-backend/internal/app/model"
	"github.com/ikkim/survei-backend/internal/app/service"
	"github.com/ikkim/survei-backend/internal/middleware"
)

type UserController struct {
	userService service.UserService
}

func NewUserController(userService service.UserService) *UserController {
	return &UserController{userService: userService}
}

type CreateUserRequest struct {
	Username    string            `json:"username" binding:"required"`
	DisplayName string            `json:"displayName"`
	Password    string            `json:"password" binding:"required"`
	Role        model.Role        `json:"role" binding:"required"`
	Permissions model.Permissions `json:"permissions"`
}

type UpdateUserRequest struct {
	DisplayName *string            `json:"displayName"`
	Role        *model.Role        `json:"role"`
	Permissions *model.Permissions `json:"permissions"`
	IsActive    *bool              `json:"isActive"`
	Password    *string            `json:"password"`
}

// ListUsers GET /api/v1/users
func (ctrl *UserController) ListUsers(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	users, err := ctrl.userService.ListUsers(actor)
	if err != nil {
		respondServiceError(c, err, "list users")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}

// GetUser GET /api/v1/users/:id
func (ctrl *UserController) GetUser(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	user, err := ctrl.userService.GetUser(actor, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "get user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}

// CreateUser POST /api/v1/users
func (ctrl *UserController) CreateUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req CreateUserRequest
	if !bindJSON(c, log, &req) {
		return
	}

	user, err := ctrl.userService.CreateUser(actor, service.CreateUserInput{
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Password:    req.Password,
		Role:        req.Role,
		Permissions: req.Permissions,
	})
	if err != nil {
		respondServiceError(c, err, "create user")
		return
	}

	log.Info("User created", map[string]interface{}{
		"user_id":  user.ID,
		"actor_id": actor.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    user,
	})
}

// UpdateUser PUT /api/v1/users/:id
func (ctrl *UserController) UpdateUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !bindJSON(c, log, &req) {
		return
	}

	user, err := ctrl.userService.UpdateUser(actor, c.Param("id"), service.UpdateUserInput{
		DisplayName: req.DisplayName,
		Role:        req.Role,
		Permissions: req.Permissions,
		IsActive:    req.IsActive,
		Password:    req.Password,
	})
	if err != nil {
		respondServiceError(c, err, "update user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"user":    user,
	})
}

// DeleteUser DELETE /api/v1/users/:id
func (ctrl *UserController) DeleteUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if err := ctrl.userService.DeleteUser(actor, id); err != nil {
		respondServiceError(c, err, "delete user")
		return
	}

	log.Info("User deleted", map[string]interface{}{
		"user_id":  id,
		"actor_id": actor.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted successfully",
	})
}
