package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/survei-backend/internal/app/service"
	"github.com/ikkim/survei-backend/internal/middleware"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Color       string `json:"color"`
	IsActive    *bool  `json:"isActive"`
}

func (r CategoryRequest) input() service.CategoryInput {
	return service.CategoryInput{
		Name:        r.Name,
		Description: r.Description,
		Color:       r.Color,
		IsActive:    r.IsActive,
	}
}

// ListCategories GET /api/v1/categories?active=true
func (ctrl *CategoryController) ListCategories(c *gin.Context) {
	categories, err := ctrl.categoryService.List(parseBoolQuery(c, "active"))
	if err != nil {
		respondServiceError(c, err, "list categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

// GetCategory GET /api/v1/categories/:id
func (ctrl *CategoryController) GetCategory(c *gin.Context) {
	category, err := ctrl.categoryService.Get(c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "get category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category": category,
	})
}

// CreateCategory POST /api/v1/categories
func (ctrl *CategoryController) CreateCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req CategoryRequest
	if !bindJSON(c, log, &req) {
		return
	}

	category, err := ctrl.categoryService.Create(actor, req.input())
	if err != nil {
		respondServiceError(c, err, "create category")
		return
	}

	log.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"category": category,
	})
}

// UpdateCategory PUT /api/v1/categories/:id
func (ctrl *CategoryController) UpdateCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req CategoryRequest
	if !bindJSON(c, log, &req) {
		return
	}

	category, err := ctrl.categoryService.Update(actor, c.Param("id"), req.input())
	if err != nil {
		respondServiceError(c, err, "update category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category": category,
	})
}

// DeleteCategory DELETE /api/v1/categories/:id
func (ctrl *CategoryController) DeleteCategory(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	if err := ctrl.categoryService.Delete(actor, c.Param("id")); err != nil {
		respondServiceError(c, err, "delete category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Category deleted successfully",
	})
}
