package service

import (
	"errors"

	"github.com/ikkim/survei-backend/internal/app/model"
	"github.com/ikkim/survei-backend/internal/app/repository"
	"github.com/ikkim/survei-backend/pkg/logger"
	"gorm.io/gorm"
)

type CategoryInput struct {
	Name        string
	Description string
	Color       string
	IsActive    *bool
}

type CategoryService interface {
	List(activeOnly bool) ([]model.Category, error)
	Get(id string) (*model.Category, error)
	Create(actor *model.User, input CategoryInput) (*model.Category, error)
	Update(actor *model.User, id string, input CategoryInput) (*model.Category, error)
	Delete(actor *model.User, id string) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) List(activeOnly bool) ([]model.Category, error) {
	return s.categoryRepo.FindAll(activeOnly)
}

func (s *categoryService) Get(id string) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		return nil, translate(err, ErrCategoryNotFound)
	}
	return category, nil
}

func (s *categoryService) Create(actor *model.User, input CategoryInput) (*model.Category, error) {
	if !actor.CanManageCategories() {
		return nil, ErrForbidden
	}

	category := &model.Category{
		Name:        input.Name,
		Description: input.Description,
		Color:       input.Color,
		IsActive:    true,
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}
	category.Normalize()
	if err := category.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(category.Name, ""); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	logger.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
		"actor_id":    actor.ID,
	})
	return s.categoryRepo.FindByID(category.ID)
}

func (s *categoryService) Update(actor *model.User, id string, input CategoryInput) (*model.Category, error) {
	if !actor.CanManageCategories() {
		return nil, ErrForbidden
	}
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		return nil, translate(err, ErrCategoryNotFound)
	}

	category.Name = input.Name
	category.Description = input.Description
	category.Color = input.Color
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}
	category.Normalize()
	if err := category.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(category.Name, category.ID); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	logger.Info("Category updated", map[string]interface{}{
		"category_id": category.ID,
		"actor_id":    actor.ID,
	})
	return s.categoryRepo.FindByID(category.ID)
}

// Delete soft deletes the category. Questions keep their categoryId and show
// no category name afterwards.
func (s *categoryService) Delete(actor *model.User, id string) error {
	if !actor.CanManageCategories() {
		return ErrForbidden
	}
	if err := s.categoryRepo.Delete(id); err != nil {
		return translate(err, ErrCategoryNotFound)
	}
	logger.Info("Category deleted", map[string]interface{}{
		"category_id": id,
		"actor_id":    actor.ID,
	})
	return nil
}

func (s *categoryService) ensureNameFree(name, selfID string) error {
	existing, err := s.categoryRepo.FindByName(name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return ErrCategoryExists
	}
	return nil
}
