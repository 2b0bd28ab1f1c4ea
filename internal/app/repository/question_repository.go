package repository

import (
	"github.com/ikkim/survei-backend/internal/app/model"
	"github.com/ikkim/survei-backend/pkg/logger"
	"gorm.io/gorm"
)

type QuestionFilter struct {
	CategoryID string
	Type       model.QuestionType
	ActiveOnly bool
	Search     string
}

type QuestionRepository interface {
	Create(question *model.Question) error
	FindByID(id string) (*model.Question, error)
	FindByIDs(ids []string) ([]model.Question, error)
	FindAll(filter QuestionFilter) ([]model.Question, error)
	Update(question *model.Question) error
	Delete(id string) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(question *model.Question) error {
	logger.Debug("Creating question in database", map[string]interface{}{
		"type":        question.Type,
		"category_id": question.CategoryID,
	})

	if err := r.db.Create(question).Error; err != nil {
		logger.Error("Failed to create question in database", err)
		return err
	}

	logger.Debug("Question created in database", map[string]interface{}{
		"question_id": question.ID,
	})
	return nil
}

func (r *questionRepository) FindByID(id string) (*model.Question, error) {
	var question model.Question
	if err := r.db.Where("id = ?", id).First(&question).Error; err != nil {
		logger.Error("Failed to find question by ID", err, map[string]interface{}{
			"question_id": id,
		})
		return nil, err
	}
	return &question, nil
}

// FindByIDs returns the questions that exist, in no particular order.
func (r *questionRepository) FindByIDs(ids []string) ([]model.Question, error) {
	var questions []model.Question
	if len(ids) == 0 {
		return questions, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&questions).Error; err != nil {
		logger.Error("Failed to find questions by IDs", err, map[string]interface{}{
			"count": len(ids),
		})
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) FindAll(filter QuestionFilter) ([]model.Question, error) {
	logger.Debug("Fetching questions", map[string]interface{}{
		"category_id": filter.CategoryID,
		"type":        filter.Type,
		"active_only": filter.ActiveOnly,
	})

	query := r.db.Model(&model.Question{})
	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	query = whereContains(query, filter.Search, "text")

	var questions []model.Question
	if err := query.Order("created_at DESC").Find(&questions).Error; err != nil {
		logger.Error("Failed to fetch questions", err)
		return nil, err
	}

	logger.Debug("Fetched questions", map[string]interface{}{
		"count": len(questions),
	})
	return questions, nil
}

func (r *questionRepository) Update(question *model.Question) error {
	if err := r.db.Save(question).Error; err != nil {
		logger.Error("Failed to update question", err, map[string]interface{}{
			"question_id": question.ID,
		})
		return err
	}
	return nil
}

func (r *questionRepository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&model.Question{})
	if result.Error != nil {
		logger.Error("Failed to delete question", result.Error, map[string]interface{}{
			"question_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
