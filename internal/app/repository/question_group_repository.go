package repository

import (
	"github.com/ikkim/survei-backend/internal/app/model"
	"github.com/ikkim/survei-backend/pkg/logger"
	"gorm.io/gorm"
)

type QuestionGroupRepository interface {
	Create(group *model.QuestionGroup) error
	FindByID(id string) (*model.QuestionGroup, error)
	FindByIDs(ids []string) ([]model.QuestionGroup, error)
	FindAll(activeOnly bool) ([]model.QuestionGroup, error)
	Update(group *model.QuestionGroup) error
	Delete(id string) error
}

type questionGroupRepository struct {
	db *gorm.DB
}

func NewQuestionGroupRepository(db *gorm.DB) QuestionGroupRepository {
	return &questionGroupRepository{db: db}
}

func (r *questionGroupRepository) Create(group *model.QuestionGroup) error {
	logger.Debug("Creating question group in database", map[string]interface{}{
		"name":           group.Name,
		"question_count": len(group.QuestionIDs),
	})

	if err := r.db.Create(group).Error; err != nil {
		logger.Error("Failed to create question group in database", err, map[string]interface{}{
			"name": group.Name,
		})
		return err
	}

	logger.Debug("Question group created in database", map[string]interface{}{
		"group_id": group.ID,
	})
	return nil
}

func (r *questionGroupRepository) FindByID(id string) (*model.QuestionGroup, error) {
	var group model.QuestionGroup
	if err := r.db.Where("id = ?", id).First(&group).Error; err != nil {
		logger.Error("Failed to find question group by ID", err, map[string]interface{}{
			"group_id": id,
		})
		return nil, err
	}
	return &group, nil
}

func (r *questionGroupRepository) FindByIDs(ids []string) ([]model.QuestionGroup, error) {
	var groups []model.QuestionGroup
	if len(ids) == 0 {
		return groups, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&groups).Error; err != nil {
		logger.Error("Failed to find question groups by IDs", err, map[string]interface{}{
			"count": len(ids),
		})
		return nil, err
	}
	return groups, nil
}

func (r *questionGroupRepository) FindAll(activeOnly bool) ([]model.QuestionGroup, error) {
	var groups []model.QuestionGroup
	query := r.db.Order("name ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&groups).Error; err != nil {
		logger.Error("Failed to fetch question groups", err)
		return nil, err
	}
	return groups, nil
}

func (r *questionGroupRepository) Update(group *model.QuestionGroup) error {
	logger.Debug("Updating question group in database", map[string]interface{}{
		"group_id": group.ID,
	})

	if err := r.db.Save(group).Error; err != nil {
		logger.Error("Failed to update question group", err, map[string]interface{}{
			"group_id": group.ID,
		})
		return err
	}
	return nil
}

func (r *questionGroupRepository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&model.QuestionGroup{})
	if result.Error != nil {
		logger.Error("Failed to delete question group", result.Error, map[string]interface{}{
			"group_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
