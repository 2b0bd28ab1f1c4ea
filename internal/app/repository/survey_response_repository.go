package repository

import (
	"errors"
	"time"

	"github.com/ikkim/survei-backend/internal/app/model"
	"github.com/ikkim/survei-backend/pkg/logger"
	"gorm.io/gorm"
)

// ResponseFilter narrows a response listing. StoreIDs must be non-empty: a
// listing is always scoped to stores the caller resolved beforehand.
type ResponseFilter struct {
	StoreIDs []string
	From     *time.Time
	To       *time.Time
	Search   string // customer name or phone
	Limit    int
}

type ResponseStats struct {
	Count           int64
	LastSubmittedAt *time.Time
}

type SurveyResponseRepository interface {
	Create(response *model.SurveyResponse) error
	FindByID(storeID, id string) (*model.SurveyResponse, error)
	FindAll(filter ResponseFilter) ([]model.SurveyResponse, error)
	StatsByStore(storeID string) (ResponseStats, error)
	Delete(storeID, id string) error
}

type surveyResponseRepository struct {
	db *gorm.DB
}

func NewSurveyResponseRepository(db *gorm.DB) SurveyResponseRepository {
	return &surveyResponseRepository{db: db}
}

func (r *surveyResponseRepository) Create(response *model.SurveyResponse) error {
	logger.Debug("Creating survey response in database", map[string]interface{}{
		"store_id":      response.StoreID,
		"answer_count":  len(response.Answers),
		"section_count": len(response.QuestionGroupsOrder),
	})

	if err := r.db.Create(response).Error; err != nil {
		logger.Error("Failed to create survey response in database", err, map[string]interface{}{
			"store_id": response.StoreID,
		})
		return err
	}

	logger.Debug("Survey response created in database", map[string]interface{}{
		"response_id": response.ID,
		"store_id":    response.StoreID,
	})
	return nil
}

func (r *surveyResponseRepository) FindByID(storeID, id string) (*model.SurveyResponse, error) {
	var response model.SurveyResponse
	err := r.db.Where("id = ? AND store_id = ?", id, storeID).First(&response).Error
	if err != nil {
		logger.Error("Failed to find survey response", err, map[string]interface{}{
			"store_id":    storeID,
			"response_id": id,
		})
		return nil, err
	}
	return &response, nil
}

// FindAll returns matching responses, newest first.
func (r *surveyResponseRepository) FindAll(filter ResponseFilter) ([]model.SurveyResponse, error) {
	logger.Debug("Finding survey responses", map[string]interface{}{
		"store_count": len(filter.StoreIDs),
		"search":      filter.Search,
	})

	var responses []model.SurveyResponse
	if len(filter.StoreIDs) == 0 {
		return responses, nil
	}

	query := r.db.Where("store_id IN ?", filter.StoreIDs)
	if filter.From != nil {
		query = query.Where("submitted_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("submitted_at <= ?", *filter.To)
	}
	query = whereContains(query, filter.Search, "customer_name", "customer_phone")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	if err := query.Order("submitted_at DESC").Find(&responses).Error; err != nil {
		logger.Error("Failed to find survey responses", err, map[string]interface{}{
			"store_count": len(filter.StoreIDs),
		})
		return nil, err
	}

	logger.Debug("Survey responses found", map[string]interface{}{
		"count": len(responses),
	})
	return responses, nil
}

func (r *surveyResponseRepository) StatsByStore(storeID string) (ResponseStats, error) {
	var stats ResponseStats
	if err := r.db.Model(&model.SurveyResponse{}).Where("store_id = ?", storeID).Count(&stats.Count).Error; err != nil {
		logger.Error("Failed to count survey responses", err, map[string]interface{}{
			"store_id": storeID,
		})
		return stats, err
	}
	if stats.Count == 0 {
		return stats, nil
	}

	var latest model.SurveyResponse
	err := r.db.Select("id", "submitted_at").
		Where("store_id = ?", storeID).
		Order("submitted_at DESC").
		First(&latest).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to find latest survey response", err, map[string]interface{}{
			"store_id": storeID,
		})
		return stats, err
	}
	if err == nil {
		stats.LastSubmittedAt = &latest.SubmittedAt
	}
	return stats, nil
}

func (r *surveyResponseRepository) Delete(storeID, id string) error {
	logger.Debug("Deleting survey response", map[string]interface{}{
		"store_id":    storeID,
		"response_id": id,
	})

	result := r.db.Where("id = ? AND store_id = ?", id, storeID).Delete(&model.SurveyResponse{})
	if result.Error != nil {
		logger.Error("Failed to delete survey response", result.Error, map[string]interface{}{
			"store_id":    storeID,
			"response_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
