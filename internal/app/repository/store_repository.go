package repository

import (
	"github.com/ikkim/survei-backend/internal/app/model"
	"github.com/ikkim/survei-backend/pkg/logger"
	"gorm.io/gorm"
)

type StoreFilter struct {
	Region     string
	City       string
	Area       string
	Search     string
	ActiveOnly bool
}

type StoreRepository interface {
	Create(store *model.Store) error
	Update(store *model.Store) error
	Delete(id string) error
	FindAll(filter StoreFilter) ([]model.Store, error)
	FindByID(id string) (*model.Store, error)
}

type storeRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) Create(store *model.Store) error {
	logger.Debug("Creating store in database", map[string]interface{}{
		"name":       store.Name,
		"region":     store.Region,
		"created_by": store.CreatedBy,
	})

	if err := r.db.Create(store).Error; err != nil {
		logger.Error("Failed to create store in database", err, map[string]interface{}{
			"name":       store.Name,
			"created_by": store.CreatedBy,
		})
		return err
	}

	logger.Debug("Store created in database", map[string]interface{}{
		"store_id": store.ID,
		"name":     store.Name,
	})
	return nil
}

func (r *storeRepository) Update(store *model.Store) error {
	logger.Debug("Updating store in database", map[string]interface{}{
		"store_id": store.ID,
	})

	if err := r.db.Save(store).Error; err != nil {
		logger.Error("Failed to update store in database", err, map[string]interface{}{
			"store_id": store.ID,
		})
		return err
	}

	logger.Debug("Store updated in database", map[string]interface{}{
		"store_id": store.ID,
	})
	return nil
}

func (r *storeRepository) Delete(id string) error {
	logger.Debug("Deleting store from database", map[string]interface{}{
		"store_id": id,
	})

	result := r.db.Where("id = ?", id).Delete(&model.Store{})
	if result.Error != nil {
		logger.Error("Failed to delete store from database", result.Error, map[string]interface{}{
			"store_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindAll applies only column filters. Manager membership lives in a JSON
// column and is checked by the caller.
func (r *storeRepository) FindAll(filter StoreFilter) ([]model.Store, error) {
	logger.Debug("Finding stores", map[string]interface{}{
		"region": filter.Region,
		"city":   filter.City,
		"area":   filter.Area,
		"search": filter.Search,
	})

	query := r.db.Model(&model.Store{})
	if filter.Region != "" {
		query = query.Where("region = ?", filter.Region)
	}
	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}
	if filter.Area != "" {
		query = query.Where("area = ?", filter.Area)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	query = whereContains(query, filter.Search, "name", "address")

	var stores []model.Store
	if err := query.Order("name ASC").Find(&stores).Error; err != nil {
		logger.Error("Failed to find stores", err, map[string]interface{}{
			"region": filter.Region,
			"city":   filter.City,
		})
		return nil, err
	}

	logger.Debug("Stores found", map[string]interface{}{
		"count": len(stores),
	})
	return stores, nil
}

func (r *storeRepository) FindByID(id string) (*model.Store, error) {
	logger.Debug("Finding store by ID", map[string]interface{}{
		"store_id": id,
	})

	var store model.Store
	if err := r.db.Where("id = ?", id).First(&store).Error; err != nil {
		logger.Error("Failed to find store by ID", err, map[string]interface{}{
			"store_id": id,
		})
		return nil, err
	}
	return &store, nil
}
