package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ikkim/survei-backend/config"
	"github.com/ikkim/survei-backend/internal/app/model"
	"github.com/ikkim/survei-backend/pkg/logger"
	"github.com/ikkim/survei-backend/pkg/util"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Models lists every persisted entity, in migration order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Category{},
		&model.Question{},
		&model.QuestionGroup{},
		&model.Store{},
		&model.SurveyResponse{},
	}
}

// Migrate runs database migrations on the global connection
func Migrate() error {
	return MigrateDB(DB)
}

func MigrateDB(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedCategories(db); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// 기본 카테고리
var defaultCategories = []model.Category{
	{Name: "Pelayanan", Description: "Keramahan dan kecepatan layanan", Color: "#2563EB"},
	{Name: "Produk", Description: "Kualitas dan ketersediaan produk", Color: "#16A34A"},
	{Name: "Kebersihan", Description: "Kebersihan toko dan fasilitas", Color: "#0891B2"},
	{Name: "Umum", Description: "Pertanyaan umum", Color: model.DefaultCategoryColor},
}

// seedCategories 카테고리가 하나도 없을 때만 기본값 생성
func seedCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Category{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Categories already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	for _, c := range defaultCategories {
		category := c
		category.IsActive = true
		if err := db.Create(&category).Error; err != nil {
			logger.Error("Failed to create category", err, map[string]interface{}{
				"category": category.Name,
			})
			return err
		}
	}

	logger.Info("Categories seeded successfully", map[string]interface{}{
		"total_categories": len(defaultCategories),
	})
	return nil
}

// EnsureSuperAdmin creates the first super admin from config when no
// super_admin account exists yet.
func EnsureSuperAdmin(db *gorm.DB, cfg config.BootstrapConfig) error {
	var count int64
	if err := db.Model(&model.User{}).Where("role = ?", model.RoleSuperAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	username := strings.ToLower(strings.TrimSpace(cfg.SuperAdminUsername))
	if username == "" || cfg.SuperAdminPassword == "" {
		logger.Warn("No super admin exists and SUPER_ADMIN_PASSWORD is not set, skipping bootstrap")
		return nil
	}
	if err := util.ValidatePassword(cfg.SuperAdminPassword); err != nil {
		return fmt.Errorf("bootstrap super admin: %w", err)
	}

	var existing model.User
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return fmt.Errorf("bootstrap super admin: username %q is taken by a %s account", username, existing.Role)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := util.HashPassword(cfg.SuperAdminPassword)
	if err != nil {
		return err
	}
	admin := &model.User{
		Username:     username,
		PasswordHash: hash,
		DisplayName:  "Super Admin",
		Role:         model.RoleSuperAdmin,
		Permissions:  datatypes.NewJSONType(model.Permissions{}),
		IsActive:     true,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}

	logger.Info("Super admin created", map[string]interface{}{
		"user_id":  admin.ID,
		"username": admin.Username,
	})
	return nil
}
