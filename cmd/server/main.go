package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/survei-backend/config"
	"github.com/ikkim/survei-backend/internal/app/controller"
	"github.com/ikkim/survei-backend/internal/app/repository"
	"github.com/ikkim/survei-backend/internal/app/service"
	"github.com/ikkim/survei-backend/internal/db"
	"github.com/ikkim/survei-backend/internal/middleware"
	"github.com/ikkim/survei-backend/internal/router"
	"github.com/ikkim/survei-backend/internal/storage"
	"github.com/ikkim/survei-backend/pkg/logger"
	redispkg "github.com/ikkim/survei-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel, logFormat := "info", "json"
	if cfg.Server.Environment == "development" {
		logLevel, logFormat = "debug", "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting SURVEI Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}
	if err := db.EnsureSuperAdmin(db.GetDB(), cfg.Bootstrap); err != nil {
		logger.Fatal("Failed to bootstrap super admin", err)
	}

	// Token blacklist (optional)
	var (
		revoker service.TokenRevoker
		revoked middleware.RevocationChecker
	)
	if cfg.Redis.Enabled() {
		if err := redispkg.Init(&cfg.Redis); err != nil {
			logger.Fatal("Failed to initialize Redis", err)
		}
		defer func() {
			if err := redispkg.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
		blacklist := redispkg.NewTokenBlacklist(redispkg.GetClient())
		revoker, revoked = blacklist, blacklist
	} else {
		logger.Warn("REDIS_HOST not set, logout will not revoke access tokens")
	}

	// Initialize repositories
	gormDB := db.GetDB()
	userRepo := repository.NewUserRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	questionRepo := repository.NewQuestionRepository(gormDB)
	groupRepo := repository.NewQuestionGroupRepository(gormDB)
	storeRepo := repository.NewStoreRepository(gormDB)
	responseRepo := repository.NewSurveyResponseRepository(gormDB)

	// Initialize services
	location := cfg.Survey.Location()
	authService := service.NewAuthService(
		userRepo,
		revoker,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	storeService := service.NewStoreService(storeRepo, userRepo, groupRepo, questionRepo, categoryRepo, cfg.Survey.PublicBaseURL)
	surveyService := service.NewSurveyService(
		storeRepo,
		responseRepo,
		groupRepo,
		questionRepo,
		categoryRepo,
		cfg.Survey.FetchConcurrency,
		location,
	)

	// Initialize controllers
	controllers := router.Controllers{
		Auth:          controller.NewAuthController(authService),
		User:          controller.NewUserController(service.NewUserService(userRepo)),
		Category:      controller.NewCategoryController(service.NewCategoryService(categoryRepo)),
		Question:      controller.NewQuestionController(service.NewQuestionService(questionRepo, categoryRepo)),
		QuestionGroup: controller.NewQuestionGroupController(service.NewQuestionGroupService(groupRepo, questionRepo)),
		Store:         controller.NewStoreController(storeService),
		Survey:        controller.NewSurveyController(surveyService, location),
		PublicSurvey:  controller.NewPublicSurveyController(surveyService),
	}
	if cfg.S3.Bucket != "" {
		controllers.Upload = controller.NewUploadController(storage.NewS3Storage(cfg.S3))
	} else {
		logger.Warn("AWS_S3_BUCKET not set, image upload disabled")
	}

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, userRepo, revoked)
	engine := router.NewRouter(controllers, authMiddleware, cfg).Setup()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	logger.Info("Server stopped successfully")
}
