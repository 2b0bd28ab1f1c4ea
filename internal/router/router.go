package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/survei-backend/config"
	"github.com/ikkim/survei-backend/internal/app/controller"
	"github.com/ikkim/survei-backend/internal/app/model"
	"github.com/ikkim/survei-backend/internal/middleware"
)

// Controllers bundles the HTTP handlers mounted by the router.
type Controllers struct {
	Auth          *controller.AuthController
	User          *controller.UserController
	Category      *controller.CategoryController
	Question      *controller.QuestionController
	QuestionGroup *controller.QuestionGroupController
	Store         *controller.StoreController
	Survey        *controller.SurveyController
	PublicSurvey  *controller.PublicSurveyController
	Upload        *controller.UploadController
}

type Router struct {
	controllers    Controllers
	authMiddleware *middleware.AuthMiddleware
	config         *config.Config
}

func NewRouter(controllers Controllers, authMiddleware *middleware.AuthMiddleware, cfg *config.Config) *Router {
	return &Router{
		controllers:    controllers,
		authMiddleware: authMiddleware,
		config:         cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "SURVEI API is running",
		})
	})

	ctrl := r.controllers
	authenticate := r.authMiddleware.Authenticate()

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", ctrl.Auth.Login)
			auth.POST("/refresh", ctrl.Auth.RefreshToken)
			auth.GET("/me", authenticate, ctrl.Auth.GetMe)
			auth.POST("/logout", authenticate, ctrl.Auth.Logout)
		}

		public := v1.Group("/public")
		{
			public.GET("/stores/:id/survey", ctrl.PublicSurvey.GetForm)
			public.POST("/stores/:id/responses", ctrl.PublicSurvey.Submit)
		}

		users := v1.Group("/users")
		users.Use(authenticate, r.authMiddleware.RequireRole(model.RoleSuperAdmin))
		{
			users.GET("", ctrl.User.ListUsers)
			users.POST("", ctrl.User.CreateUser)
			users.GET("/:id", ctrl.User.GetUser)
			users.PUT("/:id", ctrl.User.UpdateUser)
			users.DELETE("/:id", ctrl.User.DeleteUser)
		}

		categories := v1.Group("/categories")
		categories.Use(authenticate)
		{
			categories.GET("", ctrl.Category.ListCategories)
			categories.POST("", ctrl.Category.CreateCategory)
			categories.GET("/:id", ctrl.Category.GetCategory)
			categories.PUT("/:id", ctrl.Category.UpdateCategory)
			categories.DELETE("/:id", ctrl.Category.DeleteCategory)
		}

		questions := v1.Group("/questions")
		questions.Use(authenticate)
		{
			questions.GET("", ctrl.Question.ListQuestions)
			questions.POST("", ctrl.Question.CreateQuestion)
			questions.GET("/:id", ctrl.Question.GetQuestion)
			questions.PUT("/:id", ctrl.Question.UpdateQuestion)
			questions.DELETE("/:id", ctrl.Question.DeleteQuestion)
		}

		groups := v1.Group("/question-groups")
		groups.Use(authenticate)
		{
			groups.GET("", ctrl.QuestionGroup.ListGroups)
			groups.POST("", ctrl.QuestionGroup.CreateGroup)
			groups.GET("/:id", ctrl.QuestionGroup.GetGroup)
			groups.PUT("/:id", ctrl.QuestionGroup.UpdateGroup)
			groups.DELETE("/:id", ctrl.QuestionGroup.DeleteGroup)
			groups.PUT("/:id/reorder", ctrl.QuestionGroup.ReorderQuestions)
			groups.GET("/:id/questions", ctrl.QuestionGroup.GetGroupQuestions)
		}

		stores := v1.Group("/stores")
		stores.Use(authenticate)
		{
			stores.GET("", ctrl.Store.ListStores)
			stores.POST("", ctrl.Store.CreateStore)
			stores.GET("/summary", ctrl.Survey.GetStoreSummaries)
			stores.GET("/locations", ctrl.Store.ListLocations)
			stores.GET("/:id", ctrl.Store.GetStore)
			stores.PUT("/:id", ctrl.Store.UpdateStore)
			stores.DELETE("/:id", ctrl.Store.DeleteStore)

			stores.GET("/:id/managers", ctrl.Store.ListManagers)
			stores.POST("/:id/managers", ctrl.Store.AddManager)
			stores.DELETE("/:id/managers/:userId", ctrl.Store.RemoveManager)

			stores.PUT("/:id/groups", ctrl.Store.AssignGroups)
			stores.PUT("/:id/groups/reorder", ctrl.Store.ReorderGroups)
			stores.GET("/:id/walk", ctrl.Store.GetWalk)
			stores.GET("/:id/survey-link", ctrl.Store.GetSurveyLink)

			stores.GET("/:id/responses", ctrl.Survey.ListStoreResponses)
			stores.GET("/:id/responses/:responseId", ctrl.Survey.GetResponse)
			stores.DELETE("/:id/responses/:responseId", ctrl.Survey.DeleteResponse)
		}

		v1.GET("/responses", authenticate, ctrl.Survey.ListResponses)
		v1.GET("/analytics", authenticate, ctrl.Survey.GetAnalytics)
		v1.GET("/export", authenticate, ctrl.Survey.Export)

		if ctrl.Upload != nil {
			upload := v1.Group("/upload")
			upload.Use(authenticate)
			{
				upload.POST("/presigned-url", ctrl.Upload.GeneratePresignedURL)
			}
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
