package controller

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/ikkim/survei-backend/internal/app/model"
	"github.com/ikkim/survei-backend/internal/app/repository"
	"github.com/ikkim/survei-backend/internal/app/service"
	"github.com/ikkim/survei-backend/internal/db"
	"github.com/ikkim/survei-backend/internal/middleware"
	redispkg "github.com/ikkim/survei-backend/pkg/redis"
	"github.com/ikkim/survei-backend/pkg/util"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

const (
	testJWTSecret = "test-secret"
	testPassword  = "password123"
)

type apiEnv struct {
	router     *gin.Engine
	users      repository.UserRepository
	categories repository.CategoryRepository
	questions  repository.QuestionRepository
	groups     repository.QuestionGroupRepository
	stores     repository.StoreRepository
	uploader   *fakeUploader
	root       *model.User
	admin      *model.User // subject + survey view/export
	staff      *model.User
}

func setupAPI(t *testing.T) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	blacklist := redispkg.NewTokenBlacklist(client)

	env := &apiEnv{
		users:      repository.NewUserRepository(testDB),
		categories: repository.NewCategoryRepository(testDB),
		questions:  repository.NewQuestionRepository(testDB),
		groups:     repository.NewQuestionGroupRepository(testDB),
		stores:     repository.NewStoreRepository(testDB),
		uploader:   &fakeUploader{},
	}
	responses := repository.NewSurveyResponseRepository(testDB)

	env.root = env.createUser(t, "root", model.RoleSuperAdmin, model.Permissions{})
	env.admin = env.createUser(t, "admin", model.RoleAdmin, model.Permissions{
		Subject: true,
		Survey:  model.SurveyPermissions{View: true, Export: true},
	})
	env.staff = env.createUser(t, "staff", model.RoleStaff, model.Permissions{})

	authService := service.NewAuthService(env.users, blacklist, testJWTSecret, 15*time.Minute, time.Hour)
	storeService := service.NewStoreService(env.stores, env.users, env.groups, env.questions, env.categories, "https://survei.example.com")
	surveyService := service.NewSurveyService(env.stores, responses, env.groups, env.questions, env.categories, 2, time.UTC)

	authCtrl := NewAuthController(authService)
	userCtrl := NewUserController(service.NewUserService(env.users))
	questionCtrl := NewQuestionController(service.NewQuestionService(env.questions, env.categories))
	groupCtrl := NewQuestionGroupController(service.NewQuestionGroupService(env.groups, env.questions))
	storeCtrl := NewStoreController(storeService)
	surveyCtrl := NewSurveyController(surveyService, time.UTC)
	publicCtrl := NewPublicSurveyController(surveyService)
	uploadCtrl := NewUploadController(env.uploader)
	authMiddleware := middleware.NewAuthMiddleware(testJWTSecret, env.users, blacklist)
	authenticate := authMiddleware.Authenticate()

	r := gin.New()
	r.Use(middleware.LoggingMiddleware())
	r.POST("/auth/login", authCtrl.Login)
	r.POST("/auth/refresh", authCtrl.RefreshToken)
	r.GET("/auth/me", authenticate, authCtrl.GetMe)
	r.POST("/auth/logout", authenticate, authCtrl.Logout)

	users := r.Group("/users", authenticate, authMiddleware.RequireRole(model.RoleSuperAdmin))
	users.GET("", userCtrl.ListUsers)
	users.POST("", userCtrl.CreateUser)
	users.DELETE("/:id", userCtrl.DeleteUser)

	r.POST("/questions", authenticate, questionCtrl.CreateQuestion)
	r.GET("/questions", authenticate, questionCtrl.ListQuestions)
	r.PUT("/question-groups/:id/reorder", authenticate, groupCtrl.ReorderQuestions)

	r.POST("/stores", authenticate, storeCtrl.CreateStore)
	r.GET("/stores/:id", authenticate, storeCtrl.GetStore)
	r.GET("/stores/:id/walk", authenticate, storeCtrl.GetWalk)
	r.GET("/stores/:id/survey-link", authenticate, storeCtrl.GetSurveyLink)
	r.DELETE("/stores/:id/managers/:userId", authenticate, storeCtrl.RemoveManager)
	r.GET("/stores/:id/responses", authenticate, surveyCtrl.ListStoreResponses)

	r.GET("/responses", authenticate, surveyCtrl.ListResponses)
	r.GET("/analytics", authenticate, surveyCtrl.GetAnalytics)
	r.GET("/export", authenticate, surveyCtrl.Export)

	r.GET("/public/stores/:id/survey", publicCtrl.GetForm)
	r.POST("/public/stores/:id/responses", publicCtrl.Submit)

	r.POST("/upload/presigned-url", authenticate, uploadCtrl.GeneratePresignedURL)

	env.router = r
	return env
}

func (e *apiEnv) createUser(t *testing.T, username string, role model.Role, perms model.Permissions) *model.User {
	hash, err := util.HashPassword(testPassword)
	require.NoError(t, err)
	u := &model.User{
		Username:     username,
		PasswordHash: hash,
		DisplayName:  username,
		Role:         role,
		Permissions:  datatypes.NewJSONType(perms),
		IsActive:     true,
	}
	require.NoError(t, e.users.Create(u))
	return u
}

func (e *apiEnv) token(t *testing.T, u *model.User) string {
	tokens, err := util.GenerateTokenPair(u.ID, u.Username, string(u.Role), testJWTSecret, 15*time.Minute, time.Hour)
	require.NoError(t, err)
	return tokens.AccessToken
}

// do sends body as JSON; token may be empty for anonymous calls.
func (e *apiEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// surveyStore seeds a store with one group: a mandatory rating and an
// optional text question.
func (e *apiEnv) surveyStore(t *testing.T) (store *model.Store, rating, text *model.Question) {
	t.Helper()
	rating = &model.Question{Text: "Seberapa puas Anda?", Type: model.QuestionTypeRating, IsActive: true}
	text = &model.Question{Text: "Saran", Type: model.QuestionTypeText, IsActive: true}
	require.NoError(t, e.questions.Create(rating))
	require.NoError(t, e.questions.Create(text))

	group := &model.QuestionGroup{
		Name:                 "Layanan",
		QuestionIDs:          []string{rating.ID, text.ID},
		MandatoryQuestionIDs: []string{rating.ID},
		IsActive:             true,
	}
	require.NoError(t, e.groups.Create(group))

	store = &model.Store{
		Name:             "Toko Sentosa",
		CreatedBy:        e.admin.ID,
		Managers:         []string{e.admin.ID},
		QuestionGroupIDs: []string{group.ID},
		IsActive:         true,
	}
	require.NoError(t, e.stores.Create(store))
	return store, rating, text
}
