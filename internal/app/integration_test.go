package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/survei-backend/config"
	"github.com/ikkim/survei-backend/internal/app/controller"
	"github.com/ikkim/survei-backend/internal/app/model"
	"github.com/ikkim/survei-backend/internal/app/repository"
	"github.com/ikkim/survei-backend/internal/app/service"
	"github.com/ikkim/survei-backend/internal/db"
	"github.com/ikkim/survei-backend/internal/middleware"
	"github.com/ikkim/survei-backend/internal/router"
	"github.com/ikkim/survei-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type TestServer struct {
	Router *gin.Engine
	DB     *gorm.DB
}

func setupIntegrationTest(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	require.NoError(t, db.EnsureSuperAdmin(testDB, config.BootstrapConfig{
		SuperAdminUsername: "root",
		SuperAdminPassword: "password123",
	}))

	// Repositories
	userRepo := repository.NewUserRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)
	questionRepo := repository.NewQuestionRepository(testDB)
	groupRepo := repository.NewQuestionGroupRepository(testDB)
	storeRepo := repository.NewStoreRepository(testDB)
	responseRepo := repository.NewSurveyResponseRepository(testDB)

	// Services (logout without blacklist)
	authService := service.NewAuthService(userRepo, nil, testSecret, 15*time.Minute, 7*24*time.Hour)
	storeService := service.NewStoreService(storeRepo, userRepo, groupRepo, questionRepo, categoryRepo, "https://survei.example.com")
	surveyService := service.NewSurveyService(storeRepo, responseRepo, groupRepo, questionRepo, categoryRepo, 4, time.UTC)

	controllers := router.Controllers{
		Auth:          controller.NewAuthController(authService),
		User:          controller.NewUserController(service.NewUserService(userRepo)),
		Category:      controller.NewCategoryController(service.NewCategoryService(categoryRepo)),
		Question:      controller.NewQuestionController(service.NewQuestionService(questionRepo, categoryRepo)),
		QuestionGroup: controller.NewQuestionGroupController(service.NewQuestionGroupService(groupRepo, questionRepo)),
		Store:         controller.NewStoreController(storeService),
		Survey:        controller.NewSurveyController(surveyService, time.UTC),
		PublicSurvey:  controller.NewPublicSurveyController(surveyService),
	}
	cfg := &config.Config{Server: config.ServerConfig{GinMode: gin.TestMode}}
	authMiddleware := middleware.NewAuthMiddleware(testSecret, userRepo, nil)

	return &TestServer{
		Router: router.NewRouter(controllers, authMiddleware, cfg).Setup(),
		DB:     testDB,
	}
}

func (ts *TestServer) call(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
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
	ts.Router.ServeHTTP(w, req)

	var resp map[string]interface{}
	if w.Header().Get("Content-Type") != "" && bytes.HasPrefix(w.Body.Bytes(), []byte("{")) {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w.Code, resp
}

func idOf(resp map[string]interface{}, key string) string {
	return resp[key].(map[string]interface{})["id"].(string)
}

func TestCompleteSurveyJourney(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	// 1. Super admin login
	t.Log("Step 1: Login as super admin")
	code, resp := ts.call(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "ROOT",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, code)
	rootToken := resp["tokens"].(map[string]interface{})["accessToken"].(string)

	// 2. Catalog
	t.Log("Step 2: Create category, questions and group")
	code, resp = ts.call(t, http.MethodPost, "/api/v1/categories", rootToken, map[string]string{"name": "Pelayanan"})
	require.Equal(t, http.StatusCreated, code)
	categoryID := idOf(resp, "category")

	code, resp = ts.call(t, http.MethodPost, "/api/v1/questions", rootToken, map[string]interface{}{
		"text":       "Seberapa puas Anda?",
		"type":       model.QuestionTypeRating,
		"categoryId": categoryID,
	})
	require.Equal(t, http.StatusCreated, code)
	ratingID := idOf(resp, "question")

	code, resp = ts.call(t, http.MethodPost, "/api/v1/questions", rootToken, map[string]interface{}{
		"text":    "Metode bayar",
		"type":    model.QuestionTypeMultipleChoice,
		"options": []string{"Tunai", "QRIS"},
	})
	require.Equal(t, http.StatusCreated, code)
	choiceID := idOf(resp, "question")

	code, resp = ts.call(t, http.MethodPost, "/api/v1/question-groups", rootToken, map[string]interface{}{
		"name":                 "Kunjungan",
		"questionIds":          []string{ratingID, choiceID},
		"mandatoryQuestionIds": []string{ratingID},
	})
	require.Equal(t, http.StatusCreated, code)
	groupID := idOf(resp, "questionGroup")

	// 3. Store with assigned group
	t.Log("Step 3: Create store and assign group")
	code, resp = ts.call(t, http.MethodPost, "/api/v1/stores", rootToken, map[string]string{
		"name": "Toko Makmur",
		"city": "Bandung",
	})
	require.Equal(t, http.StatusCreated, code)
	storeID := idOf(resp, "store")

	code, _ = ts.call(t, http.MethodPut, "/api/v1/stores/"+storeID+"/groups", rootToken, map[string]interface{}{
		"questionGroupIds": []string{groupID},
	})
	require.Equal(t, http.StatusOK, code)

	code, resp = ts.call(t, http.MethodGet, "/api/v1/stores/"+storeID+"/survey-link", rootToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, resp["url"], storeID)

	// 4. Customer fills the public form
	t.Log("Step 4: Submit public responses")
	code, resp = ts.call(t, http.MethodGet, "/api/v1/public/stores/"+storeID+"/survey", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp["sections"], 1)

	submitPath := "/api/v1/public/stores/" + storeID + "/responses"
	code, resp = ts.call(t, http.MethodPost, submitPath, "", map[string]interface{}{
		"customerInfo": map[string]string{"name": "Sari"},
		"answers":      map[string]interface{}{ratingID: 5, choiceID: "QRIS"},
	})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, string(model.CompletionCompleted), resp["completionStatus"])

	code, resp = ts.call(t, http.MethodPost, submitPath, "", map[string]interface{}{
		"customerInfo": map[string]string{"name": "Dedi"},
		"answers":      map[string]interface{}{choiceID: "Tunai"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "SURVEY_MANDATORY_UNANSWERED", resp["error"])

	// 5. Dashboard
	t.Log("Step 5: Read responses and analytics")
	code, resp = ts.call(t, http.MethodGet, "/api/v1/stores/"+storeID+"/responses", rootToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, resp["count"])

	code, resp = ts.call(t, http.MethodGet, "/api/v1/analytics?storeIds="+storeID, rootToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, resp["totalResponses"])

	code, resp = ts.call(t, http.MethodGet, "/api/v1/stores/summary", rootToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, resp["count"])

	// 6. Logout
	t.Log("Step 6: Logout")
	code, _ = ts.call(t, http.MethodPost, "/api/v1/auth/logout", rootToken, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestStaffWithoutStoreAccess(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	hash, err := util.HashPassword("password123")
	require.NoError(t, err)
	staff := &model.User{Username: "kasir", PasswordHash: hash, DisplayName: "Kasir", Role: model.RoleStaff, IsActive: true}
	require.NoError(t, repository.NewUserRepository(ts.DB).Create(staff))

	store := &model.Store{Name: "Toko Lain", IsActive: true}
	require.NoError(t, repository.NewStoreRepository(ts.DB).Create(store))

	tokens, err := util.GenerateTokenPair(staff.ID, staff.Username, string(staff.Role), testSecret, time.Minute, time.Hour)
	require.NoError(t, err)

	code, resp := ts.call(t, http.MethodGet, "/api/v1/stores", tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 0, resp["count"])

	code, _ = ts.call(t, http.MethodGet, "/api/v1/stores/"+store.ID, tokens.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, resp = ts.call(t, http.MethodGet, "/api/v1/users", tokens.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "AUTHZ_SUPER_ADMIN_ONLY", resp["error"])
}
