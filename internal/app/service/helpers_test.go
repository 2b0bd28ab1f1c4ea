package service

import (
	"testing"

	"github.com/ikkim/survei-backend/internal/app/model"
	"github.com/ikkim/survei-backend/internal/app/repository"
	"github.com/ikkim/survei-backend/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type testEnv struct {
	db           *gorm.DB
	users        repository.UserRepository
	categories   repository.CategoryRepository
	questions    repository.QuestionRepository
	groups       repository.QuestionGroupRepository
	stores       repository.StoreRepository
	responses    repository.SurveyResponseRepository
	superAdmin   *model.User
	admin        *model.User // subject + survey view/export
	staff        *model.User // no grants
	storeManager *model.User // survey view only
}

func setupTestEnv(t *testing.T) *testEnv {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	env := &testEnv{
		db:         testDB,
		users:      repository.NewUserRepository(testDB),
		categories: repository.NewCategoryRepository(testDB),
		questions:  repository.NewQuestionRepository(testDB),
		groups:     repository.NewQuestionGroupRepository(testDB),
		stores:     repository.NewStoreRepository(testDB),
		responses:  repository.NewSurveyResponseRepository(testDB),
	}
	env.superAdmin = env.createUser(t, "root", model.RoleSuperAdmin, model.Permissions{})
	env.admin = env.createUser(t, "admin", model.RoleAdmin, model.Permissions{
		Subject: true,
		Survey:  model.SurveyPermissions{View: true, Export: true},
	})
	env.staff = env.createUser(t, "staff", model.RoleStaff, model.Permissions{})
	env.storeManager = env.createUser(t, "manager", model.RoleStaff, model.Permissions{
		Survey: model.SurveyPermissions{View: true},
	})
	return env
}

func (e *testEnv) createUser(t *testing.T, username string, role model.Role, perms model.Permissions) *model.User {
	u := &model.User{
		Username:     username,
		PasswordHash: "unused",
		DisplayName:  username,
		Role:         role,
		Permissions:  datatypes.NewJSONType(perms),
		IsActive:     true,
	}
	require.NoError(t, e.users.Create(u))
	return u
}

func (e *testEnv) createStore(t *testing.T, name string, creator *model.User, managers ...string) *model.Store {
	s := &model.Store{
		Name:      name,
		Region:    "Jawa Barat",
		City:      "Bandung",
		CreatedBy: creator.ID,
		Managers:  append([]string{creator.ID}, managers...),
		IsActive:  true,
	}
	require.NoError(t, e.stores.Create(s))
	return s
}

func (e *testEnv) createQuestion(t *testing.T, q model.Question) *model.Question {
	q.IsActive = true
	require.NoError(t, e.questions.Create(&q))
	return &q
}

func (e *testEnv) createGroup(t *testing.T, name string, questionIDs []string, mandatory ...string) *model.QuestionGroup {
	g := &model.QuestionGroup{
		Name:                 name,
		QuestionIDs:          questionIDs,
		MandatoryQuestionIDs: mandatory,
		IsActive:             true,
	}
	require.NoError(t, e.groups.Create(g))
	return g
}

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }
