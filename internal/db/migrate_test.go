package db

import (
	"testing"

	"github.com/ikkim/survei-backend/config"
	"github.com/ikkim/survei-backend/internal/app/model"
	"github.com/ikkim/survei-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateDB_SeedsCategoriesOnce(t *testing.T) {
	testDB, err := SetupTestDB()
	require.NoError(t, err)
	defer CleanupTestDB(testDB)

	require.NoError(t, MigrateDB(testDB))
	require.NoError(t, MigrateDB(testDB))

	var categories []model.Category
	require.NoError(t, testDB.Order("name").Find(&categories).Error)
	require.Len(t, categories, len(defaultCategories))
	for _, c := range categories {
		assert.True(t, c.IsActive)
		assert.NotEmpty(t, c.ID)
	}
}

func TestEnsureSuperAdmin(t *testing.T) {
	testDB, err := SetupTestDB()
	require.NoError(t, err)
	defer CleanupTestDB(testDB)

	// no password configured: nothing happens
	require.NoError(t, EnsureSuperAdmin(testDB, config.BootstrapConfig{SuperAdminUsername: "root"}))
	var count int64
	testDB.Model(&model.User{}).Count(&count)
	assert.Zero(t, count)

	assert.ErrorIs(t, EnsureSuperAdmin(testDB, config.BootstrapConfig{SuperAdminUsername: "root", SuperAdminPassword: "123"}), util.ErrPasswordTooShort)

	cfg := config.BootstrapConfig{SuperAdminUsername: "root", SuperAdminPassword: "rahasia123"}
	require.NoError(t, EnsureSuperAdmin(testDB, cfg))
	require.NoError(t, EnsureSuperAdmin(testDB, cfg))

	var admins []model.User
	require.NoError(t, testDB.Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.Equal(t, model.RoleSuperAdmin, admins[0].Role)
	assert.True(t, admins[0].IsActive)
	assert.True(t, util.VerifyPassword(admins[0].PasswordHash, "rahasia123"))
}
