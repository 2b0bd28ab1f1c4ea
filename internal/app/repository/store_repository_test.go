package repository

import (
	"testing"

	"github.com/ikkim/survei-backend/internal/app/model"
	"github.com/ikkim/survei-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupStoreTest(t *testing.T) (*gorm.DB, StoreRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewStoreRepository(testDB)
	stores := []*model.Store{
		{Name: "Toko Melati", Address: "Jl. Melati 1", Region: "Jawa Barat", City: "Bandung", Area: "Dago", CreatedBy: "u1", IsActive: true},
		{Name: "Toko Mawar", Address: "Jl. Mawar 2", Region: "Jawa Barat", City: "Bandung", Area: "Buah Batu", CreatedBy: "u1", IsActive: true},
		{Name: "Toko Kenanga", Address: "Jl. Kenanga", Region: "DKI Jakarta", City: "Jakarta Selatan", Area: "Kemang", CreatedBy: "u2", IsActive: false},
	}
	for _, s := range stores {
		require.NoError(t, repo.Create(s))
	}
	return testDB, repo
}

func TestStoreRepository_FindAll(t *testing.T) {
	testDB, repo := setupStoreTest(t)
	defer db.CleanupTestDB(testDB)

	tests := []struct {
		name   string
		filter StoreFilter
		want   []string
	}{
		{"all sorted by name", StoreFilter{}, []string{"Toko Kenanga", "Toko Mawar", "Toko Melati"}},
		{"by region", StoreFilter{Region: "Jawa Barat"}, []string{"Toko Mawar", "Toko Melati"}},
		{"by area", StoreFilter{Area: "Dago"}, []string{"Toko Melati"}},
		{"active only", StoreFilter{ActiveOnly: true}, []string{"Toko Mawar", "Toko Melati"}},
		{"search address", StoreFilter{Search: "kenanga"}, []string{"Toko Kenanga"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stores, err := repo.FindAll(tt.filter)
			require.NoError(t, err)
			names := make([]string, 0, len(stores))
			for _, s := range stores {
				names = append(names, s.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestStoreRepository_UpdateKeepsJSONColumns(t *testing.T) {
	testDB, repo := setupStoreTest(t)
	defer db.CleanupTestDB(testDB)

	stores, err := repo.FindAll(StoreFilter{Area: "Dago"})
	require.NoError(t, err)
	store := stores[0]

	store.Managers = []string{"u3", "u4"}
	store.QuestionGroupIDs = []string{"g2", "g1"}
	require.NoError(t, repo.Update(&store))

	found, err := repo.FindByID(store.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"u3", "u4"}, []string(found.Managers))
	assert.Equal(t, []string{"g2", "g1"}, []string(found.QuestionGroupIDs))
	assert.True(t, found.IsManager("u1"))
}

func TestStoreRepository_Delete(t *testing.T) {
	testDB, repo := setupStoreTest(t)
	defer db.CleanupTestDB(testDB)

	stores, err := repo.FindAll(StoreFilter{Area: "Kemang"})
	require.NoError(t, err)
	id := stores[0].ID

	require.NoError(t, repo.Delete(id))
	_, err = repo.FindByID(id)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.Delete(id), gorm.ErrRecordNotFound)
}
