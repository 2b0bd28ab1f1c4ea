package service

import (
	"testing"

	"github.com/ikkim/survei-backend/internal/app/model"
	"github.com/ikkim/survei-backend/internal/app/survey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoreService(env *testEnv) StoreService {
	return NewStoreService(env.stores, env.users, env.groups, env.questions, env.categories, "https://survei.example.com")
}

func TestStoreService_CreateAndAccess(t *testing.T) {
	env := setupTestEnv(t)
	storeService := newStoreService(env)

	_, err := storeService.Create(env.staff, StoreInput{Name: "Toko A"})
	assert.ErrorIs(t, err, ErrForbidden)

	store, err := storeService.Create(env.admin, StoreInput{Name: " Toko A ", Region: "Jawa Barat", City: "Bandung"})
	require.NoError(t, err)
	assert.Equal(t, "Toko A", store.Name)
	assert.Equal(t, env.admin.ID, store.CreatedBy)
	assert.Equal(t, []string{env.admin.ID}, []string(store.Managers))
	assert.True(t, store.IsActive)

	_, err = storeService.Get(env.staff, store.ID)
	assert.ErrorIs(t, err, ErrStoreNotFound, "inaccessible store looks missing")

	_, err = storeService.Get(env.superAdmin, store.ID)
	assert.NoError(t, err)

	visible, err := storeService.ListAccessible(env.staff, StoreListOptions{})
	require.NoError(t, err)
	assert.Empty(t, visible)
}

func TestStoreService_Managers(t *testing.T) {
	env := setupTestEnv(t)
	storeService := newStoreService(env)
	store := env.createStore(t, "Toko B", env.admin)

	updated, err := storeService.AddManager(env.admin, store.ID, env.storeManager.ID)
	require.NoError(t, err)
	assert.True(t, updated.IsManager(env.storeManager.ID))

	managers, err := storeService.ListManagers(env.storeManager, store.ID)
	require.NoError(t, err)
	require.Len(t, managers, 2)
	assert.Equal(t, env.admin.ID, managers[0].ID)

	tests := []struct {
		name    string
		actor   *model.User
		userID  string
		wantErr error
	}{
		{"manager cannot manage managers", env.storeManager, env.staff.ID, ErrForbidden},
		{"creator cannot be removed", env.superAdmin, env.admin.ID, ErrCannotRemoveCreator},
		{"outsider sees nothing", env.staff, env.storeManager.ID, ErrStoreNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := storeService.RemoveManager(tt.actor, store.ID, tt.userID)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err = storeService.AddManager(env.admin, store.ID, "missing-user")
	assert.ErrorIs(t, err, ErrUserNotFound)

	removed, err := storeService.RemoveManager(env.admin, store.ID, env.storeManager.ID)
	require.NoError(t, err)
	assert.False(t, removed.IsManager(env.storeManager.ID))
}

func TestStoreService_DeleteRequiresCreator(t *testing.T) {
	env := setupTestEnv(t)
	storeService := newStoreService(env)
	store := env.createStore(t, "Toko C", env.admin, env.storeManager.ID)

	assert.ErrorIs(t, storeService.Delete(env.storeManager, store.ID), ErrForbidden)
	require.NoError(t, storeService.Delete(env.admin, store.ID))
	_, err := storeService.Get(env.admin, store.ID)
	assert.ErrorIs(t, err, ErrStoreNotFound)
}

func TestStoreService_GroupsAndWalk(t *testing.T) {
	env := setupTestEnv(t)
	storeService := newStoreService(env)
	store := env.createStore(t, "Toko D", env.admin)

	q1 := env.createQuestion(t, model.Question{Text: "Q1", Type: model.QuestionTypeRating})
	q2 := env.createQuestion(t, model.Question{Text: "Q2", Type: model.QuestionTypeText})
	g1 := env.createGroup(t, "Pelayanan", []string{q2.ID, q1.ID})
	g2 := env.createGroup(t, "Produk", []string{q1.ID})
	g3 := env.createGroup(t, "Arsip", []string{q1.ID})
	g3.IsActive = false
	require.NoError(t, env.groups.Update(g3))

	_, err := storeService.AssignGroups(env.admin, store.ID, []string{g1.ID, "missing"})
	assert.ErrorIs(t, err, ErrUnknownQuestionGroup)

	assigned, err := storeService.AssignGroups(env.admin, store.ID, []string{g1.ID, g2.ID, g3.ID, g1.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{g1.ID, g2.ID, g3.ID}, []string(assigned.QuestionGroupIDs))

	reordered, err := storeService.ReorderGroups(env.admin, store.ID, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{g2.ID, g1.ID, g3.ID}, []string(reordered.QuestionGroupIDs))

	require.NoError(t, env.questions.Delete(q1.ID))
	walk, err := storeService.Walk(env.admin, store.ID)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Produk"}, {"Pelayanan", q2.ID}}, sectionShape(walk))

	link, err := storeService.SurveyLink(env.admin, store.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://survei.example.com/survey/"+store.ID, link)
}

func TestStoreService_ListLocations(t *testing.T) {
	env := setupTestEnv(t)
	storeService := newStoreService(env)
	env.createStore(t, "Toko 1", env.admin)
	env.createStore(t, "Toko 2", env.admin)
	other := &model.Store{Name: "Toko 3", Region: "Bali", City: "Denpasar", CreatedBy: env.superAdmin.ID, IsActive: true}
	require.NoError(t, env.stores.Create(other))

	locations, err := storeService.ListLocations(env.admin)
	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Equal(t, int64(2), locations[0].StoreCount)

	all, err := storeService.ListLocations(env.superAdmin)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Bali", all[0].Region)
}

func sectionShape(w survey.Walk) [][]string {
	out := [][]string{}
	for _, s := range w {
		row := []string{s.Group.Name}
		for _, q := range s.Questions {
			row = append(row, q.ID)
		}
		out = append(out, row)
	}
	return out
}
