// Package access decides which stores and survey responses a dashboard user may
// see or change. Every function is a pure predicate; a nil user is always denied.
package access

import "github.com/ikkim/survei-backend/internal/app/model"

// CanAccessStore: super_admin, the store creator, or a listed manager.
func CanAccessStore(user *model.User, store *model.Store) bool {
	if user == nil || store == nil {
		return false
	}
	if user.IsSuperAdmin() {
		return true
	}
	return store.IsManager(user.ID)
}

// FilterAccessibleStores keeps the stores the user can access, in input order.
func FilterAccessibleStores(user *model.User, stores []model.Store) []model.Store {
	if user == nil {
		return []model.Store{}
	}
	if user.IsSuperAdmin() {
		return stores
	}
	out := make([]model.Store, 0, len(stores))
	for i := range stores {
		if CanAccessStore(user, &stores[i]) {
			out = append(out, stores[i])
		}
	}
	return out
}

// CanManageManagers: only super_admin or the creator. Managers cannot add or
// remove other managers.
func CanManageManagers(user *model.User, store *model.Store) bool {
	if user == nil || store == nil {
		return false
	}
	return user.IsSuperAdmin() || (user.ID != "" && store.CreatedBy == user.ID)
}

// CanDeleteSurveyResponse requires an active account with access to the store.
func CanDeleteSurveyResponse(user *model.User, store *model.Store) bool {
	if user == nil || !user.IsActive {
		return false
	}
	return user.IsSuperAdmin() || CanAccessStore(user, store)
}

func CanCreateStore(user *model.User) bool {
	return user != nil && user.CanCreateStore()
}

// CanViewResponses gates reading responses and analytics of a store.
func CanViewResponses(user *model.User, store *model.Store) bool {
	return CanAccessStore(user, store) && user.CanViewSurveys()
}

// CanExportResponses gates the spreadsheet export of a store's responses.
func CanExportResponses(user *model.User, store *model.Store) bool {
	return CanAccessStore(user, store) && user.CanExportSurveys()
}
