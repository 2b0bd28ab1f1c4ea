package controller

import (
	"net/http"
	"testing"

	"github.com/ikkim/survei-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserController_RequiresSuperAdmin(t *testing.T) {
	env := setupAPI(t)

	w := env.do(t, http.MethodGet, "/users", env.token(t, env.admin), nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "AUTHZ_SUPER_ADMIN_ONLY", decodeBody(t, w)["error"])
}

func TestUserController_CreateUser(t *testing.T) {
	env := setupAPI(t)
	token := env.token(t, env.root)

	tests := []struct {
		name     string
		req      CreateUserRequest
		wantCode int
		wantErr  string
	}{
		{
			name:     "success",
			req:      CreateUserRequest{Username: "Kasir1", Password: "rahasia", Role: model.RoleStaff},
			wantCode: http.StatusCreated,
		},
		{
			name:     "duplicate username",
			req:      CreateUserRequest{Username: "admin", Password: "rahasia", Role: model.RoleStaff},
			wantCode: http.StatusConflict,
			wantErr:  "AUTH_USERNAME_EXISTS",
		},
		{
			name:     "short password",
			req:      CreateUserRequest{Username: "kasir2", Password: "123", Role: model.RoleStaff},
			wantCode: http.StatusBadRequest,
			wantErr:  "VALIDATION_TOO_SHORT",
		},
		{
			name:     "unknown role",
			req:      CreateUserRequest{Username: "kasir3", Password: "rahasia", Role: "owner"},
			wantCode: http.StatusBadRequest,
			wantErr:  "VALIDATION_INVALID_INPUT",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/users", token, tt.req)
			assert.Equal(t, tt.wantCode, w.Code)
			body := decodeBody(t, w)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, body["error"])
				return
			}
			assert.Equal(t, "kasir1", body["user"].(map[string]interface{})["username"])
		})
	}
}

func TestUserController_DeleteUser(t *testing.T) {
	env := setupAPI(t)
	token := env.token(t, env.root)

	other := env.createUser(t, "root2", model.RoleSuperAdmin, model.Permissions{})

	w := env.do(t, http.MethodDelete, "/users/"+other.ID, token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "USER_CANNOT_DELETE_SUPER_ADMIN", decodeBody(t, w)["error"])

	w = env.do(t, http.MethodDelete, "/users/"+env.root.ID, token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "USER_CANNOT_DELETE_SELF", decodeBody(t, w)["error"])

	w = env.do(t, http.MethodDelete, "/users/"+env.staff.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodDelete, "/users/"+env.staff.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "USER_NOT_FOUND", decodeBody(t, w)["error"])
}
