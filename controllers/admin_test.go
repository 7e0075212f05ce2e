package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/aarthurcreis/hungryhub-proto/models"
	"github.com/aarthurcreis/hungryhub-proto/store"
)

func newAdminFixture(t *testing.T) (*AdminController, *store.MemoryStore, primitive.ObjectID) {
	t.Helper()
	s := store.NewMemoryStore()
	userID, err := s.CreateProfile(context.Background(), models.Profile{
		Name: "Cliente Teste", Email: "cliente@gmail.com", CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, s.AddRole(context.Background(), userID, models.RoleCliente))
	return NewAdminController(s, s), s, userID
}

func TestAddRoleInvalidRole(t *testing.T) {
	ac, _, userID := newAdminFixture(t)
	admin := primitive.NewObjectID()

	req := authedRequest(t, "POST", "/admin/users/x/roles", map[string]string{"role": "superuser"}, admin, models.RoleAdministrador)
	rec := httptest.NewRecorder()
	ac.AddRole(rec, mux.SetURLVars(req, map[string]string{"id": userID.Hex()}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid role")
}

func TestAddAndRemoveRole(t *testing.T) {
	ac, s, userID := newAdminFixture(t)
	admin := primitive.NewObjectID()

	req := authedRequest(t, "POST", "/admin/users/x/roles", map[string]string{"role": "entregador"}, admin, models.RoleAdministrador)
	rec := httptest.NewRecorder()
	ac.AddRole(rec, mux.SetURLVars(req, map[string]string{"id": userID.Hex()}))
	require.Equal(t, http.StatusOK, rec.Code)

	roles, err := s.RolesFor(context.Background(), userID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []models.Role{models.RoleCliente, models.RoleEntregador}, roles)

	// Assigning the same role again conflicts and leaves the set unchanged.
	req = authedRequest(t, "POST", "/admin/users/x/roles", map[string]string{"role": "entregador"}, admin, models.RoleAdministrador)
	rec = httptest.NewRecorder()
	ac.AddRole(rec, mux.SetURLVars(req, map[string]string{"id": userID.Hex()}))
	assert.Equal(t, http.StatusConflict, rec.Code)

	req = authedRequest(t, "DELETE", "/admin/users/x/roles/entregador", nil, admin, models.RoleAdministrador)
	rec = httptest.NewRecorder()
	ac.RemoveRole(rec, mux.SetURLVars(req, map[string]string{"id": userID.Hex(), "role": "entregador"}))
	require.Equal(t, http.StatusOK, rec.Code)

	roles, err = s.RolesFor(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, []models.Role{models.RoleCliente}, roles)
}

func TestListUsersIncludesRoles(t *testing.T) {
	ac, _, userID := newAdminFixture(t)
	admin := primitive.NewObjectID()

	rec := httptest.NewRecorder()
	ac.ListUsers(rec, authedRequest(t, "GET", "/admin/users", nil, admin, models.RoleAdministrador))
	require.Equal(t, http.StatusOK, rec.Code)

	var users []models.UserWithRoles
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&users))
	require.Len(t, users, 1)
	assert.Equal(t, userID, users[0].ID)
	assert.Equal(t, []models.Role{models.RoleCliente}, users[0].Roles)
}
