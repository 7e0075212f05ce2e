package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aarthurcreis/hungryhub-proto/models"
	"github.com/aarthurcreis/hungryhub-proto/utils"
)

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func requestWithRoles(roles ...models.Role) *http.Request {
	req := httptest.NewRequest("GET", "/reports/sales", nil)
	claims := &utils.Claims{UserID: "user-1", Email: "user@example.com", Roles: roles}
	return req.WithContext(context.WithValue(req.Context(), UserContextKey, claims))
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	next, called := okHandler()
	rec := httptest.NewRecorder()

	AuthMiddleware(next).ServeHTTP(rec, httptest.NewRequest("GET", "/profile", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *called)
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	next, called := okHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/profile", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	AuthMiddleware(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *called)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	token, err := utils.GenerateJWT("user-1", "user@example.com", []models.Role{models.RoleCliente})
	require.NoError(t, err)

	var seen *utils.Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ClaimsFrom(r)
		w.WriteHeader(http.StatusOK)
	})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	AuthMiddleware(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "user@example.com", seen.Email)
	assert.True(t, seen.HasRole(models.RoleCliente))
}

func TestRequireRoleDeniesMissingRole(t *testing.T) {
	// A gerente asking for an administrador page is refused.
	next, called := okHandler()
	rec := httptest.NewRecorder()

	RequireRole(models.RoleAdministrador)(next).ServeHTTP(rec, requestWithRoles(models.RoleGerente))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, *called)
}

func TestRequireRoleAllowsMatchingRole(t *testing.T) {
	next, called := okHandler()
	rec := httptest.NewRecorder()

	RequireRole(models.RoleGerente)(next).ServeHTTP(rec, requestWithRoles(models.RoleGerente))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *called)
}

func TestRequireRoleDeniesAnonymous(t *testing.T) {
	next, called := okHandler()
	rec := httptest.NewRecorder()

	RequireRole(models.RoleGerente)(next).ServeHTTP(rec, httptest.NewRequest("GET", "/reports/sales", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *called)
}

func TestNoRequiredRoleAllowsAnyIdentity(t *testing.T) {
	// The same gerente identity is fine on a page with no required role:
	// only AuthMiddleware gates it, and the claims are already resolved.
	next, called := okHandler()
	rec := httptest.NewRecorder()

	next.ServeHTTP(rec, requestWithRoles(models.RoleGerente))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *called)
}
