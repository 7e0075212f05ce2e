package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/aarthurcreis/hungryhub-proto/models"
	"github.com/aarthurcreis/hungryhub-proto/store"
)

// AdminController handles user and role administration
type AdminController struct {
	Profiles store.ProfileStore
	Roles    store.RoleStore
}

// NewAdminController creates a new AdminController
func NewAdminController(profiles store.ProfileStore, roles store.RoleStore) *AdminController {
	return &AdminController{
		Profiles: profiles,
		Roles:    roles,
	}
}

// ListUsers retrieves every profile joined with its role set (administrador only)
func (ac *AdminController) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	profiles, err := ac.Profiles.ListProfiles(ctx)
	if err != nil {
		http.Error(w, "Failed to list users", http.StatusInternalServerError)
		return
	}

	users := make([]models.UserWithRoles, 0, len(profiles))
	for _, p := range profiles {
		roles, err := ac.Roles.RolesFor(ctx, p.ID)
		if err != nil {
			http.Error(w, "Failed to load roles", http.StatusInternalServerError)
			return
		}
		users = append(users, models.UserWithRoles{
			ID:    p.ID,
			Email: p.Email,
			Name:  p.Name,
			Roles: roles,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(users)
}

// AddRole grants a role to a user (administrador only). On failure the
// stored role set is untouched; the caller re-fetches before trusting its
// view.
func (ac *AdminController) AddRole(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	userID, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Role models.Role `json:"role"`
	}
	err = json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if !req.Role.Valid() {
		http.Error(w, "Invalid role", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := ac.Profiles.GetProfileByID(ctx, userID); err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	err = ac.Roles.AddRole(ctx, userID, req.Role)
	if err == store.ErrDuplicateRole {
		http.Error(w, "Role already assigned", http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, "Failed to add role", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode("Role added")
}

// RemoveRole revokes a role from a user (administrador only)
func (ac *AdminController) RemoveRole(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	userID, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	role := models.Role(params["role"])
	if !role.Valid() {
		http.Error(w, "Invalid role", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = ac.Roles.RemoveRole(ctx, userID, role)
	if err == store.ErrNotFound {
		http.Error(w, "Role not assigned", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to remove role", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode("Role removed")
}
