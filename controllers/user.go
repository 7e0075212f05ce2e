package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/aarthurcreis/hungryhub-proto/middleware"
	"github.com/aarthurcreis/hungryhub-proto/models"
	"github.com/aarthurcreis/hungryhub-proto/store"
	"github.com/aarthurcreis/hungryhub-proto/utils"
)

// UserController handles registration, login and profile requests
type UserController struct {
	Profiles store.ProfileStore
	Roles    store.RoleStore
}

// NewUserController creates a new UserController
func NewUserController(profiles store.ProfileStore, roles store.RoleStore) *UserController {
	return &UserController{
		Profiles: profiles,
		Roles:    roles,
	}
}

// Register handles user registration. New accounts start with the cliente role.
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Email) == "" {
		http.Error(w, "Email is required", http.StatusBadRequest)
		return
	}
	if req.Password == "" {
		http.Error(w, "Password is required", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Error hashing password", http.StatusInternalServerError)
		return
	}

	profile := models.Profile{
		Name:      req.Name,
		Email:     req.Email,
		Password:  string(hashedPassword),
		CreatedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	userID, err := uc.Profiles.CreateProfile(ctx, profile)
	if err == store.ErrDuplicateEmail {
		http.Error(w, "User already exists", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, "Error creating user", http.StatusInternalServerError)
		return
	}

	if err := uc.Roles.AddRole(ctx, userID, models.RoleCliente); err != nil {
		http.Error(w, "Error assigning default role", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode("User registered successfully. You can now log in.")
}

// Login handles user authentication. The resolved role set is embedded in
// the token so authorization never needs another lookup.
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	err := json.NewDecoder(r.Body).Decode(&creds)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	profile, err := uc.Profiles.GetProfileByEmail(ctx, creds.Email)
	if err != nil {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte(creds.Password))
	if err != nil {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	roles, err := uc.Roles.RolesFor(ctx, profile.ID)
	if err != nil {
		http.Error(w, "Error loading roles", http.StatusInternalServerError)
		return
	}

	token, err := utils.GenerateJWT(profile.ID.Hex(), profile.Email, roles)
	if err != nil {
		http.Error(w, "Error generating token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"token": token,
		"name":  profile.Name,
		"roles": roles,
	})
}

// GetProfile retrieves the authenticated user's profile with its roles
func (uc *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		http.Error(w, "Could not parse user from context", http.StatusUnauthorized)
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	profile, err := uc.Profiles.GetProfileByID(ctx, userID)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	roles, err := uc.Roles.RolesFor(ctx, profile.ID)
	if err != nil {
		http.Error(w, "Error loading roles", http.StatusInternalServerError)
		return
	}

	profile.Password = ""
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.UserWithRoles{
		ID:    profile.ID,
		Email: profile.Email,
		Name:  profile.Name,
		Roles: roles,
	})
}
