package main

import (
	"context"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/aarthurcreis/hungryhub-proto/models"
	"github.com/aarthurcreis/hungryhub-proto/store"
)

// seedTestUsers creates one account per role for manual testing. Existing
// accounts are left alone so the seed can run on every start.
func seedTestUsers(st store.Store) error {
	testUsers := []struct {
		email string
		name  string
		role  models.Role
	}{
		{"cliente@gmail.com", "Cliente Teste", models.RoleCliente},
		{"entregador@gmail.com", "Entregador Teste", models.RoleEntregador},
		{"gerente@gmail.com", "Gerente Teste", models.RoleGerente},
		{"administrador@gmail.com", "Administrador Teste", models.RoleAdministrador},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	hashed, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	for _, u := range testUsers {
		userID, err := st.CreateProfile(ctx, models.Profile{
			Name:      u.name,
			Email:     u.email,
			Password:  string(hashed),
			CreatedAt: time.Now(),
		})
		if err == store.ErrDuplicateEmail {
			continue
		}
		if err != nil {
			return err
		}
		if err := st.AddRole(ctx, userID, u.role); err != nil && err != store.ErrDuplicateRole {
			return err
		}
		log.Printf("Seeded test user %s (%s)", u.email, u.role)
	}
	return nil
}
