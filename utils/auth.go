package utils

import (
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/aarthurcreis/hungryhub-proto/models"
)

// JWT Secret Key
var JwtKey = []byte("your_secret_key") // This will be loaded from .env

// Claims represents the JWT claims. Roles is the user's full role set,
// resolved once at login; the middleware only reads it.
type Claims struct {
	UserID string        `json:"user_id"`
	Email  string        `json:"email"`
	Roles  []models.Role `json:"roles"`
	jwt.StandardClaims
}

// HasRole reports whether the claims carry the given role.
func (c *Claims) HasRole(role models.Role) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// GenerateJWT generates a JWT token for a user
func GenerateJWT(userID, email string, roles []models.Role) (string, error) {
	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Roles:  roles,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expirationTime.Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(JwtKey)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}
