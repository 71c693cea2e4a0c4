package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// represents JWT claims issued to signed-in users
type Claims struct {
	OwnerID string `json:"owner_id"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}
