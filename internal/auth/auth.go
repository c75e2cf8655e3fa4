package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carried by every access token.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type Authenticator interface {
	GenerateToken(userID, role string) (string, error)
	ValidateToken(token string) (*Claims, error)
}
