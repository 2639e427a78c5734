package dto

import "github.com/golang-jwt/jwt/v5"

// TokenClaims represents the JWT claims issued by the external auth service.
// This backend only validates tokens; it never issues them.
type TokenClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
