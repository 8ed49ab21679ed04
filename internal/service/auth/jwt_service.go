package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService verifies the bearer tokens issued by the authentication provider.
type JWTService interface {
	// GenerateToken creates a signed access token for userID. It is used to
	// mint development tokens; production tokens come from the provider.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken validates the provided token string and extracts the claims.
	// Returns the claims if the token is valid, or an error if validation fails
	// (expired, invalid signature, subject that is not a user ID, etc.).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims holds the verified identity carried by a token.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
