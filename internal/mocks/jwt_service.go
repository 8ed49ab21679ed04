package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/flashforge/internal/service/auth"
)

// MockJWTService implements auth.JWTService for testing
type MockJWTService struct {
	// GenerateTokenFn allows test cases to mock the GenerateToken behavior
	GenerateTokenFn func(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateTokenFn allows test cases to mock the ValidateToken behavior
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	// Default values used when functions aren't explicitly defined
	Token       string
	Err         error
	ValidateErr error
	Claims      *auth.Claims
}

var _ auth.JWTService = (*MockJWTService)(nil)

// GenerateToken implements the auth.JWTService interface
func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, userID)
	}
	return m.Token, m.Err
}

// ValidateToken implements the auth.JWTService interface
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	return m.Claims, m.ValidateErr
}

// NewMockJWTServiceForUser returns a MockJWTService that accepts token and
// authenticates it as userID. Any other token fails with auth.ErrInvalidToken.
func NewMockJWTServiceForUser(token string, userID uuid.UUID) *MockJWTService {
	return &MockJWTService{
		ValidateTokenFn: func(_ context.Context, tokenString string) (*auth.Claims, error) {
			if tokenString != token {
				return nil, auth.ErrInvalidToken
			}
			return &auth.Claims{UserID: userID, Subject: userID.String()}, nil
		},
	}
}
