package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/sird-api/internal/service/auth"
	"github.com/stretchr/testify/mock"
)

// JWTService is a mock of auth.JWTService.
type JWTService struct {
	mock.Mock
}

var _ auth.JWTService = (*JWTService)(nil)

// GenerateToken is a mock implementation of auth.JWTService.GenerateToken
func (m *JWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, time.Time, error) {
	args := m.Called(ctx, userID)
	expiresAt, _ := args.Get(1).(time.Time)
	return args.String(0), expiresAt, args.Error(2)
}

// ValidateToken is a mock implementation of auth.JWTService.ValidateToken
func (m *JWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	args := m.Called(ctx, tokenString)
	if claims, ok := args.Get(0).(*auth.Claims); ok {
		return claims, args.Error(1)
	}
	return nil, args.Error(1)
}

// Passwords is a mock of auth.PasswordHasher and auth.PasswordVerifier.
type Passwords struct {
	mock.Mock
}

var (
	_ auth.PasswordHasher   = (*Passwords)(nil)
	_ auth.PasswordVerifier = (*Passwords)(nil)
)

// Hash is a mock implementation of auth.PasswordHasher.Hash
func (m *Passwords) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

// Compare is a mock implementation of auth.PasswordVerifier.Compare
func (m *Passwords) Compare(hashedPassword, password string) error {
	args := m.Called(hashedPassword, password)
	return args.Error(0)
}
