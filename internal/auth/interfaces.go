package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/hugh/go-rental/internal/database/models"
)

// Authenticator defines the interface for user authentication operations.
type Authenticator interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, input LoginInput) (*AuthResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error
}

// SessionResolver turns a presented token into a live user.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*Session, error)
}

// TokenService defines the interface for JWT token operations.
type TokenService interface {
	GenerateToken(user *models.User) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

var (
	_ Authenticator   = (*Service)(nil)
	_ SessionResolver = (*Service)(nil)
	_ TokenService    = (*JWTService)(nil)
)
