package repository

import (
	"context"
	"time"
)

// UserReader is the read side other modules may depend on.
type UserReader interface {
	GetUserByID(ctx context.Context, userID int64) (User, error)
	GetUserRole(ctx context.Context, userID int64) (string, error)
}

// AuthRepository defines the interface for authentication data operations.
// This allows services to depend on an abstraction rather than concrete implementation,
// improving testability and modularity.
type AuthRepository interface {
	UserReader

	// User operations
	CreateUser(ctx context.Context, params CreateUserParams) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	UpdateUserName(ctx context.Context, userID int64, name string) (User, error)
	SetUserRole(ctx context.Context, userID int64, role string) (User, error)
	UpdateTargets(ctx context.Context, userID int64, t Targets) (User, error)
	ListUsers(ctx context.Context, role *string) ([]User, error)

	// Refresh token operations
	CreateRefreshToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (int64, time.Time, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllRefreshTokens(ctx context.Context, userID int64) error

	// Category limit operations
	ListCategoryLimits(ctx context.Context, userID int64) ([]CategoryLimit, error)
	UpsertCategoryLimits(ctx context.Context, userID int64, limits []CategoryLimit) error
}

// Ensure Repository implements AuthRepository
var _ AuthRepository = (*Repository)(nil)
