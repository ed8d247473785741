// Package adapter provides implementations of external interfaces that other domains need.
// This follows the Anti-Corruption Layer pattern - auth domain provides adapters
// that satisfy consumer-driven interfaces defined by other domains.
package adapter

import (
	"context"
	"errors"

	"dealership_crm_backend/internal/access"
	"dealership_crm_backend/internal/auth"
	"dealership_crm_backend/internal/auth/repository"
)

// UserProviderAdapter implements auth.UserProvider using the auth repository.
type UserProviderAdapter struct {
	repo repository.UserReader
}

// NewUserProviderAdapter creates a new adapter for providing user info to other domains.
func NewUserProviderAdapter(repo repository.UserReader) *UserProviderAdapter {
	return &UserProviderAdapter{repo: repo}
}

func (a *UserProviderAdapter) GetUserByID(ctx context.Context, userID int64) (auth.Profile, error) {
	user, err := a.repo.GetUserByID(ctx, userID)
	if err != nil {
		return auth.Profile{}, err
	}
	return auth.Profile{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}, nil
}

var _ auth.UserProvider = (*UserProviderAdapter)(nil)

// RoleResolverAdapter implements access.RoleResolver. Policies see the role
// stored now, not the one embedded in the caller's token.
type RoleResolverAdapter struct {
	repo repository.UserReader
}

func NewRoleResolverAdapter(repo repository.UserReader) *RoleResolverAdapter {
	return &RoleResolverAdapter{repo: repo}
}

func (a *RoleResolverAdapter) CurrentRole(ctx context.Context, userID int64) (access.Role, error) {
	raw, err := a.repo.GetUserRole(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", access.ErrUnknownActor
	}
	if err != nil {
		return "", err
	}
	return access.ParseRole(raw)
}

var _ access.RoleResolver = (*RoleResolverAdapter)(nil)
