// Package auth provides authentication and user administration.
// This file defines the public API of the auth bounded context.
// Only types and interfaces defined here should be imported by other domains.
package auth

import "context"

// Profile represents user information that can be shared with other domains.
type Profile struct {
	ID    int64
	Name  string
	Email string
	Role  string
}

// UserProvider is an interface that other domains can use to get user information.
// This abstracts authentication details from other bounded contexts.
type UserProvider interface {
	// GetUserByID returns basic user information needed by other domains.
	GetUserByID(ctx context.Context, userID int64) (Profile, error)
}
