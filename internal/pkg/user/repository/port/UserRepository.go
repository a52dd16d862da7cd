package repository

import (
	"context"

	user "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/user/domain"
)

// UserRepository is the lookup contract for the participant directory.
type UserRepository interface {
	// FindByID returns the user or user.ErrNotFound.
	FindByID(ctx context.Context, id string) (*user.User, error)

	// FindByNameAmong resolves a display name to a user restricted to the
	// given candidate ids. The match is case-insensitive and exact; when
	// several candidates share the name the first match wins. Returns
	// user.ErrNotFound when nobody matches.
	FindByNameAmong(ctx context.Context, name string, candidateIDs []string) (*user.User, error)

	// SetPlatformConnected flips the meeting-platform link flag.
	SetPlatformConnected(ctx context.Context, id string, connected bool) error
}
