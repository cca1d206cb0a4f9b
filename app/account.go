package app

import (
	"context"

	"github.com/CrestNiraj12/skillfeed/domain"
)

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	Name   string
	Bio    string
	Skills []string
}

// AccountService provides profiles and follow relationships.
type AccountService interface {
	// Profile returns a user's profile.
	Profile(ctx context.Context, userID string) (domain.Profile, error)

	// UpdateProfile edits the user's own profile.
	UpdateProfile(ctx context.Context, userID string, u ProfileUpdate) (domain.Profile, error)

	// Follow makes followerID follow userID.
	Follow(ctx context.Context, userID, followerID string) error

	// Unfollow reverses Follow.
	Unfollow(ctx context.Context, userID, followerID string) error

	// UsersByIDs resolves a batch of user IDs, e.g. for a followers list.
	UsersByIDs(ctx context.Context, ids []string) ([]domain.Profile, error)

	// TotalPostCount counts everything the user has published across kinds.
	TotalPostCount(ctx context.Context, userID string) (int, error)
}
