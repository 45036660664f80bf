package user

import (
	"context"

	"github.com/upassistify/upassistify/internal/types"
)

// ProfileRepository reads account profiles
type ProfileRepository interface {
	Get(ctx context.Context, id string) (*Profile, error)
	List(ctx context.Context, filter *types.QueryFilter) ([]*Profile, error)
	Count(ctx context.Context) (int, error)
	// ListRecipients returns every profile with an email address
	ListRecipients(ctx context.Context) ([]*Profile, error)
}

// RoleRepository reads role grants
type RoleRepository interface {
	HasRole(ctx context.Context, userID string, role string) (bool, error)
}
