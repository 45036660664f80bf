package blog

import (
	"context"
	"time"

	"github.com/upassistify/upassistify/internal/types"
)

// Filter narrows post listings
type Filter struct {
	*types.QueryFilter
	Published *bool
}

// Repository defines the interface for blog post data access
type Repository interface {
	Create(ctx context.Context, post *Post) error
	Get(ctx context.Context, id string) (*Post, error)
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	List(ctx context.Context, filter *Filter) ([]*Post, error)
	Count(ctx context.Context, filter *Filter) (int, error)
	Update(ctx context.Context, post *Post) error
	SlugExists(ctx context.Context, slug string, excludeID string) (bool, error)

	// ListDueForPublish returns unpublished posts whose published_at is at or before now
	ListDueForPublish(ctx context.Context, now time.Time) ([]*Post, error)

	// PublishIfDue flips published to true only if the post is still unpublished.
	// It reports whether this call changed the row.
	PublishIfDue(ctx context.Context, id string, now time.Time) (bool, error)
}
