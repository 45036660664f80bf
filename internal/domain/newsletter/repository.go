package newsletter

import (
	"context"
	"time"

	"github.com/upassistify/upassistify/internal/types"
)

// Filter narrows newsletter listings
type Filter struct {
	*types.QueryFilter
	Status *types.NewsletterStatus `form:"status"`
}

// Repository defines the interface for scheduled newsletter data access
type Repository interface {
	Create(ctx context.Context, n *ScheduledNewsletter) error
	Get(ctx context.Context, id string) (*ScheduledNewsletter, error)
	List(ctx context.Context, filter *Filter) ([]*ScheduledNewsletter, error)
	Count(ctx context.Context, filter *Filter) (int, error)

	// ListDue returns pending newsletters scheduled at or before now, oldest first
	ListDue(ctx context.Context, now time.Time, limit int) ([]*ScheduledNewsletter, error)

	// Claim moves a newsletter from pending to processing.
	// It reports false when the row was no longer pending.
	Claim(ctx context.Context, id string, now time.Time) (bool, error)

	// MarkSent finalizes a processing newsletter as sent
	MarkSent(ctx context.Context, id string, sentAt time.Time, recipients int) error

	// MarkFailed finalizes a processing newsletter as failed
	MarkFailed(ctx context.Context, id string, reason string) error

	// FailStaleClaims fails newsletters left processing since before claimedBefore
	// and returns how many rows it moved.
	FailStaleClaims(ctx context.Context, claimedBefore time.Time, reason string) (int, error)
}
