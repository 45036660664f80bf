package coupon

import (
	"context"
	"time"

	"github.com/upassistify/upassistify/internal/types"
)

// Repository defines the interface for coupon data access
type Repository interface {
	// Create inserts a coupon; duplicate codes fail with ErrAlreadyExists
	Create(ctx context.Context, coupon *Coupon) error
	Get(ctx context.Context, id string) (*Coupon, error)
	// GetByCode looks up a coupon by its normalized code
	GetByCode(ctx context.Context, code string) (*Coupon, error)
	List(ctx context.Context, filter *types.QueryFilter) ([]*Coupon, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, coupon *Coupon) error
	Delete(ctx context.Context, id string) error

	// IncrementUses atomically bumps current_uses when the coupon is redeemable
	// and below its limit. It reports false when no row qualified.
	IncrementUses(ctx context.Context, id string) (bool, error)

	// MarkSynced finalizes a provisional coupon
	MarkSynced(ctx context.Context, id string, externalReference *string) error

	// ListProvisional returns pending coupons created before the cutoff
	ListProvisional(ctx context.Context, createdBefore time.Time) ([]*Coupon, error)
}
