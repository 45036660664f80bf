package testutil

import (
	"context"
	"time"

	"github.com/upassistify/upassistify/internal/domain/coupon"
	ierr "github.com/upassistify/upassistify/internal/errors"
	"github.com/upassistify/upassistify/internal/types"
)

// InMemoryCouponStore implements coupon.Repository
type InMemoryCouponStore struct {
	*InMemoryStore[*coupon.Coupon]
}

func NewInMemoryCouponStore() *InMemoryCouponStore {
	return &InMemoryCouponStore{
		InMemoryStore: NewInMemoryStore[*coupon.Coupon](),
	}
}

func copyCoupon(c *coupon.Coupon) *coupon.Coupon {
	if c == nil {
		return nil
	}
	copied := *c
	return &copied
}

func couponNotFound(key string) error {
	return ierr.NewError("coupon not found").
		WithHint("coupon not found").
		WithReportableDetails(map[string]any{
			"id": key,
		}).
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryCouponStore) Create(ctx context.Context, c *coupon.Coupon) error {
	if c == nil {
		return ierr.NewError("coupon cannot be nil").
			WithHint("Coupon cannot be nil").
			Mark(ierr.ErrValidation)
	}

	if _, exists := s.Find(ctx, func(existing *coupon.Coupon) bool {
		return existing.Code == c.Code
	}); exists {
		return ierr.NewError("duplicate coupon code").
			WithHint("coupon already exists").
			Mark(ierr.ErrAlreadyExists)
	}

	return s.InMemoryStore.Create(ctx, c.ID, copyCoupon(c))
}

func (s *InMemoryCouponStore) Get(ctx context.Context, id string) (*coupon.Coupon, error) {
	c, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, couponNotFound(id)
	}
	return copyCoupon(c), nil
}

func (s *InMemoryCouponStore) GetByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	normalized := coupon.NormalizeCode(code)
	c, ok := s.Find(ctx, func(c *coupon.Coupon) bool {
		return c.Code == normalized
	})
	if !ok {
		return nil, couponNotFound(code)
	}
	return copyCoupon(c), nil
}

func (s *InMemoryCouponStore) List(ctx context.Context, filter *types.QueryFilter) ([]*coupon.Coupon, error) {
	items, err := s.InMemoryStore.List(ctx, filter, nil, func(i, j *coupon.Coupon) bool {
		return i.CreatedAt.After(j.CreatedAt)
	})
	if err != nil {
		return nil, err
	}

	result := make([]*coupon.Coupon, len(items))
	for i, c := range items {
		result[i] = copyCoupon(c)
	}
	return result, nil
}

func (s *InMemoryCouponStore) Count(ctx context.Context) (int, error) {
	return s.InMemoryStore.Count(ctx, nil, nil)
}

func (s *InMemoryCouponStore) Update(ctx context.Context, c *coupon.Coupon) error {
	if err := s.InMemoryStore.Update(ctx, c.ID, copyCoupon(c)); err != nil {
		return couponNotFound(c.ID)
	}
	return nil
}

func (s *InMemoryCouponStore) Delete(ctx context.Context, id string) error {
	if err := s.InMemoryStore.Delete(ctx, id); err != nil {
		return couponNotFound(id)
	}
	return nil
}

func (s *InMemoryCouponStore) IncrementUses(ctx context.Context, id string) (bool, error) {
	return s.UpdateIf(ctx, id, func(c *coupon.Coupon) (*coupon.Coupon, bool) {
		if !c.IsRedeemable() || !c.HasUsesRemaining() {
			return c, false
		}
		updated := copyCoupon(c)
		updated.CurrentUses++
		updated.UpdatedAt = time.Now().UTC()
		return updated, true
	})
}

func (s *InMemoryCouponStore) MarkSynced(ctx context.Context, id string, externalReference *string) error {
	ok, err := s.UpdateIf(ctx, id, func(c *coupon.Coupon) (*coupon.Coupon, bool) {
		if c.SyncStatus != types.CouponSyncStatusPending {
			return c, false
		}
		updated := copyCoupon(c)
		updated.SyncStatus = types.CouponSyncStatusSynced
		updated.ExternalReference = externalReference
		updated.IsActive = true
		updated.UpdatedAt = time.Now().UTC()
		return updated, true
	})
	if err != nil {
		return err
	}
	if !ok {
		return couponNotFound(id)
	}
	return nil
}

func (s *InMemoryCouponStore) ListProvisional(ctx context.Context, createdBefore time.Time) ([]*coupon.Coupon, error) {
	return s.InMemoryStore.List(ctx, nil, func(_ context.Context, c *coupon.Coupon, _ interface{}) bool {
		return c.SyncStatus == types.CouponSyncStatusPending && c.CreatedAt.Before(createdBefore)
	}, func(i, j *coupon.Coupon) bool {
		return i.CreatedAt.Before(j.CreatedAt)
	})
}
