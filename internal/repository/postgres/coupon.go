package postgres

import (
	"context"
	"time"

	"github.com/upassistify/upassistify/internal/domain/coupon"
	"github.com/upassistify/upassistify/internal/logger"
	"github.com/upassistify/upassistify/internal/postgres"
	"github.com/upassistify/upassistify/internal/types"
)

type couponRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewCouponRepository(db *postgres.DB, logger *logger.Logger) coupon.Repository {
	return &couponRepository{db: db, logger: logger}
}

const couponColumns = `id, code, discount_type, discount_value, is_active, max_uses, current_uses,
	valid_from, valid_until, stripe_coupon_id, sync_status, created_by, created_at, updated_at`

func (r *couponRepository) Create(ctx context.Context, c *coupon.Coupon) error {
	query := `
	INSERT INTO coupons (` + couponColumns + `)
	VALUES (:id, :code, :discount_type, :discount_value, :is_active, :max_uses, :current_uses,
		:valid_from, :valid_until, :stripe_coupon_id, :sync_status, :created_by, :created_at, :updated_at)
	`
	_, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, c)
	return wrapError(err, "coupon", c.Code)
}

func (r *couponRepository) Get(ctx context.Context, id string) (*coupon.Coupon, error) {
	var c coupon.Coupon
	err := r.db.GetQuerier(ctx).GetContext(ctx, &c,
		`SELECT `+couponColumns+` FROM coupons WHERE id = $1`, id)
	if err != nil {
		return nil, wrapError(err, "coupon", id)
	}
	return &c, nil
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	var c coupon.Coupon
	err := r.db.GetQuerier(ctx).GetContext(ctx, &c,
		`SELECT `+couponColumns+` FROM coupons WHERE code = $1`, coupon.NormalizeCode(code))
	if err != nil {
		return nil, wrapError(err, "coupon", code)
	}
	return &c, nil
}

func (r *couponRepository) List(ctx context.Context, filter *types.QueryFilter) ([]*coupon.Coupon, error) {
	limit, offset := limitOffset(filter.GetLimit(), filter.GetOffset(), filter.IsUnlimited())

	var coupons []*coupon.Coupon
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &coupons,
		`SELECT `+couponColumns+` FROM coupons ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, wrapError(err, "coupon", "")
	}
	return coupons, nil
}

func (r *couponRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, `SELECT COUNT(*) FROM coupons`); err != nil {
		return 0, wrapError(err, "coupon", "")
	}
	return count, nil
}

func (r *couponRepository) Update(ctx context.Context, c *coupon.Coupon) error {
	query := `
	UPDATE coupons SET
		is_active = :is_active,
		max_uses = :max_uses,
		valid_from = :valid_from,
		valid_until = :valid_until,
		stripe_coupon_id = :stripe_coupon_id,
		sync_status = :sync_status,
		updated_at = :updated_at
	WHERE id = :id
	`
	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, c)
	if err != nil {
		return wrapError(err, "coupon", c.ID)
	}
	return requireAffected(result, "coupon", c.ID)
}

func (r *couponRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return wrapError(err, "coupon", id)
	}
	return requireAffected(result, "coupon", id)
}

func (r *couponRepository) IncrementUses(ctx context.Context, id string) (bool, error) {
	query := `
	UPDATE coupons
	SET current_uses = current_uses + 1, updated_at = now()
	WHERE id = $1
		AND is_active
		AND sync_status = $2
		AND (max_uses IS NULL OR current_uses < max_uses)
	`
	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, query, id, types.CouponSyncStatusSynced)
	if err != nil {
		return false, wrapError(err, "coupon", id)
	}
	return affected(result)
}

func (r *couponRepository) MarkSynced(ctx context.Context, id string, externalReference *string) error {
	query := `
	UPDATE coupons
	SET sync_status = $2, stripe_coupon_id = $3, is_active = true, updated_at = now()
	WHERE id = $1 AND sync_status = $4
	`
	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		id, types.CouponSyncStatusSynced, externalReference, types.CouponSyncStatusPending)
	if err != nil {
		return wrapError(err, "coupon", id)
	}
	return requireAffected(result, "coupon", id)
}

func (r *couponRepository) ListProvisional(ctx context.Context, createdBefore time.Time) ([]*coupon.Coupon, error) {
	var coupons []*coupon.Coupon
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &coupons,
		`SELECT `+couponColumns+` FROM coupons WHERE sync_status = $1 AND created_at < $2 ORDER BY created_at`,
		types.CouponSyncStatusPending, createdBefore)
	if err != nil {
		return nil, wrapError(err, "coupon", "")
	}
	return coupons, nil
}
