package postgres

import (
	"context"

	"github.com/upassistify/upassistify/internal/domain/user"
	"github.com/upassistify/upassistify/internal/logger"
	"github.com/upassistify/upassistify/internal/postgres"
	"github.com/upassistify/upassistify/internal/types"
)

type profileRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewProfileRepository(db *postgres.DB, logger *logger.Logger) user.ProfileRepository {
	return &profileRepository{db: db, logger: logger}
}

const profileColumns = `id, COALESCE(email, '') AS email, full_name, plan_type, created_at`

func (r *profileRepository) Get(ctx context.Context, id string) (*user.Profile, error) {
	var p user.Profile
	err := r.db.GetQuerier(ctx).GetContext(ctx, &p,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	if err != nil {
		return nil, wrapError(err, "profile", id)
	}
	return &p, nil
}

func (r *profileRepository) List(ctx context.Context, filter *types.QueryFilter) ([]*user.Profile, error) {
	limit, offset := limitOffset(filter.GetLimit(), filter.GetOffset(), filter.IsUnlimited())

	var profiles []*user.Profile
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &profiles,
		`SELECT `+profileColumns+` FROM profiles ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, wrapError(err, "profile", "")
	}
	return profiles, nil
}

func (r *profileRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, `SELECT COUNT(*) FROM profiles`); err != nil {
		return 0, wrapError(err, "profile", "")
	}
	return count, nil
}

func (r *profileRepository) ListRecipients(ctx context.Context) ([]*user.Profile, error) {
	var profiles []*user.Profile
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &profiles,
		`SELECT `+profileColumns+` FROM profiles WHERE email IS NOT NULL AND email <> '' ORDER BY created_at`)
	if err != nil {
		return nil, wrapError(err, "profile", "")
	}
	return profiles, nil
}

type roleRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewRoleRepository(db *postgres.DB, logger *logger.Logger) user.RoleRepository {
	return &roleRepository{db: db, logger: logger}
}

func (r *roleRepository) HasRole(ctx context.Context, userID string, role string) (bool, error) {
	var exists bool
	err := r.db.GetQuerier(ctx).GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM user_roles WHERE user_id = $1 AND role = $2)`, userID, role)
	if err != nil {
		return false, wrapError(err, "user role", userID)
	}
	return exists, nil
}
