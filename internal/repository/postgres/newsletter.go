package postgres

import (
	"context"
	"time"

	"github.com/upassistify/upassistify/internal/domain/newsletter"
	"github.com/upassistify/upassistify/internal/logger"
	"github.com/upassistify/upassistify/internal/postgres"
	"github.com/upassistify/upassistify/internal/types"
)

type newsletterRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewNewsletterRepository(db *postgres.DB, logger *logger.Logger) newsletter.Repository {
	return &newsletterRepository{db: db, logger: logger}
}

const newsletterColumns = `id, subject, message, scheduled_for, status, sent_at, error_message,
	recipients_count, claimed_at, created_by, created_at, updated_at`

func (r *newsletterRepository) Create(ctx context.Context, n *newsletter.ScheduledNewsletter) error {
	query := `
	INSERT INTO scheduled_newsletters (` + newsletterColumns + `)
	VALUES (:id, :subject, :message, :scheduled_for, :status, :sent_at, :error_message,
		:recipients_count, :claimed_at, :created_by, :created_at, :updated_at)
	`
	_, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, n)
	return wrapError(err, "newsletter", n.ID)
}

func (r *newsletterRepository) Get(ctx context.Context, id string) (*newsletter.ScheduledNewsletter, error) {
	var n newsletter.ScheduledNewsletter
	err := r.db.GetQuerier(ctx).GetContext(ctx, &n,
		`SELECT `+newsletterColumns+` FROM scheduled_newsletters WHERE id = $1`, id)
	if err != nil {
		return nil, wrapError(err, "newsletter", id)
	}
	return &n, nil
}

func (r *newsletterRepository) List(ctx context.Context, filter *newsletter.Filter) ([]*newsletter.ScheduledNewsletter, error) {
	if filter == nil {
		filter = &newsletter.Filter{}
	}
	limit, offset := limitOffset(filter.GetLimit(), filter.GetOffset(), filter.IsUnlimited())

	var status any
	if filter.Status != nil {
		status = *filter.Status
	}

	var items []*newsletter.ScheduledNewsletter
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &items, `
	SELECT `+newsletterColumns+` FROM scheduled_newsletters
	WHERE ($1::text IS NULL OR status = $1)
	ORDER BY scheduled_for DESC
	LIMIT $2 OFFSET $3`, status, limit, offset)
	if err != nil {
		return nil, wrapError(err, "newsletter", "")
	}
	return items, nil
}

func (r *newsletterRepository) Count(ctx context.Context, filter *newsletter.Filter) (int, error) {
	var status any
	if filter != nil && filter.Status != nil {
		status = *filter.Status
	}

	var count int
	err := r.db.GetQuerier(ctx).GetContext(ctx, &count,
		`SELECT COUNT(*) FROM scheduled_newsletters WHERE ($1::text IS NULL OR status = $1)`, status)
	if err != nil {
		return 0, wrapError(err, "newsletter", "")
	}
	return count, nil
}

func (r *newsletterRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*newsletter.ScheduledNewsletter, error) {
	var items []*newsletter.ScheduledNewsletter
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &items, `
	SELECT `+newsletterColumns+` FROM scheduled_newsletters
	WHERE status = $1 AND scheduled_for <= $2
	ORDER BY scheduled_for
	LIMIT $3`, types.NewsletterStatusPending, now, limit)
	if err != nil {
		return nil, wrapError(err, "newsletter", "")
	}
	return items, nil
}

func (r *newsletterRepository) Claim(ctx context.Context, id string, now time.Time) (bool, error) {
	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, `
	UPDATE scheduled_newsletters
	SET status = $2, claimed_at = $3, updated_at = $3
	WHERE id = $1 AND status = $4`,
		id, types.NewsletterStatusProcessing, now, types.NewsletterStatusPending)
	if err != nil {
		return false, wrapError(err, "newsletter", id)
	}
	return affected(result)
}

func (r *newsletterRepository) MarkSent(ctx context.Context, id string, sentAt time.Time, recipients int) error {
	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, `
	UPDATE scheduled_newsletters
	SET status = $2, sent_at = $3, recipients_count = $4, error_message = NULL, updated_at = $3
	WHERE id = $1 AND status = $5`,
		id, types.NewsletterStatusSent, sentAt, recipients, types.NewsletterStatusProcessing)
	if err != nil {
		return wrapError(err, "newsletter", id)
	}
	return requireAffected(result, "newsletter", id)
}

func (r *newsletterRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, `
	UPDATE scheduled_newsletters
	SET status = $2, error_message = $3, updated_at = now()
	WHERE id = $1 AND status = $4`,
		id, types.NewsletterStatusFailed, reason, types.NewsletterStatusProcessing)
	if err != nil {
		return wrapError(err, "newsletter", id)
	}
	return requireAffected(result, "newsletter", id)
}

func (r *newsletterRepository) FailStaleClaims(ctx context.Context, claimedBefore time.Time, reason string) (int, error) {
	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, `
	UPDATE scheduled_newsletters
	SET status = $1, error_message = $2, updated_at = now()
	WHERE status = $3 AND claimed_at < $4`,
		types.NewsletterStatusFailed, reason, types.NewsletterStatusProcessing, claimedBefore)
	if err != nil {
		return 0, wrapError(err, "newsletter", "")
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, wrapError(err, "newsletter", "")
	}
	return int(n), nil
}
