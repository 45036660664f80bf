package testutil

import (
	"context"
	"time"

	"github.com/upassistify/upassistify/internal/domain/newsletter"
	ierr "github.com/upassistify/upassistify/internal/errors"
	"github.com/upassistify/upassistify/internal/types"
)

// InMemoryNewsletterStore implements newsletter.Repository
type InMemoryNewsletterStore struct {
	*InMemoryStore[*newsletter.ScheduledNewsletter]
}

func NewInMemoryNewsletterStore() *InMemoryNewsletterStore {
	return &InMemoryNewsletterStore{
		InMemoryStore: NewInMemoryStore[*newsletter.ScheduledNewsletter](),
	}
}

func copyNewsletter(n *newsletter.ScheduledNewsletter) *newsletter.ScheduledNewsletter {
	if n == nil {
		return nil
	}
	copied := *n
	return &copied
}

func (s *InMemoryNewsletterStore) Create(ctx context.Context, n *newsletter.ScheduledNewsletter) error {
	return s.InMemoryStore.Create(ctx, n.ID, copyNewsletter(n))
}

func (s *InMemoryNewsletterStore) Get(ctx context.Context, id string) (*newsletter.ScheduledNewsletter, error) {
	n, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("newsletter not found").
			Mark(ierr.ErrNotFound)
	}
	return copyNewsletter(n), nil
}

func newsletterFilterFn(_ context.Context, n *newsletter.ScheduledNewsletter, filter interface{}) bool {
	f, ok := filter.(*newsletter.Filter)
	if !ok || f == nil || f.Status == nil {
		return true
	}
	return n.Status == *f.Status
}

func (s *InMemoryNewsletterStore) List(ctx context.Context, filter *newsletter.Filter) ([]*newsletter.ScheduledNewsletter, error) {
	if filter == nil {
		filter = &newsletter.Filter{}
	}
	items, err := s.InMemoryStore.List(ctx, filter, newsletterFilterFn, func(i, j *newsletter.ScheduledNewsletter) bool {
		return i.ScheduledFor.After(j.ScheduledFor)
	})
	if err != nil {
		return nil, err
	}
	result := make([]*newsletter.ScheduledNewsletter, len(items))
	for i, n := range items {
		result[i] = copyNewsletter(n)
	}
	return result, nil
}

func (s *InMemoryNewsletterStore) Count(ctx context.Context, filter *newsletter.Filter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, newsletterFilterFn)
}

func (s *InMemoryNewsletterStore) ListDue(ctx context.Context, now time.Time, limit int) ([]*newsletter.ScheduledNewsletter, error) {
	items, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, n *newsletter.ScheduledNewsletter, _ interface{}) bool {
		return n.IsDue(now)
	}, func(i, j *newsletter.ScheduledNewsletter) bool {
		return i.ScheduledFor.Before(j.ScheduledFor)
	})
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	result := make([]*newsletter.ScheduledNewsletter, len(items))
	for i, n := range items {
		result[i] = copyNewsletter(n)
	}
	return result, nil
}

func (s *InMemoryNewsletterStore) Claim(ctx context.Context, id string, now time.Time) (bool, error) {
	return s.UpdateIf(ctx, id, func(n *newsletter.ScheduledNewsletter) (*newsletter.ScheduledNewsletter, bool) {
		if n.Status != types.NewsletterStatusPending {
			return n, false
		}
		updated := copyNewsletter(n)
		updated.Status = types.NewsletterStatusProcessing
		updated.ClaimedAt = &now
		updated.UpdatedAt = now
		return updated, true
	})
}

func (s *InMemoryNewsletterStore) finalize(ctx context.Context, id string, fn func(n *newsletter.ScheduledNewsletter)) error {
	ok, err := s.UpdateIf(ctx, id, func(n *newsletter.ScheduledNewsletter) (*newsletter.ScheduledNewsletter, bool) {
		if n.Status != types.NewsletterStatusProcessing {
			return n, false
		}
		updated := copyNewsletter(n)
		fn(updated)
		return updated, true
	})
	if err != nil {
		return err
	}
	if !ok {
		return ierr.NewError("newsletter is not processing").
			WithHint("newsletter not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryNewsletterStore) MarkSent(ctx context.Context, id string, sentAt time.Time, recipients int) error {
	return s.finalize(ctx, id, func(n *newsletter.ScheduledNewsletter) {
		n.Status = types.NewsletterStatusSent
		n.SentAt = &sentAt
		n.RecipientsCount = recipients
		n.ErrorMessage = nil
		n.UpdatedAt = sentAt
	})
}

func (s *InMemoryNewsletterStore) MarkFailed(ctx context.Context, id string, reason string) error {
	return s.finalize(ctx, id, func(n *newsletter.ScheduledNewsletter) {
		n.Status = types.NewsletterStatusFailed
		n.ErrorMessage = &reason
		n.UpdatedAt = time.Now().UTC()
	})
}

func (s *InMemoryNewsletterStore) FailStaleClaims(ctx context.Context, claimedBefore time.Time, reason string) (int, error) {
	stale, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, n *newsletter.ScheduledNewsletter, _ interface{}) bool {
		return n.Status == types.NewsletterStatusProcessing && n.ClaimedAt != nil && n.ClaimedAt.Before(claimedBefore)
	}, nil)
	if err != nil {
		return 0, err
	}

	moved := 0
	for _, n := range stale {
		if err := s.MarkFailed(ctx, n.ID, reason); err == nil {
			moved++
		}
	}
	return moved, nil
}
