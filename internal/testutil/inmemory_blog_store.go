package testutil

import (
	"context"
	"time"

	"github.com/upassistify/upassistify/internal/domain/blog"
	ierr "github.com/upassistify/upassistify/internal/errors"
)

// InMemoryBlogStore implements blog.Repository
type InMemoryBlogStore struct {
	*InMemoryStore[*blog.Post]
}

func NewInMemoryBlogStore() *InMemoryBlogStore {
	return &InMemoryBlogStore{
		InMemoryStore: NewInMemoryStore[*blog.Post](),
	}
}

func copyPost(p *blog.Post) *blog.Post {
	if p == nil {
		return nil
	}
	copied := *p
	return &copied
}

func postNotFound(key string) error {
	return ierr.NewError("blog post not found").
		WithHint("blog post not found").
		WithReportableDetails(map[string]any{
			"id": key,
		}).
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryBlogStore) Create(ctx context.Context, post *blog.Post) error {
	if _, exists := s.Find(ctx, func(p *blog.Post) bool { return p.Slug == post.Slug }); exists {
		return ierr.NewError("duplicate slug").
			WithHint("blog post already exists").
			Mark(ierr.ErrAlreadyExists)
	}
	return s.InMemoryStore.Create(ctx, post.ID, copyPost(post))
}

func (s *InMemoryBlogStore) Get(ctx context.Context, id string) (*blog.Post, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, postNotFound(id)
	}
	return copyPost(p), nil
}

func (s *InMemoryBlogStore) GetBySlug(ctx context.Context, slug string) (*blog.Post, error) {
	p, ok := s.Find(ctx, func(p *blog.Post) bool { return p.Slug == slug })
	if !ok {
		return nil, postNotFound(slug)
	}
	return copyPost(p), nil
}

func blogFilterFn(_ context.Context, p *blog.Post, filter interface{}) bool {
	f, ok := filter.(*blog.Filter)
	if !ok || f == nil || f.Published == nil {
		return true
	}
	return p.Published == *f.Published
}

func postSortKey(p *blog.Post) time.Time {
	if p.PublishedAt != nil {
		return *p.PublishedAt
	}
	return p.CreatedAt
}

func (s *InMemoryBlogStore) List(ctx context.Context, filter *blog.Filter) ([]*blog.Post, error) {
	if filter == nil {
		filter = &blog.Filter{}
	}
	items, err := s.InMemoryStore.List(ctx, filter, blogFilterFn, func(i, j *blog.Post) bool {
		return postSortKey(i).After(postSortKey(j))
	})
	if err != nil {
		return nil, err
	}
	result := make([]*blog.Post, len(items))
	for i, p := range items {
		result[i] = copyPost(p)
	}
	return result, nil
}

func (s *InMemoryBlogStore) Count(ctx context.Context, filter *blog.Filter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, blogFilterFn)
}

func (s *InMemoryBlogStore) Update(ctx context.Context, post *blog.Post) error {
	if err := s.InMemoryStore.Update(ctx, post.ID, copyPost(post)); err != nil {
		return postNotFound(post.ID)
	}
	return nil
}

func (s *InMemoryBlogStore) SlugExists(ctx context.Context, slug string, excludeID string) (bool, error) {
	_, exists := s.Find(ctx, func(p *blog.Post) bool {
		return p.Slug == slug && p.ID != excludeID
	})
	return exists, nil
}

func (s *InMemoryBlogStore) ListDueForPublish(ctx context.Context, now time.Time) ([]*blog.Post, error) {
	return s.InMemoryStore.List(ctx, nil, func(_ context.Context, p *blog.Post, _ interface{}) bool {
		return p.IsDue(now)
	}, func(i, j *blog.Post) bool {
		return i.PublishedAt.Before(*j.PublishedAt)
	})
}

func (s *InMemoryBlogStore) PublishIfDue(ctx context.Context, id string, now time.Time) (bool, error) {
	return s.UpdateIf(ctx, id, func(p *blog.Post) (*blog.Post, bool) {
		if !p.IsDue(now) {
			return p, false
		}
		updated := copyPost(p)
		updated.Published = true
		updated.UpdatedAt = now
		return updated, true
	})
}
