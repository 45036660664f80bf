package postgres

import (
	"context"
	"time"

	"github.com/upassistify/upassistify/internal/domain/blog"
	"github.com/upassistify/upassistify/internal/logger"
	"github.com/upassistify/upassistify/internal/postgres"
)

type blogRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewBlogRepository(db *postgres.DB, logger *logger.Logger) blog.Repository {
	return &blogRepository{db: db, logger: logger}
}

const postColumns = `id, title, slug, excerpt, content, cover_image_url, author_id,
	published, published_at, created_at, updated_at`

func (r *blogRepository) Create(ctx context.Context, post *blog.Post) error {
	query := `
	INSERT INTO blog_posts (` + postColumns + `)
	VALUES (:id, :title, :slug, :excerpt, :content, :cover_image_url, :author_id,
		:published, :published_at, :created_at, :updated_at)
	`
	_, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, post)
	return wrapError(err, "blog post", post.Slug)
}

func (r *blogRepository) Get(ctx context.Context, id string) (*blog.Post, error) {
	var post blog.Post
	err := r.db.GetQuerier(ctx).GetContext(ctx, &post,
		`SELECT `+postColumns+` FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return nil, wrapError(err, "blog post", id)
	}
	return &post, nil
}

func (r *blogRepository) GetBySlug(ctx context.Context, slug string) (*blog.Post, error) {
	var post blog.Post
	err := r.db.GetQuerier(ctx).GetContext(ctx, &post,
		`SELECT `+postColumns+` FROM blog_posts WHERE slug = $1`, slug)
	if err != nil {
		return nil, wrapError(err, "blog post", slug)
	}
	return &post, nil
}

func publishedArg(filter *blog.Filter) any {
	if filter == nil || filter.Published == nil {
		return nil
	}
	return *filter.Published
}

func (r *blogRepository) List(ctx context.Context, filter *blog.Filter) ([]*blog.Post, error) {
	if filter == nil {
		filter = &blog.Filter{}
	}
	limit, offset := limitOffset(filter.GetLimit(), filter.GetOffset(), filter.IsUnlimited())

	var posts []*blog.Post
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &posts, `
	SELECT `+postColumns+` FROM blog_posts
	WHERE ($1::boolean IS NULL OR published = $1)
	ORDER BY COALESCE(published_at, created_at) DESC
	LIMIT $2 OFFSET $3`, publishedArg(filter), limit, offset)
	if err != nil {
		return nil, wrapError(err, "blog post", "")
	}
	return posts, nil
}

func (r *blogRepository) Count(ctx context.Context, filter *blog.Filter) (int, error) {
	var count int
	err := r.db.GetQuerier(ctx).GetContext(ctx, &count,
		`SELECT COUNT(*) FROM blog_posts WHERE ($1::boolean IS NULL OR published = $1)`,
		publishedArg(filter))
	if err != nil {
		return 0, wrapError(err, "blog post", "")
	}
	return count, nil
}

func (r *blogRepository) Update(ctx context.Context, post *blog.Post) error {
	query := `
	UPDATE blog_posts SET
		title = :title,
		slug = :slug,
		excerpt = :excerpt,
		content = :content,
		cover_image_url = :cover_image_url,
		published = :published,
		published_at = :published_at,
		updated_at = :updated_at
	WHERE id = :id
	`
	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, post)
	if err != nil {
		return wrapError(err, "blog post", post.ID)
	}
	return requireAffected(result, "blog post", post.ID)
}

func (r *blogRepository) SlugExists(ctx context.Context, slug string, excludeID string) (bool, error) {
	var exists bool
	err := r.db.GetQuerier(ctx).GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM blog_posts WHERE slug = $1 AND id <> $2)`, slug, excludeID)
	if err != nil {
		return false, wrapError(err, "blog post", slug)
	}
	return exists, nil
}

func (r *blogRepository) ListDueForPublish(ctx context.Context, now time.Time) ([]*blog.Post, error) {
	var posts []*blog.Post
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &posts, `
	SELECT `+postColumns+` FROM blog_posts
	WHERE published = false AND published_at IS NOT NULL AND published_at <= $1
	ORDER BY published_at`, now)
	if err != nil {
		return nil, wrapError(err, "blog post", "")
	}
	return posts, nil
}

func (r *blogRepository) PublishIfDue(ctx context.Context, id string, now time.Time) (bool, error) {
	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, `
	UPDATE blog_posts
	SET published = true, updated_at = $2
	WHERE id = $1 AND published = false AND published_at IS NOT NULL AND published_at <= $2`,
		id, now)
	if err != nil {
		return false, wrapError(err, "blog post", id)
	}
	return affected(result)
}
