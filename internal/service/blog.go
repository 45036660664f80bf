package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/samber/lo"
	"github.com/upassistify/upassistify/internal/api/dto"
	"github.com/upassistify/upassistify/internal/cache"
	"github.com/upassistify/upassistify/internal/domain/blog"
	ierr "github.com/upassistify/upassistify/internal/errors"
	"github.com/upassistify/upassistify/internal/types"
)

// BlogService manages blog posts for admins and serves published posts publicly
type BlogService interface {
	CreatePost(ctx context.Context, req dto.CreateBlogPostRequest) (*dto.BlogPostResponse, error)
	UpdatePost(ctx context.Context, id string, req dto.UpdateBlogPostRequest) (*dto.BlogPostResponse, error)
	ListPosts(ctx context.Context, filter *blog.Filter) (*dto.ListBlogPostsResponse, error)

	// ListPublishedPosts and GetPublishedPost are cached until the next publish or edit
	ListPublishedPosts(ctx context.Context, filter *types.QueryFilter) (*dto.ListBlogPostsResponse, error)
	GetPublishedPost(ctx context.Context, slug string) (*dto.BlogPostResponse, error)

	UploadImage(ctx context.Context, data []byte) (*dto.UploadImageResponse, error)
}

type blogService struct {
	ServiceParams
}

func NewBlogService(params ServiceParams) BlogService {
	return &blogService{ServiceParams: params}
}

func (s *blogService) CreatePost(ctx context.Context, req dto.CreateBlogPostRequest) (*dto.BlogPostResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	postSlug, err := s.uniqueSlug(ctx, req.Title, "")
	if err != nil {
		return nil, err
	}

	post := req.ToPost(types.GetUserID(ctx), postSlug, time.Now().UTC())
	if err := s.BlogRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	invalidateBlogCache(ctx, s.Cache)
	s.Logger.Infow("blog post created",
		"post_id", post.ID,
		"slug", post.Slug,
		"published", post.Published,
		"scheduled", post.IsScheduled(),
	)
	return &dto.BlogPostResponse{Post: post}, nil
}

func (s *blogService) UpdatePost(ctx context.Context, id string, req dto.UpdateBlogPostRequest) (*dto.BlogPostResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	post, err := s.BlogRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if req.Title != nil {
		post.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Excerpt != nil {
		post.Excerpt = req.Excerpt
	}
	if req.CoverImageURL != nil {
		post.CoverImageURL = req.CoverImageURL
	}
	if req.PublishedAt != nil {
		post.PublishedAt = req.PublishedAt
	}
	if req.Published != nil {
		post.Published = *req.Published
		if post.Published && post.PublishedAt == nil {
			post.PublishedAt = &now
		}
	}
	post.UpdatedAt = now

	if err := s.BlogRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	invalidateBlogCache(ctx, s.Cache)
	s.Logger.Infow("blog post updated", "post_id", post.ID, "published", post.Published)
	return &dto.BlogPostResponse{Post: post}, nil
}

// uniqueSlug derives a slug from title and appends -2, -3 ... until it is free
func (s *blogService) uniqueSlug(ctx context.Context, title string, excludeID string) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = types.UUID_PREFIX_BLOG_POST
	}

	candidate := base
	for i := 2; ; i++ {
		exists, err := s.BlogRepo.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

func (s *blogService) ListPosts(ctx context.Context, filter *blog.Filter) (*dto.ListBlogPostsResponse, error) {
	if filter == nil {
		filter = &blog.Filter{}
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	return s.list(ctx, filter)
}

func (s *blogService) list(ctx context.Context, filter *blog.Filter) (*dto.ListBlogPostsResponse, error) {
	if err := filter.QueryFilter.Validate(); err != nil {
		return nil, err
	}

	posts, err := s.BlogRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.BlogRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListBlogPostsResponse{
		Items:  lo.Map(posts, func(p *blog.Post, _ int) *dto.BlogPostResponse { return &dto.BlogPostResponse{Post: p} }),
		Total:  total,
		Limit:  filter.GetLimit(),
		Offset: filter.GetOffset(),
	}, nil
}

func (s *blogService) ListPublishedPosts(ctx context.Context, filter *types.QueryFilter) (*dto.ListBlogPostsResponse, error) {
	if filter == nil {
		filter = types.NewDefaultQueryFilter()
	}

	key := cache.GenerateKey(cache.PrefixBlogList, filter.GetLimit(), filter.GetOffset())
	if cached, found := s.Cache.Get(ctx, key); found {
		if resp, ok := cached.(*dto.ListBlogPostsResponse); ok {
			return resp, nil
		}
	}

	resp, err := s.list(ctx, &blog.Filter{QueryFilter: filter, Published: lo.ToPtr(true)})
	if err != nil {
		return nil, err
	}

	s.Cache.Set(ctx, key, resp, 0)
	return resp, nil
}

func (s *blogService) GetPublishedPost(ctx context.Context, postSlug string) (*dto.BlogPostResponse, error) {
	key := cache.GenerateKey(cache.PrefixBlogPost, postSlug)
	if cached, found := s.Cache.Get(ctx, key); found {
		if resp, ok := cached.(*dto.BlogPostResponse); ok {
			return resp, nil
		}
	}

	post, err := s.BlogRepo.GetBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}

	if !post.Published {
		return nil, ierr.NewErrorf("post %s is not published", post.ID).
			WithHint("Blog post not found").
			Mark(ierr.ErrNotFound)
	}

	resp := &dto.BlogPostResponse{Post: post}
	s.Cache.Set(ctx, key, resp, 0)
	return resp, nil
}

func (s *blogService) UploadImage(ctx context.Context, data []byte) (*dto.UploadImageResponse, error) {
	img, err := s.ImageService.UploadImage(ctx, data)
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("blog image uploaded", "key", img.Key, "size", img.Size, "user_id", types.GetUserID(ctx))
	return &dto.UploadImageResponse{
		URL:         img.URL,
		Key:         img.Key,
		ContentType: img.ContentType,
		Size:        img.Size,
	}, nil
}
