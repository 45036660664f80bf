package dto

import (
	"strings"
	"time"

	"github.com/upassistify/upassistify/internal/domain/blog"
	ierr "github.com/upassistify/upassistify/internal/errors"
	"github.com/upassistify/upassistify/internal/types"
	"github.com/upassistify/upassistify/internal/validator"
)

type CreateBlogPostRequest struct {
	Title         string     `json:"title" validate:"required"`
	Content       string     `json:"content" validate:"required"`
	Excerpt       *string    `json:"excerpt,omitempty"`
	CoverImageURL *string    `json:"cover_image_url,omitempty" validate:"omitempty,url"`
	Published     bool       `json:"published"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
}

func (r *CreateBlogPostRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if strings.TrimSpace(r.Title) == "" {
		return ierr.NewError("title is blank").
			WithHint("Title is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ToPost builds a post. Publishing without a date stamps it with now.
func (r *CreateBlogPostRequest) ToPost(authorID, slug string, now time.Time) *blog.Post {
	post := &blog.Post{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_BLOG_POST),
		Title:         strings.TrimSpace(r.Title),
		Slug:          slug,
		Excerpt:       r.Excerpt,
		Content:       r.Content,
		CoverImageURL: r.CoverImageURL,
		AuthorID:      authorID,
		Published:     r.Published,
		PublishedAt:   r.PublishedAt,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if post.Published && post.PublishedAt == nil {
		post.PublishedAt = &now
	}
	return post
}

type UpdateBlogPostRequest struct {
	Title         *string    `json:"title,omitempty"`
	Content       *string    `json:"content,omitempty"`
	Excerpt       *string    `json:"excerpt,omitempty"`
	CoverImageURL *string    `json:"cover_image_url,omitempty" validate:"omitempty,url"`
	Published     *bool      `json:"published,omitempty"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
}

func (r *UpdateBlogPostRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		return ierr.NewError("title is blank").
			WithHint("Title cannot be empty").
			Mark(ierr.ErrValidation)
	}
	return nil
}

type BlogPostResponse struct {
	*blog.Post
}

type ListBlogPostsResponse = types.ListResponse[*BlogPostResponse]

type UploadImageResponse struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}
