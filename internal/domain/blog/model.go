package blog

import (
	"time"
)

// Post is a blog article. A post with Published=false and a PublishedAt
// is scheduled and gets published once PublishedAt has passed.
type Post struct {
	ID            string     `json:"id" db:"id"`
	Title         string     `json:"title" db:"title"`
	Slug          string     `json:"slug" db:"slug"`
	Excerpt       *string    `json:"excerpt" db:"excerpt"`
	Content       string     `json:"content" db:"content"`
	CoverImageURL *string    `json:"cover_image_url" db:"cover_image_url"`
	AuthorID      string     `json:"author_id" db:"author_id"`
	Published     bool       `json:"published" db:"published"`
	PublishedAt   *time.Time `json:"published_at" db:"published_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// IsScheduled reports whether the post is waiting for automatic publication
func (p *Post) IsScheduled() bool {
	return !p.Published && p.PublishedAt != nil
}

// IsDue reports whether a scheduled post should be published at now
func (p *Post) IsDue(now time.Time) bool {
	return p.IsScheduled() && !p.PublishedAt.After(now)
}
