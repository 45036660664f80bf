package service

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
	"github.com/upassistify/upassistify/internal/api/dto"
	"github.com/upassistify/upassistify/internal/domain/blog"
	ierr "github.com/upassistify/upassistify/internal/errors"
	"github.com/upassistify/upassistify/internal/testutil"
	"github.com/upassistify/upassistify/internal/types"
)

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52}

type BlogServiceSuite struct {
	testutil.BaseServiceTestSuite
	service BlogService
}

func TestBlogService(t *testing.T) {
	suite.Run(t, new(BlogServiceSuite))
}

func (s *BlogServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewBlogService(newTestParams(&s.BaseServiceTestSuite))
}

func (s *BlogServiceSuite) TestCreatePostGeneratesUniqueSlugs() {
	req := dto.CreateBlogPostRequest{Title: "How to Win Clients!", Content: "..."}

	first, err := s.service.CreatePost(s.GetContext(), req)
	s.Require().NoError(err)
	s.Equal("how-to-win-clients", first.Slug)
	s.Equal(testutil.AdminUserID, first.AuthorID)
	s.False(first.Published)
	s.Nil(first.PublishedAt)

	second, err := s.service.CreatePost(s.GetContext(), req)
	s.Require().NoError(err)
	s.Equal("how-to-win-clients-2", second.Slug)

	third, err := s.service.CreatePost(s.GetContext(), req)
	s.Require().NoError(err)
	s.Equal("how-to-win-clients-3", third.Slug)
}

func (s *BlogServiceSuite) TestCreatePublishedPostStampsDate() {
	resp, err := s.service.CreatePost(s.GetContext(), dto.CreateBlogPostRequest{
		Title:     "Live now",
		Content:   "body",
		Published: true,
	})
	s.Require().NoError(err)
	s.True(resp.Published)
	s.Require().NotNil(resp.PublishedAt)
}

func (s *BlogServiceSuite) TestCreateScheduledPost() {
	when := s.GetNow().Add(24 * time.Hour)
	resp, err := s.service.CreatePost(s.GetContext(), dto.CreateBlogPostRequest{
		Title:       "Tomorrow",
		Content:     "body",
		PublishedAt: &when,
	})
	s.Require().NoError(err)
	s.True(resp.IsScheduled())

	_, err = s.service.GetPublishedPost(s.GetContext(), resp.Slug)
	s.True(ierr.IsNotFound(err))
}

func (s *BlogServiceSuite) TestCreatePostValidation() {
	_, err := s.service.CreatePost(s.GetContext(), dto.CreateBlogPostRequest{Title: "  ", Content: "x"})
	s.True(ierr.IsValidation(err))

	_, err = s.service.CreatePost(s.GetContext(), dto.CreateBlogPostRequest{Title: "x"})
	s.True(ierr.IsValidation(err))
}

func (s *BlogServiceSuite) TestUpdatePost() {
	created, err := s.service.CreatePost(s.GetContext(), dto.CreateBlogPostRequest{Title: "Draft", Content: "v1"})
	s.Require().NoError(err)

	updated, err := s.service.UpdatePost(s.GetContext(), created.ID, dto.UpdateBlogPostRequest{
		Content:   lo.ToPtr("v2"),
		Published: lo.ToPtr(true),
	})
	s.Require().NoError(err)
	s.Equal("v2", updated.Content)
	s.Equal("draft", updated.Slug)
	s.True(updated.Published)
	s.NotNil(updated.PublishedAt)

	_, err = s.service.UpdatePost(s.GetContext(), "post_missing", dto.UpdateBlogPostRequest{Content: lo.ToPtr("x")})
	s.True(ierr.IsNotFound(err))

	_, err = s.service.UpdatePost(s.GetContext(), created.ID, dto.UpdateBlogPostRequest{Title: lo.ToPtr(" ")})
	s.True(ierr.IsValidation(err))
}

func (s *BlogServiceSuite) TestPublishedPostsAreCachedUntilChange() {
	first, err := s.service.CreatePost(s.GetContext(), dto.CreateBlogPostRequest{Title: "One", Content: "x", Published: true})
	s.Require().NoError(err)

	list, err := s.service.ListPublishedPosts(s.GetContext(), nil)
	s.Require().NoError(err)
	s.Equal(1, list.Total)

	// a write behind the service's back stays invisible while cached
	hidden := &blog.Post{
		ID:          "post_hidden",
		Title:       "Hidden",
		Slug:        "hidden",
		Content:     "x",
		Published:   true,
		PublishedAt: lo.ToPtr(s.GetNow()),
		CreatedAt:   s.GetNow(),
		UpdatedAt:   s.GetNow(),
	}
	s.Require().NoError(s.GetStores().BlogRepo.Create(s.GetContext(), hidden))

	list, err = s.service.ListPublishedPosts(s.GetContext(), nil)
	s.Require().NoError(err)
	s.Equal(1, list.Total)

	_, err = s.service.UpdatePost(s.GetContext(), first.ID, dto.UpdateBlogPostRequest{Content: lo.ToPtr("y")})
	s.Require().NoError(err)

	list, err = s.service.ListPublishedPosts(s.GetContext(), nil)
	s.Require().NoError(err)
	s.Equal(2, list.Total)

	post, err := s.service.GetPublishedPost(s.GetContext(), "one")
	s.Require().NoError(err)
	s.Equal("y", post.Content)
}

func (s *BlogServiceSuite) TestListPostsIncludesDrafts() {
	_, err := s.service.CreatePost(s.GetContext(), dto.CreateBlogPostRequest{Title: "Draft", Content: "x"})
	s.Require().NoError(err)
	_, err = s.service.CreatePost(s.GetContext(), dto.CreateBlogPostRequest{Title: "Live", Content: "x", Published: true})
	s.Require().NoError(err)

	all, err := s.service.ListPosts(s.GetContext(), nil)
	s.Require().NoError(err)
	s.Equal(2, all.Total)

	drafts, err := s.service.ListPosts(s.GetContext(), &blog.Filter{
		QueryFilter: types.NewDefaultQueryFilter(),
		Published:   lo.ToPtr(false),
	})
	s.Require().NoError(err)
	s.Equal(1, drafts.Total)
}

func (s *BlogServiceSuite) TestUploadImage() {
	resp, err := s.service.UploadImage(s.GetContext(), pngHeader)
	s.Require().NoError(err)
	s.Equal("image/png", resp.ContentType)
	s.True(s.GetMocks().ObjectStore.Has(resp.Key))
	s.Equal("https://assets.example.com/"+resp.Key, resp.URL)

	_, err = s.service.UploadImage(s.GetContext(), []byte("plain text"))
	s.True(ierr.IsValidation(err))
}
