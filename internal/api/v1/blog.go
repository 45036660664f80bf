package v1

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/upassistify/upassistify/internal/api/dto"
	"github.com/upassistify/upassistify/internal/config"
	"github.com/upassistify/upassistify/internal/domain/blog"
	ierr "github.com/upassistify/upassistify/internal/errors"
	"github.com/upassistify/upassistify/internal/logger"
	"github.com/upassistify/upassistify/internal/service"
	"github.com/upassistify/upassistify/internal/types"
)

const imageFormField = "file"

type BlogHandler struct {
	blogService service.BlogService
	config      *config.Configuration
	logger      *logger.Logger
}

func NewBlogHandler(blogService service.BlogService, config *config.Configuration, logger *logger.Logger) *BlogHandler {
	return &BlogHandler{
		blogService: blogService,
		config:      config,
		logger:      logger,
	}
}

// @Summary Create a blog post
// @Description A post with published=false and a future published_at is scheduled
// @Tags Blog
// @Accept json
// @Produce json
// @Param request body dto.CreateBlogPostRequest true "Post"
// @Success 200 {object} dto.DataResponse[dto.BlogPostResponse]
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Router /admin/blog/posts [post]
// @Security BearerAuth
func (h *BlogHandler) CreatePost(c *gin.Context) {
	var req dto.CreateBlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(invalidRequest(err))
		return
	}

	resp, err := h.blogService.CreatePost(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewDataResponse(resp))
}

// @Summary Update a blog post
// @Tags Blog
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param request body dto.UpdateBlogPostRequest true "Fields to change"
// @Success 200 {object} dto.BlogPostResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/blog/posts/{id} [put]
// @Security BearerAuth
func (h *BlogHandler) UpdatePost(c *gin.Context) {
	var req dto.UpdateBlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(invalidRequest(err))
		return
	}

	resp, err := h.blogService.UpdatePost(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List all blog posts
// @Description Includes drafts and scheduled posts
// @Tags Blog
// @Produce json
// @Param published query bool false "Only published or only unpublished posts"
// @Param filter query types.QueryFilter false "Pagination"
// @Success 200 {object} dto.ListBlogPostsResponse
// @Router /admin/blog/posts [get]
// @Security BearerAuth
func (h *BlogHandler) ListPosts(c *gin.Context) {
	var query types.QueryFilter
	if err := c.ShouldBindQuery(&query); err != nil {
		c.Error(invalidRequest(err))
		return
	}

	filter := &blog.Filter{QueryFilter: &query}
	if raw := c.Query("published"); raw != "" {
		published, err := strconv.ParseBool(raw)
		if err != nil {
			c.Error(ierr.WithError(err).
				WithHint("published must be true or false").
				Mark(ierr.ErrValidation))
			return
		}
		filter.Published = &published
	}

	resp, err := h.blogService.ListPosts(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Upload a blog image
// @Tags Blog
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image"
// @Success 200 {object} dto.UploadImageResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /admin/blog/images [post]
// @Security BearerAuth
func (h *BlogHandler) UploadImage(c *gin.Context) {
	header, err := c.FormFile(imageFormField)
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("An image file is required").
			Mark(ierr.ErrValidation))
		return
	}

	file, err := header.Open()
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Could not read the uploaded file").
			Mark(ierr.ErrValidation))
		return
	}
	defer file.Close()

	// one byte over the limit lets the image service reject oversized uploads
	var reader io.Reader = file
	if limit := h.config.S3.MaxUploadBytes; limit > 0 {
		reader = io.LimitReader(file, limit+1)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Could not read the uploaded file").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.blogService.UploadImage(c.Request.Context(), data)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List published blog posts
// @Tags Blog
// @Produce json
// @Param filter query types.QueryFilter false "Pagination"
// @Success 200 {object} dto.ListBlogPostsResponse
// @Router /blog/posts [get]
func (h *BlogHandler) ListPublishedPosts(c *gin.Context) {
	var filter types.QueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(invalidRequest(err))
		return
	}

	resp, err := h.blogService.ListPublishedPosts(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get a published blog post
// @Tags Blog
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} dto.BlogPostResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /blog/posts/{slug} [get]
func (h *BlogHandler) GetPublishedPost(c *gin.Context) {
	resp, err := h.blogService.GetPublishedPost(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
