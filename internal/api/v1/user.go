package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/upassistify/upassistify/internal/logger"
	"github.com/upassistify/upassistify/internal/service"
	"github.com/upassistify/upassistify/internal/types"
)

type UserHandler struct {
	userService service.UserService
	logger      *logger.Logger
}

func NewUserHandler(userService service.UserService, logger *logger.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// @Summary List users
// @Tags Users
// @Produce json
// @Param filter query types.QueryFilter false "Pagination"
// @Success 200 {object} dto.ListUsersResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Router /admin/users [get]
// @Security BearerAuth
func (h *UserHandler) ListUsers(c *gin.Context) {
	var filter types.QueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(invalidRequest(err))
		return
	}

	resp, err := h.userService.ListUsers(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
