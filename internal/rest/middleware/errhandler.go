package middleware

import (
	"github.com/gin-gonic/gin"
	ierr "github.com/upassistify/upassistify/internal/errors"
)

const unexpectedErrorMessage = "An unexpected error occurred"

// ErrorResponse is the body written for every failed request
type ErrorResponse struct {
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorHandler renders the last error recorded on the gin context
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := ierr.HTTPStatusFromErr(err)

		response := ErrorResponse{
			Error: ierr.DisplayMessage(err, unexpectedErrorMessage),
		}
		if details := ierr.ReportableDetails(err); len(details) > 0 {
			response.Details = details
		}

		c.JSON(status, response)
	}
}
