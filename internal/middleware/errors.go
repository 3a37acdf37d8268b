package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/stockpulse/internal/domain/dto"
	"github.com/guttosm/stockpulse/internal/logger"
)

// ErrorHandler renders the last error attached with c.Error, if the handler
// did not write a response itself.
//
// Behavior:
//   - dto.ErrorResponse values are rendered as they are, with the status already set
//     on the writer (500 if none was set).
//   - Any other error becomes a 500 "Internal server error" body.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}
	err := c.Errors.Last().Err

	status := c.Writer.Status()
	if status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}

	var resp dto.ErrorResponse
	if !errors.As(err, &resp) {
		resp = dto.NewErrorResponse("Internal server error", err)
	}
	logger.L().Error().Err(err).Int("status", status).Str("path", c.Request.URL.Path).Msg("request failed")
	c.JSON(status, resp)
}

// AbortWithError stops the chain and writes a dto.ErrorResponse with the given status.
// The error is also attached to the context so the access log can see it.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}
