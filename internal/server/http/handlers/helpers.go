package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/rewardportal/internal/server/http/dto"
	"github.com/polkiloo/rewardportal/internal/server/http/middleware"
)

// CurrentUserID extracts authenticated user identifier from context.
func CurrentUserID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.UserIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

func renderError(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", gin.H{"Message": message})
}

func jsonError(c *gin.Context, status int, message string) {
	c.JSON(status, dto.ErrorResponse{Error: message})
}

func logError(logger *slog.Logger, c *gin.Context, msg string, err error) {
	logger.Error(msg,
		slog.String("path", c.Request.URL.Path),
		slog.String("request_id", c.GetString(middleware.RequestIDContextKey)),
		slog.String("error", err.Error()),
	)
}
