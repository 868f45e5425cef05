package middleware

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// streamingPrefixes are routes that hold the connection open or move
// file-sized bodies; they run without a handler deadline.
var streamingPrefixes = []string{
	"/api/v1/subscribe/",
	"/uploads/",
	"/files/",
}

// TimeoutConfig bounds the request context of non-streaming routes
func TimeoutConfig(timeout time.Duration) echo.MiddlewareFunc {
	return middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
		Skipper: skipStreaming,
		Timeout: timeout,
	})
}

func skipStreaming(c echo.Context) bool {
	path := c.Request().URL.Path
	for _, prefix := range streamingPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
