package middleware

import (
	"net/http"
	"time"

	"swcommons/internal/logging"
	"swcommons/pkg/models"
	"swcommons/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/bytes"
)

// RequestIDKey is the echo context key holding the request ID
const RequestIDKey = "request_id"

// RequestValidation assigns a request ID, propagates it through the request
// context and rejects JSON bodies larger than bodyLimit. Upload routes carry
// their own limit and are not checked here.
func RequestValidation(bodyLimit string) echo.MiddlewareFunc {
	limit, err := bytes.Parse(bodyLimit)
	if err != nil {
		limit = 1024 * 1024
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = utils.GenerateRequestID()
			}
			c.Set(RequestIDKey, requestID)
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)
			c.SetRequest(c.Request().WithContext(logging.ContextWithRequestID(c.Request().Context(), requestID)))

			if hasBody(c.Request().Method) && !skipStreaming(c) && c.Request().ContentLength > limit {
				return c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
					Error:     models.KindValidation,
					Message:   "Request body too large",
					RequestID: requestID,
					Timestamp: time.Now(),
				})
			}

			return next(c)
		}
	}
}

// RequestID returns the ID assigned by RequestValidation
func RequestID(c echo.Context) string {
	if id, ok := c.Get(RequestIDKey).(string); ok {
		return id
	}
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

func hasBody(method string) bool {
	return method == http.MethodPost || method == http.MethodPut
}
