package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"swcommons/internal/logging"
)

// RequestLogger logs one line per request through the structured logger
func RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := map[string]interface{}{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency_ms": v.Latency.Milliseconds(),
				"remote_ip":  v.RemoteIP,
			}
			logger := logging.LogWithRequestID(RequestID(c))
			if v.Error != nil {
				fields["error"] = v.Error.Error()
				logger.Error("Request completed with error", fields)
				return nil
			}
			logger.Info("Request completed", fields)
			return nil
		},
	})
}

// Recover converts handler panics into 500 responses and logs the stack
func Recover() echo.MiddlewareFunc {
	return middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logging.LogWithRequestID(RequestID(c)).Error("Handler panic recovered", map[string]interface{}{
				"error": err.Error(),
				"stack": string(stack),
			})
			return err
		},
	})
}
