package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"swcommons/internal/logging"
	"swcommons/pkg/models"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles mutating requests per client IP
type RateLimiter struct {
	rps   rate.Limit
	burst int
	idle  time.Duration

	mu      sync.Mutex
	clients map[string]*clientLimiter
	now     func() time.Time
	logger  logging.Logger
}

// NewRateLimiter allows rps requests per second per client with the given burst
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		idle:    10 * time.Minute,
		clients: make(map[string]*clientLimiter),
		now:     time.Now,
		logger:  logging.GetGlobalLogger(),
	}
}

// Allow reports whether client may issue another request now
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cl, ok := rl.clients[client]
	if !ok {
		rl.pruneLocked(now)
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.clients[client] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

// pruneLocked forgets clients idle for longer than rl.idle
func (rl *RateLimiter) pruneLocked(now time.Time) {
	for key, cl := range rl.clients {
		if now.Sub(cl.lastSeen) > rl.idle {
			delete(rl.clients, key)
		}
	}
}

// Middleware applies the limiter to POST, PUT and DELETE requests
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch c.Request().Method {
			case http.MethodPost, http.MethodPut, http.MethodDelete:
			default:
				return next(c)
			}

			ip := c.RealIP()
			if rl.Allow(ip) {
				return next(c)
			}

			requestID := RequestID(c)
			rl.logger.Warn("Request rate limited", map[string]interface{}{
				"request_id": requestID,
				"client_ip":  ip,
				"path":       c.Request().URL.Path,
			})
			return c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
				Error:     models.KindRateLimit,
				Message:   "Too many requests, slow down",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}
	}
}
