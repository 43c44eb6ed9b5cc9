package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// userRateLimiter throttles chat turns per user id. Each user gets an
// independent token bucket; the map grows with the user population, which is
// bounded by the employee table.
type userRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newUserRateLimiter(perSecond float64, burst int) *userRateLimiter {
	return &userRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(perSecond),
		burst:    burst,
	}
}

func (l *userRateLimiter) limiterFor(userID string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	limiter, ok := l.limiters[userID]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[userID] = limiter
	}
	return limiter
}

// Middleware rejects over-limit chat requests with 429. The body is read
// here to find the user id, then restored for the handler.
func (l *userRateLimiter) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "failed to read request body")
		}
		c.Request().Body = io.NopCloser(bytes.NewReader(body))

		var peek struct {
			UserID string `json:"userId"`
		}
		_ = json.Unmarshal(body, &peek)
		if peek.UserID != "" && !l.limiterFor(peek.UserID).Allow() {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many chat requests, slow down")
		}
		return next(c)
	}
}
