package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RateLimiter is a fixed-window limiter keyed by the authenticated analyst,
// falling back to the client IP for anonymous requests.
func RateLimiter(limit int, window time.Duration) echo.MiddlewareFunc {
	return rateLimiter(limit, window, time.Now)
}

func rateLimiter(limit int, window time.Duration, now func() time.Time) echo.MiddlewareFunc {
	type bucket struct {
		count int
		start time.Time
	}

	var (
		mu      sync.Mutex
		buckets = make(map[string]*bucket)
		swept   time.Time
	)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if limit <= 0 {
				return next(c)
			}

			at := now()
			key := "ip:" + c.RealIP()
			if actor, ok := ActorFrom(c); ok {
				key = "analyst:" + actor.ID
			}

			mu.Lock()
			if at.Sub(swept) > window {
				for k, b := range buckets {
					if at.Sub(b.start) > window {
						delete(buckets, k)
					}
				}
				swept = at
			}

			b, ok := buckets[key]
			if !ok || at.Sub(b.start) > window {
				b = &bucket{start: at}
				buckets[key] = b
			}

			if b.count >= limit {
				mu.Unlock()
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}

			b.count++
			mu.Unlock()

			return next(c)
		}
	}
}
