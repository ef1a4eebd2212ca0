package echoapi

import (
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/alfurqan/portal/core/user"
	"github.com/alfurqan/portal/services/metrics"
)

func rolesMiddleware(roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx)
			if err != nil {
				return err
			}
			if usr.HasRole(roles...) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

func selfOrRolesMiddleware(roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx)
			if err != nil {
				return err
			}
			if ctx.Param("id") == usr.ID || (len(roles) > 0 && usr.HasRole(roles...)) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

func metricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		start := time.Now()
		if err := next(ctx); err != nil {
			ctx.Error(err)
		}
		route := ctx.Path()
		if route == "" {
			route = "unmatched"
		}
		method := ctx.Request().Method
		metrics.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(ctx.Response().Status)).Inc()
		metrics.HTTPDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		return nil
	}
}

type rateBucket struct {
	windowStart time.Time
	count       int
}

// loginRateLimiter allows limit attempts per client IP in each fixed window.
type loginRateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	buckets map[string]rateBucket
}

func newLoginRateLimiter(limit int, window time.Duration) *loginRateLimiter {
	return &loginRateLimiter{
		limit:   limit,
		window:  window,
		buckets: map[string]rateBucket{},
	}
}

func (r *loginRateLimiter) Allow(ip string) bool {
	if r.limit <= 0 {
		return true
	}
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()

	bucket, ok := r.buckets[ip]
	if !ok || now.Sub(bucket.windowStart) >= r.window {
		r.buckets[ip] = rateBucket{windowStart: now, count: 1}
		r.evict(now)
		return true
	}
	if bucket.count >= r.limit {
		return false
	}
	bucket.count++
	r.buckets[ip] = bucket
	return true
}

// evict drops the buckets of finished windows. Callers hold r.mu.
func (r *loginRateLimiter) evict(now time.Time) {
	for ip, b := range r.buckets {
		if now.Sub(b.windowStart) >= r.window {
			delete(r.buckets, ip)
		}
	}
}

func rateLimitMiddleware(limiter *loginRateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if !limiter.Allow(ctx.RealIP()) {
				return errHttpTooManyRequests
			}
			return next(ctx)
		}
	}
}
