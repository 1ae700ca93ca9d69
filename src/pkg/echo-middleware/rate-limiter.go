package echomw

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// limiterTTL is how long an idle client keeps its token bucket.
const limiterTTL = time.Minute

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*rate.Limiter
	rateLimit rate.Limit // requests per second
	burst     int        // how many requests are allowed instantly
}

func NewRateLimiter(requestsPerSecond int, burst int) *RateLimiter {
	return &RateLimiter{
		clients:   make(map[string]*rate.Limiter),
		rateLimit: rate.Limit(requestsPerSecond),
		burst:     burst,
	}
}

// getLimiter returns the rate limiter for the given IP address.
func (r *RateLimiter) getLimiter(ip string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	limiter, exists := r.clients[ip]
	if !exists {
		limiter = rate.NewLimiter(r.rateLimit, r.burst)
		r.clients[ip] = limiter

		time.AfterFunc(limiterTTL, func() {
			r.mu.Lock()
			delete(r.clients, ip)
			r.mu.Unlock()
		})
	}
	return limiter
}

// Middleware rejects clients that exceed their bucket with 429.
func (r *RateLimiter) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		limiter := r.getLimiter(c.RealIP())
		if !limiter.Allow() {
			return c.JSON(http.StatusTooManyRequests, map[string]string{
				"error": "too many requests",
			})
		}
		return next(c)
	}
}
