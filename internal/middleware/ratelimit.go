package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// visitor is the token bucket of one client IP.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// In-memory store for rate limiting, shared by every RateLimiter.
// NOTE: In production, consider Redis or another distributed store for multi-instance deployments.
var (
	visitors        = make(map[string]*visitor)
	limit           = rate.Every(time.Second) // sustained rate: 60 requests per minute
	burst           = 60
	idleTTL         = 10 * time.Minute
	sweepInterval   = time.Minute
	lastSweep       time.Time
	rateLimiterLock sync.Mutex
)

// RateLimiter is an in-memory middleware that limits requests per client IP.
//
// Behavior:
//   - Each IP gets a token bucket refilled at `limit` with capacity `burst` (default: 60 per minute).
//   - Buckets idle for longer than idleTTL are dropped by a sweep that runs at most once per sweepInterval.
//   - If the bucket is empty, returns HTTP 429 Too Many Requests.
//
// Usage:
//
//	router := gin.New()
//	router.Use(middleware.RateLimiter())
//
// Response when limit exceeded:
//
//	HTTP/1.1 429 Too Many Requests
//	{
//	    "error": "rate limit exceeded"
//	}
func RateLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !allow(c.ClientIP(), time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

func allow(ip string, now time.Time) bool {
	rateLimiterLock.Lock()
	defer rateLimiterLock.Unlock()

	if now.Sub(lastSweep) >= sweepInterval {
		for key, v := range visitors {
			if now.Sub(v.lastSeen) > idleTTL {
				delete(visitors, key)
			}
		}
		lastSweep = now
	}

	v, ok := visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(limit, burst)}
		visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}
