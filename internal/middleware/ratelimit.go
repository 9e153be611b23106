package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// idleBucketTTL is how long an unused bucket is kept. Buckets keyed by IP
// would otherwise accumulate forever.
const idleBucketTTL = 10 * time.Minute

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit returns token-bucket rate limiting middleware with one bucket per
// client. A client is its API key when auth ran, otherwise its IP address.
// Each bucket refills at rps tokens per second up to burst; an empty bucket
// answers 429 with Retry-After.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	var (
		mu        sync.Mutex
		buckets   = make(map[string]*bucket)
		lastSweep = time.Now()
	)
	retryAfter := "1"
	if rps > 0 && rps < 1 {
		retryAfter = strconv.Itoa(int(1/rps + 0.999))
	}

	return func(c *gin.Context) {
		client := "ip:" + c.ClientIP()
		if key := c.GetString(ClientKey); key != "" {
			client = "key:" + key
		}

		now := time.Now()
		mu.Lock()
		if now.Sub(lastSweep) > idleBucketTTL {
			for k, b := range buckets {
				if now.Sub(b.lastSeen) > idleBucketTTL {
					delete(buckets, k)
				}
			}
			lastSweep = now
		}
		b, ok := buckets[client]
		if !ok {
			b = &bucket{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
			buckets[client] = b
		}
		b.lastSeen = now
		mu.Unlock()

		if !b.limiter.AllowN(now, 1) {
			c.Header("Retry-After", retryAfter)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}

		c.Next()
	}
}
