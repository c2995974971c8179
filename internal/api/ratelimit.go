package api

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/symptom-analyzer/internal/domain"
	"github.com/symptom-analyzer/internal/middleware"
)

// RateLimiter keeps one token bucket per client IP. The least recently seen
// clients are evicted once MaxClients is reached.
type RateLimiter struct {
	mu      sync.Mutex
	clients *lru.Cache[string, *rate.Limiter]
	limit   rate.Limit
	burst   int
}

// NewRateLimiter creates a limiter from cfg.
func NewRateLimiter(cfg domain.RateLimitConfig) (*RateLimiter, error) {
	size := cfg.MaxClients
	if size <= 0 {
		size = 10000
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	clients, err := lru.New[string, *rate.Limiter](size)
	if err != nil {
		return nil, err
	}
	return &RateLimiter{
		clients: clients,
		limit:   rate.Limit(cfg.RequestsPerSecond),
		burst:   burst,
	}, nil
}

// Allow reports whether key may make a request now.
func (r *RateLimiter) Allow(key string) bool {
	r.mu.Lock()
	limiter, ok := r.clients.Get(key)
	if !ok {
		limiter = rate.NewLimiter(r.limit, r.burst)
		r.clients.Add(key, limiter)
	}
	r.mu.Unlock()
	return limiter.Allow()
}

// Middleware rejects requests over the limit with 429.
func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !r.Allow(c.ClientIP()) {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, domain.NewAPIError(
				domain.ErrRateLimit, "Too many requests", "", c.GetString(middleware.CorrelationKey)))
			return
		}
		c.Next()
	}
}
