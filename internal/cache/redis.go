package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/symptom-analyzer/internal/domain"
)

const redisKeyPrefix = "symptom-analyzer:"

// RedisCache shares results between instances. Every call goes through a
// circuit breaker; while it is open the cache behaves as always-miss.
type RedisCache struct {
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker
	logger  *logrus.Logger
}

// NewRedisCache parses redisURL and verifies the connection.
func NewRedisCache(ctx context.Context, redisURL string, cfg domain.BreakerConfig, logger *logrus.Logger) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisCacheWithClient(client, cfg, logger), nil
}

// NewRedisCacheWithClient wraps an existing client without pinging it.
func NewRedisCacheWithClient(client *redis.Client, cfg domain.BreakerConfig, logger *logrus.Logger) *RedisCache {
	return &RedisCache{
		client:  client,
		breaker: newBreaker("redis-cache", cfg, logger),
		logger:  logger,
	}
}

func newBreaker(name string, cfg domain.BreakerConfig, logger *logrus.Logger) *gobreaker.CircuitBreaker {
	minRequests := cfg.MinRequests
	if minRequests == 0 {
		minRequests = 3
	}
	failureRatio := cfg.FailureRatio
	if failureRatio <= 0 {
		failureRatio = 0.6
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= minRequests && ratio >= failureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})
}

// Get returns the stored result; errors and an open breaker are misses.
func (r *RedisCache) Get(ctx context.Context, key string) (*domain.AnalysisResult, bool) {
	out, err := r.breaker.Execute(func() (interface{}, error) {
		data, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return data, err
	})
	if err != nil {
		r.logger.WithError(err).Debug("Redis cache lookup failed")
		return nil, false
	}

	data, _ := out.([]byte)
	if data == nil {
		return nil, false
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		// corrupted entry
		r.client.Del(ctx, redisKeyPrefix+key)
		return nil, false
	}
	return &result, true
}

// Set stores result with the given ttl.
func (r *RedisCache) Set(ctx context.Context, key string, result *domain.AnalysisResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis result: %w", err)
	}

	_, err = r.breaker.Execute(func() (interface{}, error) {
		return nil, r.client.Set(ctx, redisKeyPrefix+key, data, ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to write Redis cache: %w", err)
	}
	return nil
}

// State reports the breaker state.
func (r *RedisCache) State() gobreaker.State {
	return r.breaker.State()
}

// Ping checks if Redis connection is alive
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *RedisCache) Close() error {
	return r.client.Close()
}
