// File: internal/utils/rate/rate.go
package rate

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/emilyastranova/forkmost/internal/config"
)

// Limiter is a fixed-window request limiter backed by Redis. It fails open:
// a Redis error never blocks a login.
type Limiter struct {
	client *redis.Client
	logger *zap.Logger
	config *config.RateLimitConfig
}

// NewLimiter creates a new Limiter. client may be nil when rate limiting is
// disabled in config.
func NewLimiter(client *redis.Client, logger *zap.Logger, cfg *config.RateLimitConfig) *Limiter {
	return &Limiter{
		client: client,
		logger: logger,
		config: cfg,
	}
}

// Allow reports whether a request identified by key is within rule's limit.
func (l *Limiter) Allow(ctx context.Context, key string, rule config.RateLimitRule) (bool, error) {
	if !l.config.Enabled || !rule.Enabled || l.client == nil {
		return true, nil
	}

	redisKey := fmt.Sprintf("rate:%s", key)

	count, err := l.client.Get(ctx, redisKey).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		l.logger.Error("Failed to get rate limit count", zap.Error(err), zap.String("key", key))
		return true, err
	}

	if errors.Is(err, redis.Nil) {
		if err := l.client.Set(ctx, redisKey, 1, rule.Window).Err(); err != nil {
			l.logger.Error("Failed to set rate limit count", zap.Error(err), zap.String("key", key))
			return true, err
		}
		return true, nil
	}

	if count >= rule.Limit {
		l.logger.Warn("Rate limit exceeded", zap.String("key", key), zap.Int("count", count), zap.Int("limit", rule.Limit))
		return false, nil
	}

	if _, err := l.client.Incr(ctx, redisKey).Result(); err != nil {
		l.logger.Error("Failed to increment rate limit count", zap.Error(err), zap.String("key", key))
		return true, err
	}

	return true, nil
}
