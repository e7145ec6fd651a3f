package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"credit-risk-workers/internal/common/metrics"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "risk:llm:"

// CachedCompleter is a read-through Redis cache in front of another Completer. Redis failures
// are logged and bypassed; only the wrapped Completer's errors reach the caller.
type CachedCompleter struct {
	next   Completer
	redis  *redis.Client
	ttl    time.Duration
	logger Logger
}

func NewCachedCompleter(next Completer, rdb *redis.Client, ttl time.Duration, log Logger) *CachedCompleter {
	return &CachedCompleter{
		next:   next,
		redis:  rdb,
		ttl:    ttl,
		logger: log,
	}
}

func (c *CachedCompleter) Provider() string { return c.next.Provider() }

func (c *CachedCompleter) Complete(ctx context.Context, req Request) (string, error) {
	key := CacheKey(c.next.Provider(), req)

	cached, err := c.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		metrics.LLMCacheLookups.WithLabelValues("hit").Inc()
		c.logger.Debug("completion cache hit", map[string]interface{}{"key": key})
		return cached, nil
	case errors.Is(err, redis.Nil):
		metrics.LLMCacheLookups.WithLabelValues("miss").Inc()
	default:
		metrics.LLMCacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn("completion cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
	}

	text, err := c.next.Complete(ctx, req)
	if err != nil {
		return "", err
	}

	if err := c.redis.Set(ctx, key, text, c.ttl).Err(); err != nil {
		c.logger.Warn("completion cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}

	return text, nil
}

// CacheKey derives a stable key from the provider and the full request.
func CacheKey(provider string, req Request) string {
	payload, _ := json.Marshal(struct {
		Provider string  `json:"provider"`
		Request  Request `json:"request"`
	}{provider, req})

	sum := sha256.Sum256(payload)
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
