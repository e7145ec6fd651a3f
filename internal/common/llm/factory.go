package llm

import (
	"context"
	"fmt"

	"credit-risk-workers/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// NewCompleter builds the Completer selected by cfg.Provider. rdb may be nil; it is required
// only when the cache is enabled.
func NewCompleter(ctx context.Context, cfg config.LLMConfig, rdb *redis.Client, log Logger) (Completer, error) {
	var base Completer
	switch cfg.Provider {
	case config.ProviderOpenAI, "":
		base = NewOpenAIClient(cfg.APIKey, cfg.BaseURL)
	case config.ProviderGemini:
		gc, err := NewGeminiClient(ctx, cfg.APIKey, cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		base = gc
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}

	if !cfg.Cache.Enabled {
		return base, nil
	}
	if rdb == nil {
		return nil, fmt.Errorf("llm cache enabled but no redis client configured")
	}
	return NewCachedCompleter(base, rdb, config.GetDuration(cfg.Cache.TTL), log), nil
}
