package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/civiclens/feedback-engine/internal/cache"
	"github.com/civiclens/feedback-engine/internal/observability"
	"github.com/civiclens/feedback-engine/internal/relevance"
)

const scoreCachePrefix = "relevance:score:"

// ScoreCache caches relevance results keyed by index version and comment
// text. Loading a new document invalidates the whole keyspace, so a cached
// score can never leak across documents.
type ScoreCache struct {
	client cache.Client
	logger *observability.Logger
	ttl    time.Duration
}

// NewScoreCache creates a relevance score cache.
func NewScoreCache(client cache.Client, logger *observability.Logger, ttl time.Duration) *ScoreCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = observability.Nop()
	}
	return &ScoreCache{
		client: client,
		logger: logger.WithComponent("score-cache"),
		ttl:    ttl,
	}
}

func (c *ScoreCache) key(version uuid.UUID, text string) string {
	sum := sha256.Sum256([]byte(version.String() + "|" + text))
	return scoreCachePrefix + hex.EncodeToString(sum[:16])
}

// Get returns a cached result for the given index version and text.
func (c *ScoreCache) Get(ctx context.Context, version uuid.UUID, text string) (relevance.Result, bool) {
	if c == nil || c.client == nil {
		return relevance.Result{}, false
	}

	data, err := c.client.Get(ctx, c.key(version, text))
	if err != nil {
		if err != cache.ErrCacheMiss {
			c.logger.Debug().Err(err).Msg("cache get error")
		}
		return relevance.Result{}, false
	}

	var result relevance.Result
	if err := json.Unmarshal(data, &result); err != nil {
		c.logger.Warn().Err(err).Msg("failed to unmarshal cached score")
		return relevance.Result{}, false
	}

	return result, true
}

// Set stores a relevance result.
func (c *ScoreCache) Set(ctx context.Context, version uuid.UUID, text string, result relevance.Result) error {
	if c == nil || c.client == nil {
		return nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, c.key(version, text), data, c.ttl)
}

// InvalidateAll drops every cached relevance score.
func (c *ScoreCache) InvalidateAll(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.DeleteByPrefix(ctx, scoreCachePrefix)
}
