package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/real-social-media/pillar/pkg/config"
	"github.com/real-social-media/pillar/pkg/logging"
)

// Cache wraps the Redis client used for feed projections. All methods
// tolerate a nil receiver so a disabled cache degrades to plain store
// reads.
type Cache struct {
	client *redis.Client
}

// New creates a new Redis cache client
func New(cfg *config.RedisConfig) (*Cache, error) {
	if !cfg.Enabled {
		logging.GetLogger().Info("Redis cache disabled")
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logging.GetLogger().Info("Redis connection established")

	return &Cache{client: client}, nil
}

func feedKey(viewerID string) string {
	return "feed:" + viewerID
}

// GetFeed retrieves a viewer's cached feed projection
func (c *Cache) GetFeed(ctx context.Context, viewerID string) ([]byte, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	payload, err := c.client.Get(ctx, feedKey(viewerID)).Bytes()
	if err != nil {
		return nil, false
	}
	return payload, true
}

// SetFeed caches a viewer's feed projection with a TTL
func (c *Cache) SetFeed(ctx context.Context, viewerID string, payload []byte, ttl time.Duration) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Set(ctx, feedKey(viewerID), payload, ttl).Err(); err != nil {
		logging.WithComponent("cache").Sugar().Warnf("feed cache set failed: %v", err)
	}
}

// InvalidateFeeds drops the cached feeds of the given viewers
func (c *Cache) InvalidateFeeds(ctx context.Context, viewerIDs []string) {
	if c == nil || c.client == nil || len(viewerIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(viewerIDs))
	for _, id := range viewerIDs {
		keys = append(keys, feedKey(id))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logging.WithComponent("cache").Sugar().Warnf("feed cache invalidation failed: %v", err)
	}
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Health checks Redis health
func (c *Cache) Health(ctx context.Context) error {
	if c == nil || c.client == nil {
		return ErrCacheDisabled
	}
	return c.client.Ping(ctx).Err()
}

// ErrCacheDisabled is returned when cache operations are attempted but
// the cache is disabled
var ErrCacheDisabled = fmt.Errorf("cache is disabled")
