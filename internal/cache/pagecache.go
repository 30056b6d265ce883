package cache

import (
	"context"
	"fmt"
	"time"

	"quill/internal/observability"

	"github.com/redis/go-redis/v9"
)

const homePagePrefix = "pages:home:"

// HomePageKey returns the cache key for one page of the home feed. The key
// varies only by page number, never by requester identity: the home feed is
// identical for all viewers.
func HomePageKey(page int) string {
	return fmt.Sprintf("%s%d", homePagePrefix, page)
}

// PageCache stores rendered home feed pages for a fixed TTL. It is an explicit
// collaborator injected into the handlers, not ambient state. All operations
// are single Redis commands, so a miss on one key never blocks hits on others.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache creates a page cache over the given client with the given TTL.
// A nil client yields a cache that always misses.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	return &PageCache{client: client, ttl: ttl}
}

// Get returns the cached payload for key, or (nil, false) on a miss.
// Staleness within the TTL is intentional: deletes and creates after the
// page was stored do not show until expiry or an explicit Clear.
func (p *PageCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if p == nil || p.client == nil {
		return nil, false
	}
	payload, err := p.client.Get(ctx, key).Bytes()
	if err != nil {
		observability.PageCacheRequests.WithLabelValues("miss").Inc()
		return nil, false
	}
	observability.PageCacheRequests.WithLabelValues("hit").Inc()
	return payload, true
}

// Set stores payload under key for the configured TTL. Best-effort: a write
// failure only costs a recomputation on the next request.
func (p *PageCache) Set(ctx context.Context, key string, payload []byte) {
	if p == nil || p.client == nil {
		return
	}
	_ = p.client.Set(ctx, key, payload, p.ttl).Err()
}

// Clear removes every cached home page, bypassing the TTL, so the next
// request recomputes from the store.
func (p *PageCache) Clear(ctx context.Context) error {
	if p == nil || p.client == nil {
		return nil
	}
	iter := p.client.Scan(ctx, 0, homePagePrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return p.client.Del(ctx, keys...).Err()
}
