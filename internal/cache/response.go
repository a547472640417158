// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"inkwell/internal/metrics"
)

const (
	// keyPrefix namespaces API response keys in Valkey.
	keyPrefix = "api:"

	// PostsPrefix groups cached post listings.
	PostsPrefix = keyPrefix + "posts:"

	// CommentsPrefix groups cached comment trees.
	CommentsPrefix = keyPrefix + "comments:"

	// genPrefix holds one generation counter per response group.
	genPrefix = keyPrefix + "gen:"

	// DefaultTTL is how long a cached response lives.
	DefaultTTL = 5 * time.Minute
)

// ResponseCache stores rendered JSON bodies for public reads. A nil
// *ResponseCache is valid and caches nothing, so the API runs without
// Valkey. Cache failures are logged and never surface to callers.
//
// Every key embeds the generation of its group as read before the
// underlying query ran. Invalidation bumps the generation, so a body built
// from data read before a mutation is written under a key no later reader
// looks up.
type ResponseCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewResponseCache creates a cache backed by client. A zero ttl uses
// DefaultTTL.
func NewResponseCache(client redis.Cmdable, ttl time.Duration) *ResponseCache {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &ResponseCache{client: client, ttl: ttl}
}

// Entry is one cacheable response pinned to the generation that was
// current when it was created. The zero Entry caches nothing.
type Entry struct {
	cache *ResponseCache
	key   string
}

// Posts returns the entry for a post listing. Query parameters are
// re-encoded in sorted order so equivalent URLs share an entry. Call it
// before reading the listing.
func (c *ResponseCache) Posts(ctx context.Context, query url.Values) Entry {
	return c.entry(ctx, PostsPrefix, query.Encode())
}

// Comments returns the entry for the comment tree of a post. Call it
// before reading the tree.
func (c *ResponseCache) Comments(ctx context.Context, postSlug string) Entry {
	return c.entry(ctx, CommentsPrefix, postSlug)
}

func (c *ResponseCache) entry(ctx context.Context, prefix, suffix string) Entry {
	if c == nil {
		return Entry{}
	}
	gen, err := c.generation(ctx, prefix)
	if err != nil {
		slog.Warn("response cache generation error", "prefix", prefix, "error", err)
		return Entry{}
	}
	return Entry{cache: c, key: entryKey(prefix, gen, suffix)}
}

func entryKey(prefix string, gen int64, suffix string) string {
	return prefix + strconv.FormatInt(gen, 10) + ":" + suffix
}

// generation returns the current counter for prefix. A missing counter is 0.
func (c *ResponseCache) generation(ctx context.Context, prefix string) (int64, error) {
	gen, err := c.client.Get(ctx, genKey(prefix)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func genKey(prefix string) string {
	return genPrefix + strings.TrimSuffix(strings.TrimPrefix(prefix, keyPrefix), ":")
}

// Get returns the cached body.
func (e Entry) Get(ctx context.Context) ([]byte, bool) {
	if e.cache == nil {
		return nil, false
	}
	val, err := e.cache.client.Get(ctx, e.key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecordCacheLookup(false)
		return nil, false
	}
	if err != nil {
		slog.Warn("response cache get error", "key", e.key, "error", err)
		metrics.RecordCacheLookup(false)
		return nil, false
	}
	metrics.RecordCacheLookup(true)
	slog.Debug("response cache hit", "key", e.key)
	return val, true
}

// Set stores body with the configured TTL.
func (e Entry) Set(ctx context.Context, body []byte) {
	if e.cache == nil {
		return
	}
	if err := e.cache.client.Set(ctx, e.key, body, e.cache.ttl).Err(); err != nil {
		slog.Warn("response cache set error", "key", e.key, "error", err)
	}
}

// InvalidatePosts drops every cached post listing.
func (c *ResponseCache) InvalidatePosts(ctx context.Context) {
	c.invalidate(ctx, PostsPrefix)
}

// InvalidateComments drops every cached comment tree.
func (c *ResponseCache) InvalidateComments(ctx context.Context) {
	c.invalidate(ctx, CommentsPrefix)
}

// invalidate bumps the generation of prefix, then deletes the entries it
// made unreachable.
func (c *ResponseCache) invalidate(ctx context.Context, prefix string) {
	if c == nil {
		return
	}
	if err := c.client.Incr(ctx, genKey(prefix)).Err(); err != nil {
		slog.Warn("response cache generation bump error", "prefix", prefix, "error", err)
	}
	c.deletePrefix(ctx, prefix)
}

// deletePrefix removes all keys under prefix by scanning.
func (c *ResponseCache) deletePrefix(ctx context.Context, prefix string) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			slog.Warn("response cache scan error", "prefix", prefix, "error", err)
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("response cache bulk delete error", "prefix", prefix, "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("response cache invalidated", "prefix", prefix, "deleted", deleted)
	}
}
