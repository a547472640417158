// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"inkwell/internal/mocks"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, keyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(host, port, os.Getenv("VALKEY_PASSWORD"))
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	pong, err := client.Ping(context.Background()).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestResponseCacheSetAndGet(t *testing.T) {
	rc := NewResponseCache(testValkeyClient(t), time.Minute)
	ctx := context.Background()
	entry := rc.Comments(ctx, "set-and-get")

	data, ok := entry.Get(ctx)
	if ok || data != nil {
		t.Error("expected cache miss")
	}

	body := []byte(`[{"id":"1"}]`)
	entry.Set(ctx, body)

	data, ok = rc.Comments(ctx, "set-and-get").Get(ctx)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(data) != string(body) {
		t.Errorf("data mismatch: got %q, want %q", data, body)
	}
}

func TestResponseCacheInvalidationIsScopedByPrefix(t *testing.T) {
	clients := map[string]func(t *testing.T) redis.Cmdable{
		"memory": func(*testing.T) redis.Cmdable { return mocks.NewValkey() },
		"valkey": func(t *testing.T) redis.Cmdable { return testValkeyClient(t) },
	}

	for name, newClient := range clients {
		t.Run(name, func(t *testing.T) {
			rc := NewResponseCache(newClient(t), time.Minute)
			ctx := context.Background()

			rc.Posts(ctx, url.Values{"page": {"1"}}).Set(ctx, []byte("listing"))
			rc.Posts(ctx, url.Values{"tag": {"go"}}).Set(ctx, []byte("filtered"))
			rc.Comments(ctx, "hello").Set(ctx, []byte("tree"))

			rc.InvalidatePosts(ctx)

			for _, q := range []url.Values{{"page": {"1"}}, {"tag": {"go"}}} {
				if _, ok := rc.Posts(ctx, q).Get(ctx); ok {
					t.Errorf("expected miss for %v after InvalidatePosts", q)
				}
			}
			if _, ok := rc.Comments(ctx, "hello").Get(ctx); !ok {
				t.Error("comment tree should survive post invalidation")
			}

			rc.InvalidateComments(ctx)
			if _, ok := rc.Comments(ctx, "hello").Get(ctx); ok {
				t.Error("expected miss for comment tree after InvalidateComments")
			}
		})
	}
}

func TestEntryCreatedBeforeInvalidationIsNeverServed(t *testing.T) {
	store := mocks.NewValkey()
	rc := NewResponseCache(store, time.Minute)
	ctx := context.Background()

	// A reader takes its entry, a writer invalidates while the reader is
	// still querying, then the reader stores what it read.
	stale := rc.Comments(ctx, "hello")
	rc.InvalidateComments(ctx)
	stale.Set(ctx, []byte("before moderation"))

	if data, ok := rc.Comments(ctx, "hello").Get(ctx); ok {
		t.Fatalf("served body written under an old generation: %q", data)
	}

	fresh := rc.Comments(ctx, "hello")
	fresh.Set(ctx, []byte("after moderation"))
	data, ok := rc.Comments(ctx, "hello").Get(ctx)
	if !ok || string(data) != "after moderation" {
		t.Errorf("got %q, %v; want the fresh body", data, ok)
	}

	// The next invalidation sweeps both generations.
	rc.InvalidateComments(ctx)
	for _, k := range store.StoredKeys() {
		if strings.HasPrefix(k, CommentsPrefix) {
			t.Errorf("key %q survived invalidation", k)
		}
	}
}

func TestNilResponseCache(t *testing.T) {
	var rc *ResponseCache
	ctx := context.Background()

	entry := rc.Comments(ctx, "k")
	entry.Set(ctx, []byte("v"))
	if _, ok := entry.Get(ctx); ok {
		t.Error("nil cache reported a hit")
	}
	if _, ok := rc.Posts(ctx, nil).Get(ctx); ok {
		t.Error("nil cache reported a hit")
	}
	rc.InvalidatePosts(ctx)
	rc.InvalidateComments(ctx)
}

func TestKeys(t *testing.T) {
	rc := NewResponseCache(mocks.NewValkey(), time.Minute)
	ctx := context.Background()

	a := rc.Posts(ctx, url.Values{"page": {"2"}, "tag": {"go"}})
	b := rc.Posts(ctx, url.Values{"tag": {"go"}, "page": {"2"}})
	if a.key != b.key {
		t.Errorf("equivalent queries produced different keys: %q vs %q", a.key, b.key)
	}
	if a.key != "api:posts:0:page=2&tag=go" {
		t.Errorf("posts key: got %q", a.key)
	}

	rc.InvalidateComments(ctx)
	if got := rc.Comments(ctx, "hello-world").key; got != "api:comments:1:hello-world" {
		t.Errorf("comments key: got %q", got)
	}

	if got := genKey(PostsPrefix); got != "api:gen:posts" {
		t.Errorf("genKey: got %q", got)
	}
	if strings.HasPrefix(genKey(CommentsPrefix), CommentsPrefix) {
		t.Error("generation counter must not fall under the prefix it guards")
	}
}

func TestNewResponseCacheDefaultTTL(t *testing.T) {
	rc := NewResponseCache(nil, 0)
	if rc.ttl != DefaultTTL {
		t.Errorf("expected DefaultTTL (%v), got %v", DefaultTTL, rc.ttl)
	}
}
