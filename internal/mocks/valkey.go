// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package mocks

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Valkey is an in-memory redis.Cmdable covering the commands the response
// cache issues: GET, SET, INCR, SCAN and DEL. Expiry is ignored. Any other
// command panics through the nil embedded interface.
type Valkey struct {
	redis.Cmdable

	mu   sync.Mutex
	data map[string]string
}

// NewValkey returns an empty Valkey.
func NewValkey() *Valkey {
	return &Valkey{data: make(map[string]string)}
}

// StoredKeys returns the stored keys in sorted order.
func (v *Valkey) StoredKeys() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	keys := make([]string, 0, len(v.data))
	for k := range v.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (v *Valkey) Get(_ context.Context, key string) *redis.StringCmd {
	v.mu.Lock()
	defer v.mu.Unlock()
	val, ok := v.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(val, nil)
}

func (v *Valkey) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch val := value.(type) {
	case []byte:
		v.data[key] = string(val)
	case string:
		v.data[key] = val
	default:
		v.data[key] = fmt.Sprint(val)
	}
	return redis.NewStatusResult("OK", nil)
}

func (v *Valkey) Incr(_ context.Context, key string) *redis.IntCmd {
	v.mu.Lock()
	defer v.mu.Unlock()
	n, _ := strconv.ParseInt(v.data[key], 10, 64)
	n++
	v.data[key] = strconv.FormatInt(n, 10)
	return redis.NewIntResult(n, nil)
}

// Scan returns every match in one page. Only trailing-* patterns are
// supported.
func (v *Valkey) Scan(_ context.Context, _ uint64, match string, _ int64) *redis.ScanCmd {
	v.mu.Lock()
	defer v.mu.Unlock()
	prefix := strings.TrimSuffix(match, "*")
	var keys []string
	for k := range v.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return redis.NewScanCmdResult(keys, 0, nil)
}

func (v *Valkey) Del(_ context.Context, keys ...string) *redis.IntCmd {
	v.mu.Lock()
	defer v.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := v.data[k]; ok {
			delete(v.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}
