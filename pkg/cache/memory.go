package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryItem stores cached value with expiration.
type MemoryItem struct {
	Value    interface{}
	ExpireAt time.Time
}

// IsExpired checks if item has expired.
func (m *MemoryItem) IsExpired() bool {
	return time.Now().After(m.ExpireAt)
}

// MemoryCache implements Service using an in-memory map with per-entry TTL.
// Expired entries are evicted lazily on Get/Stats; there is no background
// sweep and no size bound.
type MemoryCache struct {
	data       map[string]*MemoryItem
	mutex      sync.RWMutex
	defaultTTL time.Duration
}

// NewMemoryCache creates an in-memory cache.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	cfg := &MemoryConfig{
		DefaultTTL: 5 * time.Minute,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return &MemoryCache{
		data:       make(map[string]*MemoryItem),
		defaultTTL: cfg.DefaultTTL,
	}
}

func (mc *MemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	if expiration <= 0 {
		expiration = mc.defaultTTL
	}

	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	mc.data[key] = &MemoryItem{
		Value:    value,
		ExpireAt: time.Now().Add(expiration),
	}
	return nil
}

func (mc *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	item, exists := mc.data[key]
	if !exists || item.IsExpired() {
		if exists {
			delete(mc.data, key)
		}
		return ErrCacheMiss
	}

	switch d := dest.(type) {
	case *string:
		if str, ok := item.Value.(string); ok {
			*d = str
			return nil
		}
	case *interface{}:
		*d = item.Value
		return nil
	}

	*dest.(*interface{}) = item.Value
	return nil
}

func (mc *MemoryCache) Delete(_ context.Context, keys ...string) error {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	for _, key := range keys {
		delete(mc.data, key)
	}
	return nil
}

func (mc *MemoryCache) Clear(_ context.Context) error {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	mc.data = make(map[string]*MemoryItem)
	return nil
}

// Stats sweeps expired entries before reporting, so a stale entry that was
// never read again does not inflate the size.
func (mc *MemoryCache) Stats(_ context.Context) (*Stats, error) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	now := time.Now()
	for key, item := range mc.data {
		if now.After(item.ExpireAt) {
			delete(mc.data, key)
		}
	}

	keys := make([]string, 0, len(mc.data))
	for key := range mc.data {
		keys = append(keys, key)
	}

	return &Stats{Size: len(mc.data), Keys: keys}, nil
}

func (mc *MemoryCache) Close() error {
	return nil
}
