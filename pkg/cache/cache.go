package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrCacheMiss = errors.New("cache: key not found")
)

// Stats reports the live content of a cache backend. Size and Keys never
// include entries past their expiry.
type Stats struct {
	Size int      `json:"size"`
	Keys []string `json:"keys"`
}

// Service defines cache operations interface.
type Service interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Clear(ctx context.Context) error
	Stats(ctx context.Context) (*Stats, error)
	Close() error
}

// GetTyped retrieves a key and returns it as T. Returns ErrCacheMiss when
// the key is absent or expired.
func GetTyped[T any](ctx context.Context, c Service, key string) (*T, error) {
	var raw interface{}
	if err := c.Get(ctx, key, &raw); err != nil {
		return nil, err
	}

	// Memory backend stores values as-is; redis round-trips through JSON.
	switch v := raw.(type) {
	case *T:
		return v, nil
	case T:
		return &v, nil
	case []byte:
		var obj T
		if err := json.Unmarshal(v, &obj); err != nil {
			return nil, err
		}
		return &obj, nil
	case string:
		var obj T
		if err := json.Unmarshal([]byte(v), &obj); err != nil {
			return nil, err
		}
		return &obj, nil
	default:
		b, err := json.Marshal(raw)
		if err != nil {
			return nil, err
		}
		var obj T
		if err := json.Unmarshal(b, &obj); err != nil {
			return nil, err
		}
		return &obj, nil
	}
}
