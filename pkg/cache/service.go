package cache

import (
	"context"
	"time"
)

// CacheService defines the behavior for caching mechanisms
type CacheService interface {
	// Get returns the value and true when key is present and not expired.
	Get(key string) (interface{}, bool)

	// Set stores value for duration. A zero duration uses the cache default.
	Set(key string, value interface{}, duration time.Duration)

	Delete(key string)

	Flush()
}

// Remember returns the cached value for key, or calls load and caches its result.
// Errors from load are returned as-is and nothing is cached.
func Remember[T any](ctx context.Context, c CacheService, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if val, found := c.Get(key); found {
		if typed, ok := val.(T); ok {
			return typed, nil
		}
		c.Delete(key)
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	c.Set(key, v, ttl)
	return v, nil
}

type noopCache struct{}

// NewNoopCache returns a CacheService that stores nothing, so every Remember calls load.
func NewNoopCache() CacheService { return noopCache{} }

func (noopCache) Get(string) (interface{}, bool)         { return nil, false }
func (noopCache) Set(string, interface{}, time.Duration) {}
func (noopCache) Delete(string)                          {}
func (noopCache) Flush()                                 {}
