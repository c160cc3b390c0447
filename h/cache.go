package h

import (
	"github.com/dgraph-io/ristretto/v2"
)

type Cache interface {
	Get(key string) (string, bool)
	Set(key string, value string)
	GetOrSet(key string, function func() string) string
}

type cacheImpl struct {
	internal *ristretto.Cache[string, string]
}

// NewCache creates a string cache bounded to roughly maxItems entries.
func NewCache(maxItems int64) (Cache, error) {
	if maxItems <= 0 {
		maxItems = 10000
	}
	internal, err := ristretto.NewCache(&ristretto.Config[string, string]{
		NumCounters: maxItems * 10,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &cacheImpl{
		internal: internal,
	}, nil
}

func (c *cacheImpl) Get(key string) (string, bool) {
	return c.internal.Get(key)
}

func (c *cacheImpl) GetOrSet(key string, function func() string) string {
	if val, ok := c.internal.Get(key); ok {
		return val
	}
	value := function()
	c.Set(key, value)
	return value
}

func (c *cacheImpl) Set(key string, value string) {
	c.internal.Set(key, value, 1)
	c.internal.Wait()
}
