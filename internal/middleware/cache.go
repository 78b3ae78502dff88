package middleware

import (
	lru "github.com/hashicorp/golang-lru"
)

// DefaultCacheSize is used when a non-positive size is configured.
const DefaultCacheSize = 512

// Cache is the host get-or-set store widgets keep render-to-render state in,
// such as their last measured dimensions.
type Cache struct {
	lru *lru.ARCCache
}

// NewCache creates a cache holding at most size entries
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	arc, err := lru.NewARC(size)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: arc}, nil
}

// Get looks up a key's value from the cache.
func (c *Cache) Get(key string) (interface{}, bool) {
	return c.lru.Get(key)
}

// Set adds a value to the cache.
func (c *Cache) Set(key string, value interface{}) {
	c.lru.Add(key, value)
}

// Purge clears the cache
func (c *Cache) Purge() {
	c.lru.Purge()
}

// GetOrSet returns the cached value, computing and storing it first when the
// key is missing.
func (c *Cache) GetOrSet(key string, getValue func() interface{}) interface{} {
	if value, ok := c.lru.Get(key); ok {
		return value
	}
	value := getValue()
	c.lru.Add(key, value)
	return value
}
