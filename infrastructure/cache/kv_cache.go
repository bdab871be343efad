package cache

import (
	"context"
	"sync"

	"odinpos/infrastructure/kv"
)

// KVCache is a read-through, write-through cache in front of a kv.Store.
// It assumes it is the only writer of the underlying store.
type KVCache struct {
	next kv.Store

	mu     sync.RWMutex
	values map[string]string
}

var _ kv.Store = (*KVCache)(nil)

func NewKVCache(next kv.Store) *KVCache {
	return &KVCache{next: next, values: make(map[string]string)}
}

func (c *KVCache) Get(ctx context.Context, key string) (string, bool, error) {
	c.mu.RLock()
	v, ok := c.values[key]
	c.mu.RUnlock()
	if ok {
		return v, true, nil
	}

	v, ok, err := c.next.Get(ctx, key)
	if err != nil || !ok {
		return v, ok, err
	}
	c.mu.Lock()
	c.values[key] = v
	c.mu.Unlock()
	return v, true, nil
}

func (c *KVCache) Set(ctx context.Context, key, value string) error {
	if err := c.next.Set(ctx, key, value); err != nil {
		c.Invalidate(key)
		return err
	}
	c.mu.Lock()
	c.values[key] = value
	c.mu.Unlock()
	return nil
}

func (c *KVCache) Remove(ctx context.Context, key string) error {
	c.Invalidate(key)
	return c.next.Remove(ctx, key)
}

// Invalidate forgets key so the next Get reads through.
func (c *KVCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
}
