package cache

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// memoryClient implementa Client sobre patrickmn/go-cache.
// Útil para desarrollo y testing; no sobrevive reinicios.
type memoryClient struct {
	prefix string
	store  *gocache.Cache
	mu     sync.Mutex // serializa GetDel para mantener la semántica one-shot
}

// NewMemory crea un cliente de cache en memoria.
func NewMemory(prefix string) *memoryClient {
	return &memoryClient{
		prefix: prefix,
		store:  gocache.New(gocache.NoExpiration, 5*time.Minute),
	}
}

func (c *memoryClient) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return c.prefix + ":" + k
}

func (c *memoryClient) Get(ctx context.Context, key string) (string, error) {
	v, ok := c.store.Get(c.key(key))
	if !ok {
		return "", ErrNotFound
	}
	return v.(string), nil
}

func (c *memoryClient) GetDel(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := c.key(key)
	v, ok := c.store.Get(k)
	if !ok {
		return "", ErrNotFound
	}
	c.store.Delete(k)
	return v.(string), nil
}

func (c *memoryClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	c.store.Set(c.key(key), value, ttl)
	return nil
}

func (c *memoryClient) Delete(ctx context.Context, key string) error {
	c.store.Delete(c.key(key))
	return nil
}

func (c *memoryClient) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := c.store.Get(c.key(key))
	return ok, nil
}

func (c *memoryClient) Ping(ctx context.Context) error {
	return nil
}

func (c *memoryClient) Close() error {
	c.store.Flush()
	return nil
}
