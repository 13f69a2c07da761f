package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jhoicas/varejo-api/internal/application/ports"
)

var (
	_ ports.StoreCache = NoopStoreCache{}
	_ ports.StoreCache = (*MemoryStoreCache)(nil)
	_ ports.StoreCache = (*RedisStoreCache)(nil)
)

// NoopStoreCache no guarda nada; toda lectura es un miss.
type NoopStoreCache struct{}

func (NoopStoreCache) Get(_ context.Context, _, _ string, _ any) (bool, error) {
	return false, nil
}

func (NoopStoreCache) Set(_ context.Context, _, _ string, _ any) error {
	return nil
}

func (NoopStoreCache) Invalidate(_ context.Context, _ string) error {
	return nil
}

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryStoreCache caché en proceso con TTL. Los valores se guardan serializados
// en JSON para que el llamador nunca comparta punteros con la caché.
type MemoryStoreCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStoreCache ttl <= 0 significa sin expiración.
func NewMemoryStoreCache(ttl time.Duration) *MemoryStoreCache {
	return &MemoryStoreCache{
		ttl:     ttl,
		entries: make(map[string]map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryStoreCache) Get(_ context.Context, storeID, key string, dst any) (bool, error) {
	c.mu.RLock()
	e, ok := c.entries[storeID][key]
	c.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries[storeID], key)
		c.mu.Unlock()
		return false, nil
	}
	if err := json.Unmarshal(e.payload, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *MemoryStoreCache) Set(_ context.Context, storeID, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	e := memoryEntry{payload: payload}
	if c.ttl > 0 {
		e.expiresAt = c.now().Add(c.ttl)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	bucket, ok := c.entries[storeID]
	if !ok {
		bucket = make(map[string]memoryEntry)
		c.entries[storeID] = bucket
	}
	bucket[key] = e
	return nil
}

func (c *MemoryStoreCache) Invalidate(_ context.Context, storeID string) error {
	c.mu.Lock()
	delete(c.entries, storeID)
	c.mu.Unlock()
	return nil
}
