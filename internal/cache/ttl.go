package cache

import (
	"context"
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTL - потокобезопасный кеш с временем жизни записей
type TTL[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]entry[V]
	gens  map[K]uint64 // растет при Delete; загрузка со старым поколением не кешируется
	ttl   time.Duration
	now   func() time.Time
}

func NewTTL[K comparable, V any](ttl time.Duration) *TTL[K, V] {
	return &TTL[K, V]{
		items: make(map[K]entry[V]),
		gens:  make(map[K]uint64),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (c *TTL[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || c.now().After(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *TTL[K, V]) Set(key K, value V) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.items[key] = entry[V]{value: value, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *TTL[K, V]) Delete(key K) {
	c.mu.Lock()
	delete(c.items, key)
	c.gens[key]++
	c.mu.Unlock()
}

// GetOrLoad возвращает значение из кеша или вызывает load и кеширует результат.
// Ошибки load не кешируются. Если ключ удален во время load, результат
// возвращается вызывающему, но в кеш не попадает.
func (c *TTL[K, V]) GetOrLoad(key K, load func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	c.mu.RLock()
	gen := c.gens[key]
	c.mu.RUnlock()

	v, err := load()
	if err != nil {
		return v, err
	}

	if c.ttl <= 0 {
		return v, nil
	}
	c.mu.Lock()
	if c.gens[key] == gen {
		c.items[key] = entry[V]{value: v, expiresAt: c.now().Add(c.ttl)}
	}
	c.mu.Unlock()
	return v, nil
}

// Purge удаляет просроченные записи
func (c *TTL[K, V]) Purge() {
	now := c.now()
	c.mu.Lock()
	for k, e := range c.items {
		if now.After(e.expiresAt) {
			delete(c.items, k)
		}
	}
	c.mu.Unlock()
}

// StartCleanup периодически вызывает Purge до отмены ctx
func (c *TTL[K, V]) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Purge()
			}
		}
	}()
}
