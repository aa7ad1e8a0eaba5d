package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTL_Expiry(t *testing.T) {
	c := NewTTL[string, int](time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok)

	c.Purge()
	assert.Empty(t, c.items)
}

func TestTTL_GetOrLoad(t *testing.T) {
	c := NewTTL[string, string](time.Minute)
	calls := 0
	load := func() (string, error) {
		calls++
		return "value", nil
	}

	v, err := c.GetOrLoad("k", load)
	require.NoError(t, err)
	assert.Equal(t, "value", v)
	_, _ = c.GetOrLoad("k", load)
	assert.Equal(t, 1, calls)

	c.Delete("k")
	_, _ = c.GetOrLoad("k", load)
	assert.Equal(t, 2, calls)

	_, err = c.GetOrLoad("bad", func() (string, error) { return "", errors.New("boom") })
	assert.Error(t, err)
	_, ok := c.Get("bad")
	assert.False(t, ok)
}

func TestTTL_GetOrLoadDoesNotCacheInvalidatedValue(t *testing.T) {
	c := NewTTL[string, string](time.Minute)

	v, err := c.GetOrLoad("k", func() (string, error) {
		// инвалидация приходит, пока загрузка еще идет
		c.Delete("k")
		return "stale", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "stale", v)

	_, ok := c.Get("k")
	assert.False(t, ok)

	v, err = c.GetOrLoad("k", func() (string, error) { return "fresh", nil })
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
	cached, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "fresh", cached)
}

func TestTTL_StartCleanup(t *testing.T) {
	c := NewTTL[string, int](time.Millisecond)
	c.Set("a", 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.StartCleanup(ctx, 5*time.Millisecond)

	assert.Eventually(t, func() bool {
		c.mu.RLock()
		defer c.mu.RUnlock()
		return len(c.items) == 0
	}, time.Second, 10*time.Millisecond)
}
