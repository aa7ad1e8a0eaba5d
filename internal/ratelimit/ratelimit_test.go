package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStore_SlidingWindow(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		ok, _ := s.Allow("ip:1", 3, time.Minute)
		assert.True(t, ok)
	}

	ok, retryAfter := s.Allow("ip:1", 3, time.Minute)
	assert.False(t, ok)
	assert.Equal(t, time.Minute, retryAfter)

	// другой ключ не затронут
	ok, _ = s.Allow("ip:2", 3, time.Minute)
	assert.True(t, ok)

	now = now.Add(61 * time.Second)
	ok, _ = s.Allow("ip:1", 3, time.Minute)
	assert.True(t, ok)
}

func TestMemoryStore_Cleanup(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	now := time.Now()
	s.now = func() time.Time { return now }

	s.Allow("a", 10, time.Minute)
	s.Allow("b", 10, time.Minute)
	assert.Equal(t, 2, s.Len())

	now = now.Add(2 * time.Minute)
	s.cleanup()
	assert.Equal(t, 0, s.Len())
}
