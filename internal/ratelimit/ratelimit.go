package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Store - хранилище счетчиков. In-memory реализация ниже; при нескольких
// инстансах подменяется общей (например, Redis) без изменения middleware.
type Store interface {
	// Allow регистрирует попытку и возвращает false, если лимит исчерпан.
	// retryAfter - через сколько освободится слот.
	Allow(key string, limit int, window time.Duration) (allowed bool, retryAfter time.Duration)
}

// MemoryStore - скользящее окно в памяти процесса
type MemoryStore struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	maxAge   time.Duration
	now      func() time.Time
}

// NewMemoryStore создает хранилище. maxAge - самое длинное окно, которое
// будет использоваться; старше него записи удаляются при очистке.
func NewMemoryStore(maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		requests: make(map[string][]time.Time),
		maxAge:   maxAge,
		now:      time.Now,
	}
}

func (s *MemoryStore) Allow(key string, limit int, window time.Duration) (bool, time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	windowStart := now.Add(-window)

	valid := s.requests[key][:0]
	for _, t := range s.requests[key] {
		if t.After(windowStart) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= limit {
		s.requests[key] = valid
		return false, valid[0].Add(window).Sub(now)
	}

	s.requests[key] = append(valid, now)
	return true, 0
}

// Len - количество отслеживаемых ключей
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// StartCleanup периодически удаляет устаревшие записи до отмены ctx
func (s *MemoryStore) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.cleanup()
			}
		}
	}()
}

func (s *MemoryStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.maxAge)
	for key, times := range s.requests {
		var valid []time.Time
		for _, t := range times {
			if t.After(cutoff) {
				valid = append(valid, t)
			}
		}
		if len(valid) == 0 {
			delete(s.requests, key)
		} else {
			s.requests[key] = valid
		}
	}
}
