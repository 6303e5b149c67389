package session

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// memoryStore keeps sessions in process memory. Entries expire after their
// own TTL, capped at maxTTL, and the least recently used entry is evicted
// once capacity is reached.
type memoryStore struct {
	cache *expirable.LRU[string, memoryEntry]
	now   func() time.Time
}

// NewMemoryStore creates an in-process store holding at most capacity keys
func NewMemoryStore(capacity int, maxTTL time.Duration) Store {
	return &memoryStore{
		cache: expirable.NewLRU[string, memoryEntry](capacity, nil, maxTTL),
		now:   time.Now,
	}
}

func (s *memoryStore) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	s.cache.Add(key, memoryEntry{value: value, expiresAt: s.now().Add(ttl)})
	return nil
}

func (s *memoryStore) Get(_ context.Context, key string) (string, error) {
	entry, ok := s.cache.Get(key)
	if !ok {
		return "", ErrKeyNotFound
	}
	if !s.now().Before(entry.expiresAt) {
		s.cache.Remove(key)
		return "", ErrKeyNotFound
	}
	return entry.value, nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.cache.Remove(key)
	return nil
}

func (s *memoryStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.Get(ctx, key)
	if err == ErrKeyNotFound {
		return false, nil
	}
	return err == nil, err
}

func (s *memoryStore) Health(context.Context) error {
	return nil
}
