// Package store remembers which chat messages were already processed so
// replayed updates after a reconnect do not trigger duplicate downloads.
package store

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	lru "github.com/hashicorp/golang-lru/v2"
)

// SeenStore is a bounded, thread-safe record of processed message keys.
// The Bloom filter answers the common "never seen" case without touching
// the map; the LRU bounds memory by evicting the oldest keys.
type SeenStore struct {
	keys              map[string]struct{}
	bloom             *bloom.BloomFilter
	lru               *lru.Cache[string, struct{}]
	mutex             sync.RWMutex
	capacity          int
	falsePositiveRate float64
}

// NewSeenStore creates a store remembering up to capacity message keys.
func NewSeenStore(capacity int, falsePositiveRate float64) *SeenStore {
	if capacity <= 0 {
		panic("seen store capacity must be positive")
	}

	lruCache, _ := lru.New[string, struct{}](capacity)

	return &SeenStore{
		keys:              make(map[string]struct{}),
		bloom:             bloom.NewWithEstimates(uint(capacity), falsePositiveRate),
		lru:               lruCache,
		capacity:          capacity,
		falsePositiveRate: falsePositiveRate,
	}
}

// Seen reports whether the key was marked before.
func (s *SeenStore) Seen(key string) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.bloom.TestString(key) {
		return false
	}

	_, exists := s.keys[key]
	return exists
}

// Mark records the key as processed, evicting the oldest key when full.
func (s *SeenStore) Mark(key string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.keys[key]; exists {
		return
	}

	s.keys[key] = struct{}{}
	s.bloom.AddString(key)
	s.lru.Add(key, struct{}{})

	for len(s.keys) > s.capacity {
		oldest, _, ok := s.lru.GetOldest()
		if !ok {
			break
		}
		s.lru.Remove(oldest)
		delete(s.keys, oldest)
		// The bloom filter cannot un-set bits. A stale bit only costs an
		// extra map lookup, so eviction leaves it in place.
	}
}

// Size returns the number of keys currently stored.
func (s *SeenStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.keys)
}
