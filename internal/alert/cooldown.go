// Package alert applies the alert trigger rules, severity classification, and
// cooldown deduplication for ticket sentiment events.
package alert

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// CooldownStore performs an atomic check-and-set on a dedup key: the first
// caller inside the window wins, later callers are suppressed until the entry
// expires. Implementations must make Acquire a single critical section per
// key so two concurrent tickets cannot both pass the check.
type CooldownStore interface {
	// Acquire returns true if no active cooldown existed for key, recording a
	// new entry that expires after ttl. Returns false while a cooldown holds.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Reset drops all cooldown entries.
	Reset(ctx context.Context) error
}

// MemoryCooldownStore keeps cooldown expiries in process memory. Used in
// single-instance mode; the Redis store covers multi-instance deployments.
type MemoryCooldownStore struct {
	clock   clockwork.Clock
	mu      sync.Mutex
	entries map[string]time.Time
}

func NewMemoryCooldownStore(clock clockwork.Clock) *MemoryCooldownStore {
	return &MemoryCooldownStore{
		clock:   clock,
		entries: make(map[string]time.Time),
	}
}

func (s *MemoryCooldownStore) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if expiry, ok := s.entries[key]; ok {
		if now.Before(expiry) {
			return false, nil
		}
		// Expired entries are dropped lazily on the next read.
		delete(s.entries, key)
	}
	s.entries[key] = now.Add(ttl)
	return true, nil
}

func (s *MemoryCooldownStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]time.Time)
	return nil
}

// Snapshot returns a copy of the active entries, for tests and diagnostics.
func (s *MemoryCooldownStore) Snapshot() map[string]time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]time.Time, len(s.entries))
	now := s.clock.Now()
	for k, expiry := range s.entries {
		if now.Before(expiry) {
			out[k] = expiry
		}
	}
	return out
}
