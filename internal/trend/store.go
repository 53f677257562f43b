// Package trend maintains per-key rolling windows of sentiment snapshots and
// computes aggregate statistics on demand.
package trend

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pulsecheck/watchdog/internal/domain"
)

// RetentionHorizon is how long snapshots are kept before pruning.
const RetentionHorizon = 24 * time.Hour

// Store holds the rolling trend windows. Append must prune and insert in a
// single critical section per key; different keys may proceed in parallel.
type Store interface {
	// Append records a snapshot for key and prunes entries older than the
	// retention horizon.
	Append(ctx context.Context, key string, snapshot domain.TrendSnapshot) error
	// Window returns the snapshots for key recorded at or after since, in
	// chronological order.
	Window(ctx context.Context, key string, since time.Time) ([]domain.TrendSnapshot, error)
	// Keys lists all keys with retained snapshots.
	Keys(ctx context.Context) ([]string, error)
	// Reset drops all windows.
	Reset(ctx context.Context) error
}

// series is one key's window with its own lock, so appends for different
// keys never contend.
type series struct {
	mu        sync.Mutex
	snapshots []domain.TrendSnapshot
}

// MemoryStore keeps trend windows in process memory. The Redis store covers
// multi-instance deployments.
type MemoryStore struct {
	clock clockwork.Clock
	mu    sync.RWMutex // guards the series map, not the windows
	data  map[string]*series
}

func NewMemoryStore(clock clockwork.Clock) *MemoryStore {
	return &MemoryStore{clock: clock, data: make(map[string]*series)}
}

func (s *MemoryStore) Append(_ context.Context, key string, snapshot domain.TrendSnapshot) error {
	ser := s.seriesFor(key)
	cutoff := s.clock.Now().Add(-RetentionHorizon)

	ser.mu.Lock()
	defer ser.mu.Unlock()

	ser.snapshots = append(ser.snapshots, snapshot)
	ser.snapshots = pruneBefore(ser.snapshots, cutoff)
	return nil
}

func (s *MemoryStore) Window(_ context.Context, key string, since time.Time) ([]domain.TrendSnapshot, error) {
	s.mu.RLock()
	ser, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	ser.mu.Lock()
	defer ser.mu.Unlock()

	var out []domain.TrendSnapshot
	for _, snap := range ser.snapshots {
		if !snap.Timestamp.Before(since) {
			out = append(out, snap)
		}
	}
	return out, nil
}

func (s *MemoryStore) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for key := range s.data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *MemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]*series)
	return nil
}

func (s *MemoryStore) seriesFor(key string) *series {
	s.mu.RLock()
	ser, ok := s.data[key]
	s.mu.RUnlock()
	if ok {
		return ser
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ser, ok = s.data[key]; ok {
		return ser
	}
	ser = &series{}
	s.data[key] = ser
	return ser
}

// pruneBefore drops snapshots older than cutoff. Windows are appended in
// arrival order, so a single scan from the front suffices.
func pruneBefore(snapshots []domain.TrendSnapshot, cutoff time.Time) []domain.TrendSnapshot {
	i := 0
	for i < len(snapshots) && snapshots[i].Timestamp.Before(cutoff) {
		i++
	}
	if i == 0 {
		return snapshots
	}
	return append(snapshots[:0], snapshots[i:]...)
}
