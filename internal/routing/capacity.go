// Package routing maps risk assessments onto escalation paths: team, SLA,
// notification channels, with capacity-aware backup failover and priority
// overrides.
package routing

import (
	"context"
	"sort"
	"sync"

	"github.com/pulsecheck/watchdog/internal/domain"
	"github.com/pulsecheck/watchdog/internal/metrics"
)

// DefaultMaxConcurrent is the capacity assumed for teams that were never
// configured. Unknown teams never fail a lookup.
const DefaultMaxConcurrent = 10

// CapacityStore tracks per-team concurrent assignment load. TryAcquire must
// be a single critical section per team so two concurrent tickets cannot
// both pass the same capacity check.
type CapacityStore interface {
	// TryAcquire atomically checks capacity and increments the team's load.
	// Returns false, without incrementing, when the team is saturated.
	TryAcquire(ctx context.Context, team string) (bool, error)
	// Release decrements the team's load, clamping at zero. Called by the
	// external collaborator when a ticket is resolved or reassigned.
	Release(ctx context.Context, team string) error
	// Status reports all known teams, sorted by name.
	Status(ctx context.Context) ([]domain.TeamStatus, error)
	// Reset zeroes every team's load.
	Reset(ctx context.Context) error
}

type teamCounter struct {
	maxConcurrent int
	currentLoad   int
}

// MemoryCapacityStore keeps team load counters in process memory. The
// watchdog instance is the assignment authority, so load state is local
// even when cooldown and trend state live in Redis.
type MemoryCapacityStore struct {
	mu    sync.Mutex
	teams map[string]*teamCounter
}

// NewMemoryCapacityStore builds a store with the configured limits
// (team name to max concurrent assignments).
func NewMemoryCapacityStore(limits map[string]int) *MemoryCapacityStore {
	teams := make(map[string]*teamCounter, len(limits))
	for name, limit := range limits {
		teams[name] = &teamCounter{maxConcurrent: limit}
	}
	return &MemoryCapacityStore{teams: teams}
}

func (s *MemoryCapacityStore) TryAcquire(_ context.Context, team string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counter := s.counterLocked(team)
	if counter.currentLoad >= counter.maxConcurrent {
		return false, nil
	}
	counter.currentLoad++
	metrics.TeamLoad.WithLabelValues(team).Set(float64(counter.currentLoad))
	return true, nil
}

func (s *MemoryCapacityStore) Release(_ context.Context, team string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	counter := s.counterLocked(team)
	if counter.currentLoad > 0 {
		counter.currentLoad--
	}
	metrics.TeamLoad.WithLabelValues(team).Set(float64(counter.currentLoad))
	return nil
}

func (s *MemoryCapacityStore) Status(_ context.Context) ([]domain.TeamStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make([]domain.TeamStatus, 0, len(s.teams))
	for name, counter := range s.teams {
		utilization := 0.0
		if counter.maxConcurrent > 0 {
			utilization = float64(counter.currentLoad) / float64(counter.maxConcurrent) * 100
		}
		statuses = append(statuses, domain.TeamStatus{
			Team:        name,
			CurrentLoad: counter.currentLoad,
			MaxCapacity: counter.maxConcurrent,
			Utilization: utilization,
		})
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Team < statuses[j].Team })
	return statuses, nil
}

func (s *MemoryCapacityStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for team, counter := range s.teams {
		counter.currentLoad = 0
		metrics.TeamLoad.WithLabelValues(team).Set(0)
	}
	return nil
}

// counterLocked returns the team's counter, creating one with the default
// capacity for teams that were never configured. Caller holds the mutex.
func (s *MemoryCapacityStore) counterLocked(team string) *teamCounter {
	counter, ok := s.teams[team]
	if !ok {
		counter = &teamCounter{maxConcurrent: DefaultMaxConcurrent}
		s.teams[team] = counter
	}
	return counter
}
