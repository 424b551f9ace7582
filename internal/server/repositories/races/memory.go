package races

import (
	"context"
	"sort"
	"sync"

	"github.com/culbec/motocontest/internal/model"
)

// ParticipantCounter resolves the derived participant count for a race
// class. The participants memory repository implements it.
type ParticipantCounter interface {
	CountByEngineCapacity(capacity int) int
}

// MemoryRepository is an in-memory Repository used by tests and by the
// database-less server mode. Races are seeded at construction time.
type MemoryRepository struct {
	mu      sync.RWMutex
	races   []model.Race
	counter ParticipantCounter
}

func NewMemoryRepository(capacities []int, counter ParticipantCounter) *MemoryRepository {
	sorted := append([]int(nil), capacities...)
	sort.Ints(sorted)

	races := make([]model.Race, 0, len(sorted))
	for i, capacity := range sorted {
		races = append(races, model.Race{ID: i + 1, EngineCapacity: capacity})
	}
	return &MemoryRepository{races: races, counter: counter}
}

func (r *MemoryRepository) FindAll(_ context.Context) ([]model.Race, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	races := make([]model.Race, 0, len(r.races))
	for _, race := range r.races {
		race.NoParticipants = r.counter.CountByEngineCapacity(race.EngineCapacity)
		races = append(races, race)
	}
	return races, nil
}

func (r *MemoryRepository) FindAllEngineCapacities(_ context.Context) ([]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	capacities := make([]int, 0, len(r.races))
	for _, race := range r.races {
		capacities = append(capacities, race.EngineCapacity)
	}
	return capacities, nil
}
