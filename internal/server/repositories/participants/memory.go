package participants

import (
	"context"
	"sort"
	"sync"

	"github.com/culbec/motocontest/internal/common"
	"github.com/culbec/motocontest/internal/model"
)

// MemoryRepository is an in-memory Repository used by tests and by the
// database-less server mode.
type MemoryRepository struct {
	mu           sync.RWMutex
	participants []model.Participant
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Save(_ context.Context, p model.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.participants {
		if existing.SameIdentity(p) {
			return common.ErrDuplicateParticipant
		}
	}

	r.participants = append(r.participants, p)
	return nil
}

func (r *MemoryRepository) FindByIdentity(_ context.Context, firstName, lastName, team string, engineCapacity int) (*model.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	probe := model.Participant{
		FirstName:      firstName,
		LastName:       lastName,
		Team:           team,
		EngineCapacity: engineCapacity,
	}
	for _, p := range r.participants {
		if p.SameIdentity(probe) {
			found := p
			return &found, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *MemoryRepository) FindByTeam(_ context.Context, team string) ([]model.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	found := make([]model.Participant, 0)
	for _, p := range r.participants {
		if p.Team == team {
			found = append(found, p)
		}
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].LastName != found[j].LastName {
			return found[i].LastName < found[j].LastName
		}
		return found[i].FirstName < found[j].FirstName
	})
	return found, nil
}

// CountByEngineCapacity returns how many participants compete in the class
// with the given engine capacity. Used by the race repository to derive
// participant counts.
func (r *MemoryRepository) CountByEngineCapacity(capacity int) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, p := range r.participants {
		if p.EngineCapacity == capacity {
			n++
		}
	}
	return n
}
