package users

import (
	"context"
	"sync"

	"github.com/culbec/motocontest/internal/common"
	"github.com/culbec/motocontest/internal/model"
)

// MemoryRepository is an in-memory Repository used by tests and by the
// database-less server mode.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int
	users  map[string]model.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1, users: make(map[string]model.User)}
}

func (r *MemoryRepository) Create(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := *user
	u.ID = r.nextID
	r.nextID++
	r.users[u.Username] = u

	return &u, nil
}

func (r *MemoryRepository) GetByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[username]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &u, nil
}
