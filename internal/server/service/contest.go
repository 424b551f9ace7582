package service

import (
	"context"
	"sync"

	"github.com/culbec/motocontest/internal/common"
	"github.com/culbec/motocontest/internal/logging"
	"github.com/culbec/motocontest/internal/model"
)

// Contest is the facade consumed by connection workers. It composes the
// per-entity services and keeps the session registry: at most one active
// session per username, each bound to the observer that can reach its
// client.
type Contest struct {
	users        *UserService
	participants *ParticipantService
	races        *RaceService
	logger       logging.Logger

	mu            sync.Mutex
	loggedClients map[string]Observer
}

func NewContest(users *UserService, participants *ParticipantService, races *RaceService, logger logging.Logger) *Contest {
	return &Contest{
		users:         users,
		participants:  participants,
		races:         races,
		logger:        logger.With("module", "contest"),
		loggedClients: make(map[string]Observer),
	}
}

// Login verifies the credentials and binds the username to the observer.
// A username with a live session fails with common.ErrAlreadyLoggedIn
// before any credential check happens.
func (c *Contest) Login(ctx context.Context, username, password string, observer Observer) (*model.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.loggedClients[username]; ok {
		c.logger.Warn(ctx, "rejected duplicate session", "username", username)
		return nil, common.ErrAlreadyLoggedIn
	}

	user, err := c.users.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	c.loggedClients[username] = observer
	c.logger.Info(ctx, "user logged in", "username", username)
	return user, nil
}

// Logout destroys the user's session.
func (c *Contest) Logout(ctx context.Context, user model.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.loggedClients[user.Username]; !ok {
		return common.ErrNotLoggedIn
	}

	delete(c.loggedClients, user.Username)
	c.logger.Info(ctx, "user logged out", "username", user.Username)
	return nil
}

// Disconnect removes the session bound to the observer, if any. Workers
// call it when a connection dies without a logout.
func (c *Contest) Disconnect(ctx context.Context, observer Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for username, obs := range c.loggedClients {
		if obs == observer {
			delete(c.loggedClients, username)
			c.logger.Info(ctx, "session dropped on disconnect", "username", username)
			return
		}
	}
}

// AddParticipant creates the participant and notifies every logged-in
// observer. Each notification runs in its own goroutine so a slow or dead
// client never delays the others.
func (c *Contest) AddParticipant(ctx context.Context, firstName, lastName, team string, engineCapacity int) (*model.Participant, error) {
	p, err := c.participants.Add(ctx, firstName, lastName, team, engineCapacity)
	if err != nil {
		return nil, err
	}

	c.notifyParticipantAdded(ctx, *p)
	return p, nil
}

func (c *Contest) notifyParticipantAdded(ctx context.Context, p model.Participant) {
	c.mu.Lock()
	observers := make([]Observer, 0, len(c.loggedClients))
	for _, obs := range c.loggedClients {
		observers = append(observers, obs)
	}
	c.mu.Unlock()

	for _, obs := range observers {
		go func(o Observer) {
			if err := o.ParticipantAdded(p); err != nil {
				c.logger.Error(ctx, "could not notify client", "error", err.Error())
			}
		}(obs)
	}
}

func (c *Contest) FindParticipantsByTeam(ctx context.Context, team string) ([]model.Participant, error) {
	return c.participants.FindByTeam(ctx, team)
}

func (c *Contest) FindAllRaces(ctx context.Context) ([]model.Race, error) {
	return c.races.FindAll(ctx)
}

func (c *Contest) FindAllRaceEngineCapacities(ctx context.Context) ([]int, error) {
	return c.races.FindAllEngineCapacities(ctx)
}
