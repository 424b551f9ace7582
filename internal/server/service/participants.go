package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/culbec/motocontest/internal/common"
	"github.com/culbec/motocontest/internal/logging"
	"github.com/culbec/motocontest/internal/model"
	"github.com/culbec/motocontest/internal/server/repositories/participants"
)

// ParticipantService creates and queries contest participants.
type ParticipantService struct {
	repo   participants.Repository
	logger logging.Logger
}

func NewParticipantService(repo participants.Repository, logger logging.Logger) *ParticipantService {
	return &ParticipantService{
		repo:   repo,
		logger: logger.With("module", "participant_service"),
	}
}

// Add creates a participant with a freshly assigned id. When a record with
// the same identity tuple already exists, it is returned alongside
// common.ErrDuplicateParticipant and nothing is inserted.
func (s *ParticipantService) Add(ctx context.Context, firstName, lastName, team string, engineCapacity int) (*model.Participant, error) {
	existing, err := s.repo.FindByIdentity(ctx, firstName, lastName, team, engineCapacity)
	if err == nil {
		return existing, common.ErrDuplicateParticipant
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("looking up participant: %w", err)
	}

	p := model.Participant{
		ID:             uuid.New(),
		FirstName:      firstName,
		LastName:       lastName,
		Team:           team,
		EngineCapacity: engineCapacity,
	}

	if err := s.repo.Save(ctx, p); err != nil {
		// Lost a race against a concurrent identical insert.
		if errors.Is(err, common.ErrDuplicateParticipant) {
			return nil, common.ErrDuplicateParticipant
		}
		return nil, fmt.Errorf("saving participant: %w", err)
	}

	s.logger.Info(ctx, "participant added", "id", p.ID, "team", team)
	return &p, nil
}

// FindByTeam returns the team's participants; an unknown team yields an
// empty list, not an error.
func (s *ParticipantService) FindByTeam(ctx context.Context, team string) ([]model.Participant, error) {
	found, err := s.repo.FindByTeam(ctx, team)
	if err != nil {
		return nil, fmt.Errorf("finding participants by team %q: %w", team, err)
	}
	return found, nil
}
