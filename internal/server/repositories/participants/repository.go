// Package participants persists contest participants.
package participants

import (
	"context"

	"github.com/culbec/motocontest/internal/model"
)

type Repository interface {
	// Save inserts a participant. The (first name, last name, team,
	// engine capacity) tuple is unique; inserting a duplicate returns
	// common.ErrDuplicateParticipant and leaves the store unchanged.
	Save(ctx context.Context, p model.Participant) error

	// FindByIdentity returns the participant matching the identity tuple,
	// or common.ErrNotFound.
	FindByIdentity(ctx context.Context, firstName, lastName, team string, engineCapacity int) (*model.Participant, error)

	// FindByTeam returns every participant registered for the team.
	FindByTeam(ctx context.Context, team string) ([]model.Participant, error)
}
