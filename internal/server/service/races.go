package service

import (
	"context"
	"fmt"

	"github.com/culbec/motocontest/internal/logging"
	"github.com/culbec/motocontest/internal/model"
	"github.com/culbec/motocontest/internal/server/repositories/races"
)

// RaceService reads race classes and their derived participant counts.
type RaceService struct {
	repo   races.Repository
	logger logging.Logger
}

func NewRaceService(repo races.Repository, logger logging.Logger) *RaceService {
	return &RaceService{
		repo:   repo,
		logger: logger.With("module", "race_service"),
	}
}

func (s *RaceService) FindAll(ctx context.Context) ([]model.Race, error) {
	found, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("finding races: %w", err)
	}
	return found, nil
}

func (s *RaceService) FindAllEngineCapacities(ctx context.Context) ([]int, error) {
	found, err := s.repo.FindAllEngineCapacities(ctx)
	if err != nil {
		return nil, fmt.Errorf("finding race engine capacities: %w", err)
	}
	return found, nil
}
