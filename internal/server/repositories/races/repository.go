// Package races reads contest race classes. Races are seeded externally;
// participant counts are derived on read.
package races

import (
	"context"

	"github.com/culbec/motocontest/internal/model"
)

type Repository interface {
	// FindAll returns every race with its participant count recomputed
	// from the participants in the matching engine-capacity class.
	FindAll(ctx context.Context) ([]model.Race, error)

	// FindAllEngineCapacities returns the engine capacity of every race.
	FindAllEngineCapacities(ctx context.Context) ([]int, error)
}
