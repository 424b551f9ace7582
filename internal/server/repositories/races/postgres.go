package races

import (
	"context"
	"fmt"

	"github.com/culbec/motocontest/internal/dbx"
	"github.com/culbec/motocontest/internal/model"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindAll(ctx context.Context) ([]model.Race, error) {
	query :=
		`SELECT r.rid, r.engine_capacity, COUNT(p.pid) FROM races r
		 LEFT JOIN participants p ON p.engine_capacity = r.engine_capacity
		 GROUP BY r.rid, r.engine_capacity
		 ORDER BY r.engine_capacity
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	races := make([]model.Race, 0)
	for rows.Next() {
		var race model.Race
		if err := rows.Scan(&race.ID, &race.EngineCapacity, &race.NoParticipants); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		races = append(races, race)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return races, nil
}

func (r *PostgresRepository) FindAllEngineCapacities(ctx context.Context) ([]int, error) {
	query :=
		`SELECT engine_capacity FROM races
		 ORDER BY engine_capacity
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	capacities := make([]int, 0)
	for rows.Next() {
		var capacity int
		if err := rows.Scan(&capacity); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		capacities = append(capacities, capacity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return capacities, nil
}
