package participants

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/culbec/motocontest/internal/common"
	"github.com/culbec/motocontest/internal/dbx"
	"github.com/culbec/motocontest/internal/model"
)

// Postgres error code for a unique constraint violation.
const uniqueViolationCode = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Save(ctx context.Context, p model.Participant) error {
	query :=
		`INSERT INTO participants (pid, first_name, last_name, team, engine_capacity)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.FirstName, p.LastName, p.Team, p.EngineCapacity)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return common.ErrDuplicateParticipant
		}
		return fmt.Errorf("error performing sql request: %w", err)
	}

	return nil
}

func (r *PostgresRepository) FindByIdentity(ctx context.Context, firstName, lastName, team string, engineCapacity int) (*model.Participant, error) {
	query :=
		`SELECT pid, first_name, last_name, team, engine_capacity FROM participants
		 WHERE first_name = $1 AND last_name = $2 AND team = $3 AND engine_capacity = $4
		 `

	p := &model.Participant{}
	err := r.db.QueryRowContext(ctx, query, firstName, lastName, team, engineCapacity).
		Scan(&p.ID, &p.FirstName, &p.LastName, &p.Team, &p.EngineCapacity)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) FindByTeam(ctx context.Context, team string) ([]model.Participant, error) {
	query :=
		`SELECT pid, first_name, last_name, team, engine_capacity FROM participants
		 WHERE team = $1
		 ORDER BY last_name, first_name
		 `

	rows, err := r.db.QueryContext(ctx, query, team)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	participants := make([]model.Participant, 0)
	for rows.Next() {
		var p model.Participant
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Team, &p.EngineCapacity); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return participants, nil
}
