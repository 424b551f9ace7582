package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/culbec/motocontest/internal/common"
	"github.com/culbec/motocontest/internal/dbx"
	"github.com/culbec/motocontest/internal/model"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	query :=
		`INSERT INTO users (first_name, last_name, username, password)
		 VALUES ($1, $2, $3, $4)
		 RETURNING uid
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.FirstName, user.LastName, user.Username, user.PasswordHash).Scan(&user.ID)

	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query :=
		`SELECT uid, first_name, last_name, username, password FROM users
		 WHERE username = $1
		 `

	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, username).
		Scan(&user.ID, &user.FirstName, &user.LastName, &user.Username, &user.PasswordHash)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return user, nil
}
