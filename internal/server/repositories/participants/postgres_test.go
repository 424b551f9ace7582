package participants

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/culbec/motocontest/internal/common"
	"github.com/culbec/motocontest/internal/model"
)

func TestPostgresRepository_Save(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	p := model.Participant{
		ID:             uuid.New(),
		FirstName:      "A",
		LastName:       "B",
		Team:           "TeamX",
		EngineCapacity: 1000,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO participants")).
		WithArgs(p.ID, "A", "B", "TeamX", 1000).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgresRepository(db)
	require.NoError(t, repo.Save(context.Background(), p))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Save_UniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO participants")).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	repo := NewPostgresRepository(db)
	err = repo.Save(context.Background(), model.Participant{ID: uuid.New()})
	assert.ErrorIs(t, err, common.ErrDuplicateParticipant)
}

func TestPostgresRepository_FindByTeam(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id1, id2 := uuid.New(), uuid.New()
	rows := sqlmock.NewRows([]string{"pid", "first_name", "last_name", "team", "engine_capacity"}).
		AddRow(id1, "A", "B", "TeamX", 1000).
		AddRow(id2, "C", "D", "TeamX", 250)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT pid, first_name, last_name, team, engine_capacity FROM participants")).
		WithArgs("TeamX").
		WillReturnRows(rows)

	repo := NewPostgresRepository(db)
	got, err := repo.FindByTeam(context.Background(), "TeamX")
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, id1, got[0].ID)
	assert.Equal(t, "TeamX", got[1].Team)
}

func TestPostgresRepository_FindByTeam_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT pid, first_name, last_name, team, engine_capacity FROM participants")).
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows([]string{"pid", "first_name", "last_name", "team", "engine_capacity"}))

	repo := NewPostgresRepository(db)
	got, err := repo.FindByTeam(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestMemoryRepository_DuplicateIdentity(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	p1 := model.Participant{ID: uuid.New(), FirstName: "A", LastName: "B", Team: "TeamX", EngineCapacity: 1000}
	p2 := model.Participant{ID: uuid.New(), FirstName: "A", LastName: "B", Team: "TeamX", EngineCapacity: 1000}

	require.NoError(t, repo.Save(ctx, p1))
	assert.ErrorIs(t, repo.Save(ctx, p2), common.ErrDuplicateParticipant)

	// The store keeps exactly one record.
	got, err := repo.FindByTeam(ctx, "TeamX")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, p1.ID, got[0].ID)
}
