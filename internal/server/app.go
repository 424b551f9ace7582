package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/culbec/motocontest/internal/cryptox"
	"github.com/culbec/motocontest/internal/logging"
	"github.com/culbec/motocontest/internal/model"
	"github.com/culbec/motocontest/internal/server/config"
	"github.com/culbec/motocontest/internal/server/migrations"
	"github.com/culbec/motocontest/internal/server/repositories/participants"
	"github.com/culbec/motocontest/internal/server/repositories/races"
	"github.com/culbec/motocontest/internal/server/repositories/users"
	"github.com/culbec/motocontest/internal/server/service"
)

// App assembles the repositories, services, and TCP endpoint of the
// contest server from a Config, and runs them until the process receives
// a termination signal.
type App struct {
	config  *config.Config
	logger  logging.Logger
	contest *service.Contest
	db      *sql.DB
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewDefault()

	app := &App{config: cfg, logger: logger}

	var (
		userRepo        users.Repository
		participantRepo participants.Repository
		raceRepo        races.Repository
	)

	if cfg.InMemory {
		memUsers := users.NewMemoryRepository()
		memParticipants := participants.NewMemoryRepository()

		if err := seedDevUser(memUsers); err != nil {
			return nil, fmt.Errorf("seeding development user: %w", err)
		}

		userRepo = memUsers
		participantRepo = memParticipants
		raceRepo = races.NewMemoryRepository([]int{125, 250, 500, 1000}, memParticipants)
	} else {
		db, err := sql.Open("pgx", cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db open error: %w", err)
		}

		goose.SetBaseFS(migrations.Migrations)
		if err := goose.UpContext(context.Background(), db, "."); err != nil {
			return nil, fmt.Errorf("migration error: %w", err)
		}

		app.db = db
		userRepo = users.NewPostgresRepository(db)
		participantRepo = participants.NewPostgresRepository(db)
		raceRepo = races.NewPostgresRepository(db)
	}

	app.contest = service.NewContest(
		service.NewUserService(userRepo, logger),
		service.NewParticipantService(participantRepo, logger),
		service.NewRaceService(raceRepo, logger),
		logger,
	)

	return app, nil
}

// seedDevUser creates the account used for local in-memory runs. The hash
// is generated at startup so no credentials are baked into the binary.
func seedDevUser(repo users.Repository) error {
	hash, err := cryptox.HashPassword("1234")
	if err != nil {
		return err
	}

	_, err = repo.Create(context.Background(), &model.User{
		FirstName:    "Test",
		LastName:     "User",
		Username:     "test1",
		PasswordHash: hash,
	})
	return err
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run starts the TCP endpoint and blocks until the context is cancelled
// or a termination signal arrives, then shuts everything down in order.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app", "addr", app.config.Addr(), "in_memory", app.config.InMemory)

	app.initSignalHandler(cancelFunc)

	server := NewServer(app.contest, app.logger)
	if err := server.Start(ctx, app.config.Addr()); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}

	<-ctx.Done()

	app.logger.Info(ctx, "shutting down")
	server.Stop(context.Background())

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Warn(ctx, "closing database", "error", err.Error())
		}
	}

	return nil
}
