package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"

	"taskapi/internal/auth"
	"taskapi/internal/domain/errors"
	"taskapi/internal/domain/models"
	"taskapi/internal/logger"
	"taskapi/internal/server"
	db "taskapi/repository/db"
	inmemory "taskapi/repository/inmemory"
)

const shutdownTimeout = 30 * time.Second

type apiServer interface {
	Start() error
	Shutdown(ctx context.Context) error
}

func main() {
	cfg, err := server.ReadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "read config: %v\n", err)
		os.Exit(2)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("tasks service stopped with error")
		stop()
		os.Exit(1)
	}
	log.Info().Msg("tasks service stopped")
}

func run(ctx context.Context, cfg *server.Config, log zerolog.Logger) error {
	log.Info().Str("env", cfg.Env).Msg("starting tasks service")

	repo, closeRepo, err := InitializeRepository(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeRepo()

	if err := SeedUser(ctx, repo, cfg.SeedEmail, cfg.SeedPassword, log); err != nil {
		return fmt.Errorf("seed user: %w", err)
	}

	api := server.NewTaskAPI(repo, cfg, log)
	if api == nil {
		return errors.ErrInternalServer
	}
	return serve(ctx, api, log, shutdownTimeout)
}

// InitializeRepository connects to PostgreSQL and applies the migrations.
// When the database is unreachable it falls back to the in-memory store.
// The returned func releases the repository.
func InitializeRepository(ctx context.Context, cfg *server.Config, log zerolog.Logger) (server.Repository, func(), error) {
	dbStorage, err := db.NewStorage(ctx, cfg.DBStr, cfg.QueryTimeout, log)
	if err != nil {
		log.Warn().Err(err).Msg("database unavailable, using in-memory storage")
		return inmemory.NewStorage(), func() {}, nil
	}

	if err := RunMigrations(cfg); err != nil {
		dbStorage.Close()
		return nil, nil, err
	}
	log.Info().Str("path", cfg.MigratePath).Msg("migrations applied")
	return dbStorage, dbStorage.Close, nil
}

func RunMigrations(cfg *server.Config) error {
	if err := db.Migration(cfg.DBStr, cfg.MigratePath); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

type seedStore interface {
	auth.UserCreator
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// SeedUser makes sure the configured user exists. It is a no-op unless both
// email and password are set.
func SeedUser(ctx context.Context, users seedStore, email, password string, log zerolog.Logger) error {
	if email == "" || password == "" {
		return nil
	}

	_, err := users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil
	case !stderrors.Is(err, errors.ErrUserNotFound):
		return err
	}

	user, err := auth.RegisterUser(ctx, users, "", email, password)
	if err != nil {
		if stderrors.Is(err, errors.ErrUserAlreadyExists) {
			return nil
		}
		return err
	}
	log.Info().Int64("user_id", user.ID).Str("email", user.Email).Msg("seed user created")
	return nil
}

// serve runs api until ctx is cancelled, then drains it within drain.
func serve(ctx context.Context, api apiServer, log zerolog.Logger, drain time.Duration) error {
	serverErr := make(chan error, 1)
	go func() {
		if err := api.Start(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err, ok := <-serverErr:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received, draining connections")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), drain)
	defer cancel()
	if err := api.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info().Msg("graceful shutdown completed")
	return nil
}
