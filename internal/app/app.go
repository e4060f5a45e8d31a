// Package app wires the database, stores and services from a config.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	dbfs "github.com/garnizeh/rentals/db"
	"github.com/garnizeh/rentals/internal/config"
	"github.com/garnizeh/rentals/internal/db"
	"github.com/garnizeh/rentals/internal/repository/sqlite"
	"github.com/garnizeh/rentals/internal/seed"
	"github.com/garnizeh/rentals/internal/service"
)

type App struct {
	DB         *db.DB
	Repo       *sqlite.SQLiteRepo
	Properties *service.PropertyService
	Auth       *service.AuthService
	Logger     *slog.Logger
}

// Open opens the configured database, applies pending migrations when
// enabled and makes every store operational.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	conn, err := db.New(ctx, cfg.Database.Path, logger,
		db.WithDriver(cfg.Database.Driver),
		db.WithQueueSize(cfg.Database.QueueSize),
	)
	if err != nil {
		return nil, err
	}

	a, err := build(ctx, cfg, conn, logger)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return a, nil
}

func build(ctx context.Context, cfg *config.Config, conn *db.DB, logger *slog.Logger) (*App, error) {
	if cfg.Database.MigrateOnStart {
		if err := db.Migrate(ctx, conn, dbfs.Migrations); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	repo, err := sqlite.New(conn, logger)
	if err != nil {
		return nil, err
	}
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	return &App{
		DB:         conn,
		Repo:       repo,
		Properties: service.NewPropertyService(repo.Properties, logger),
		Auth: service.NewAuthService(repo.Users, repo.Properties, service.AuthOptions{
			BcryptCost:    cfg.Auth.BcryptCost,
			PurgeOnLogout: cfg.Auth.PurgeOnLogout,
		}, logger),
		Logger: logger,
	}, nil
}

// Seeder returns an importer that adds listings through the property
// service.
func (a *App) Seeder() (*seed.Importer, error) {
	return seed.NewImporter(a.Properties, a.Logger)
}

func (a *App) Close() error {
	return a.DB.Close()
}
