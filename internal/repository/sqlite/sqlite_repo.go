package sqlite

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/garnizeh/rentals/internal/db"
	"github.com/garnizeh/rentals/pkg/models"
	"github.com/garnizeh/rentals/pkg/repository"
)

// SQLiteRepo groups the entity stores that share one DB.
type SQLiteRepo struct {
	Properties *Store[models.Property]
	Users      *Store[models.User]
}

// Ensure the stores implement the public interfaces.
var _ repository.PropertyRepo = (*Store[models.Property])(nil)
var _ repository.UserRepo = (*Store[models.User])(nil)

func New(conn *db.DB, logger *slog.Logger) (*SQLiteRepo, error) {
	props, err := NewPropertyStore(conn, logger)
	if err != nil {
		return nil, err
	}
	users, err := NewUserStore(conn, logger)
	if err != nil {
		return nil, err
	}
	return &SQLiteRepo{Properties: props, Users: users}, nil
}

// EnsureSchema makes every store operational.
func (r *SQLiteRepo) EnsureSchema(ctx context.Context) error {
	if err := r.Properties.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("properties: %w", err)
	}
	if err := r.Users.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("users: %w", err)
	}
	return nil
}
