package repository

import (
	"context"

	"github.com/garnizeh/rentals/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

// Table enumerates the tables a store may be bound to. Table names never
// come from caller input.
type Table string

const (
	TableProperties Table = "properties"
	TableUsers      Table = "users"
)

// Valid reports whether t is one of the known tables.
func (t Table) Valid() bool {
	switch t {
	case TableProperties, TableUsers:
		return true
	}
	return false
}

// Column names used by callers for field lookups and single-field patches.
const (
	FieldID           = "id"
	FieldPropertyType = "property_type"
	FieldReporterName = "reporter_name"
	FieldUsername     = "username"
	FieldIsLoggedIn   = "is_logged_in"
)

// Store is the CRUD contract of one single-table entity store.
//
// GetOne returns nil, nil when no row has the id. Delete of a missing id is
// not an error. Every operation except EnsureSchema requires EnsureSchema to
// have run first.
type Store[T any] interface {
	EnsureSchema(ctx context.Context) error
	Insert(ctx context.Context, rec *T) (int64, error)
	GetAll(ctx context.Context) ([]T, error)
	GetOne(ctx context.Context, id int64) (*T, error)
	GetByField(ctx context.Context, field string, value any) ([]T, error)
	Update(ctx context.Context, id int64, rec *T) error
	UpdateField(ctx context.Context, id int64, field string, value any) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
	DropTable(ctx context.Context) error
}

type PropertyRepo interface {
	Store[models.Property]
}

type UserRepo interface {
	Store[models.User]
}
