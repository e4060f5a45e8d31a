package repository_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/garnizeh/rentals/pkg/repository"
	"github.com/stretchr/testify/assert"
)

func TestStoreErrorMatchesKindAndCause(t *testing.T) {
	err := fmt.Errorf("edit listing: %w", &repository.StoreError{
		Op:    "update",
		Table: repository.TableProperties,
		Kind:  repository.ErrWrite,
		Err:   repository.ErrNotFound,
	})

	assert.ErrorIs(t, err, repository.ErrWrite)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NotErrorIs(t, err, repository.ErrRead)
	assert.Equal(t, "edit listing: update properties: write error: no row matches id", err.Error())

	var se *repository.StoreError
	assert.True(t, errors.As(err, &se))
	assert.Equal(t, "update", se.Op)
}

func TestStoreErrorWithoutCause(t *testing.T) {
	err := &repository.StoreError{Op: "get all", Table: repository.TableUsers, Kind: repository.ErrRead}
	assert.Equal(t, "get all users: read error", err.Error())
	assert.ErrorIs(t, err, repository.ErrRead)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, "schema", repository.KindOf(&repository.StoreError{Kind: repository.ErrSchema}))
	assert.Equal(t, "write", repository.KindOf(&repository.StoreError{Kind: repository.ErrWrite}))
	assert.Equal(t, "read", repository.KindOf(&repository.StoreError{Kind: repository.ErrRead}))
	assert.Equal(t, "", repository.KindOf(errors.New("boom")))
	assert.Equal(t, "", repository.KindOf(nil))
}

func TestTableValid(t *testing.T) {
	assert.True(t, repository.TableProperties.Valid())
	assert.True(t, repository.TableUsers.Valid())
	assert.False(t, repository.Table("properties; DROP TABLE users").Valid())
	assert.False(t, repository.Table("").Valid())
}
