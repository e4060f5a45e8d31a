package mock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garnizeh/rentals/pkg/models"
	"github.com/garnizeh/rentals/pkg/repository"
	"github.com/garnizeh/rentals/pkg/repository/mock"
)

func TestStore_UpdateFieldTypes(t *testing.T) {
	ctx := context.Background()
	m := mock.NewMocks()

	id, err := m.Users.Insert(ctx, &models.User{Username: "alice", Password: "x"})
	require.NoError(t, err)

	require.NoError(t, m.Users.UpdateField(ctx, id, repository.FieldIsLoggedIn, true))
	got, err := m.Users.GetOne(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.IsLoggedIn)

	err = m.Users.UpdateField(ctx, id, repository.FieldIsLoggedIn, "yes")
	assert.ErrorIs(t, err, repository.ErrWrite)
	assert.ErrorIs(t, err, repository.ErrTypeMismatch)

	err = m.Users.UpdateField(ctx, id, repository.FieldUsername, 5)
	assert.ErrorIs(t, err, repository.ErrTypeMismatch)

	err = m.Users.UpdateField(ctx, id, "nope", 5)
	assert.ErrorIs(t, err, repository.ErrUnknownColumn)

	got, err = m.Users.GetOne(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.True(t, got.IsLoggedIn)
}
