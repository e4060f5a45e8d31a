package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garnizeh/rentals/internal/service"
	"github.com/garnizeh/rentals/pkg/models"
	"github.com/garnizeh/rentals/pkg/repository"
	"github.com/garnizeh/rentals/pkg/repository/mock"
)

func listing(kind string) *models.Property {
	return &models.Property{
		PropertyType:     kind,
		Bedrooms:         3,
		DateTime:         "2024-05-10 14:00",
		MonthlyRentPrice: 1500,
		FurnitureTypes:   models.FurnitureSemiFurnished,
		ReporterName:     "Hoa",
	}
}

func TestPropertyService_Add(t *testing.T) {
	m := mock.NewMocks()
	svc := service.NewPropertyService(m.Properties, nil)
	ctx := context.Background()

	p := listing("Condo")
	id, err := svc.Add(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, id, p.ID)

	_, err = svc.Add(ctx, listing("Condo"))
	assert.ErrorIs(t, err, service.ErrDuplicate)
	assert.Equal(t, 1, m.Properties.Len())

	// type matching is exact
	_, err = svc.Add(ctx, listing("condo"))
	assert.NoError(t, err)

	bad := listing("Loft")
	bad.Bedrooms = 0
	bad.ReporterName = "Al"
	_, err = svc.Add(ctx, bad)
	assert.ErrorIs(t, err, models.ErrInvalid)
	assert.Contains(t, err.Error(), "bedrooms")
	assert.Contains(t, err.Error(), "reporterName")
}

func TestPropertyService_AddStoreFailure(t *testing.T) {
	m := mock.NewMocks()
	m.Properties.InsertErr = &repository.StoreError{Op: "insert", Table: repository.TableProperties, Kind: repository.ErrWrite, Err: errors.New("disk full")}
	svc := service.NewPropertyService(m.Properties, nil)

	_, err := svc.Add(context.Background(), listing("Condo"))
	assert.ErrorIs(t, err, repository.ErrWrite)
	assert.Equal(t, "write", repository.KindOf(err))
}

func TestPropertyService_GetUpdateDelete(t *testing.T) {
	m := mock.NewMocks()
	svc := service.NewPropertyService(m.Properties, nil)
	ctx := context.Background()

	_, err := svc.Get(ctx, 42)
	assert.ErrorIs(t, err, service.ErrNotFound)

	studio, err := svc.Add(ctx, listing("Studio"))
	require.NoError(t, err)
	condo, err := svc.Add(ctx, listing("Condo"))
	require.NoError(t, err)

	// keeping its own type is not a duplicate
	same := listing("Studio")
	same.Bedrooms = 1
	require.NoError(t, svc.Update(ctx, studio, same))
	got, err := svc.Get(ctx, studio)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Bedrooms)

	err = svc.Update(ctx, studio, listing("Condo"))
	assert.ErrorIs(t, err, service.ErrDuplicate)

	assert.ErrorIs(t, svc.Update(ctx, 999, listing("Villa")), service.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, condo))
	assert.ErrorIs(t, svc.Delete(ctx, condo), service.ErrNotFound)
}

func TestPropertyService_Search(t *testing.T) {
	m := mock.NewMocks()
	svc := service.NewPropertyService(m.Properties, nil)
	ctx := context.Background()

	for _, kind := range []string{"Studio", "Big Studio", "Condo"} {
		_, err := svc.Add(ctx, listing(kind))
		require.NoError(t, err)
	}

	got, err := svc.Search(ctx, "  STUD ")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Studio", got[0].PropertyType)
	assert.Equal(t, "Big Studio", got[1].PropertyType)

	all, err := svc.Search(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := svc.Search(ctx, "villa")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPropertyService_Purge(t *testing.T) {
	m := mock.NewMocks()
	svc := service.NewPropertyService(m.Properties, nil)
	ctx := context.Background()

	_, err := svc.Add(ctx, listing("Studio"))
	require.NoError(t, err)
	require.NoError(t, svc.Purge(ctx))
	assert.Zero(t, m.Properties.Len())

	m.Properties.WriteErr = errors.New("locked")
	assert.Error(t, svc.Purge(ctx))
}
