package procedure

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-ClinicService/pkg/ptr"
)

func TestRepository_CRUD(t *testing.T) {
	repo := NewRepository(storagetest.NewDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Procedure{
		Name:            "Clareamento",
		Description:     ptr.Ptr("Clareamento a laser"),
		Value:           800,
		DurationMinutes: 90,
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Clareamento", got.Name)
	assert.InDelta(t, 800.0, got.Value, 0.001)
	assert.Equal(t, 90, got.DurationMinutes)
	assert.Nil(t, got.Materials)

	got.DurationMinutes = 60
	got.Materials = ptr.Ptr("gel")
	updated, err := repo.Update(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, 60, updated.DurationMinutes)
	assert.Equal(t, "gel", ptr.Value(updated.Materials))

	_, err = repo.Create(ctx, &domain.Procedure{Name: "Avaliação", Value: 100, DurationMinutes: 30})
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Avaliação", list[0].Name)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrProcedureNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), ErrProcedureNotFound)

	_, err = repo.Update(ctx, &domain.Procedure{ID: 999, Name: "X", Value: 1, DurationMinutes: 1})
	assert.ErrorIs(t, err, ErrProcedureNotFound)
}

func TestRepository_CheckConstraints(t *testing.T) {
	repo := NewRepository(storagetest.NewDB(t))

	_, err := repo.Create(context.Background(), &domain.Procedure{Name: "Zero", Value: 10, DurationMinutes: 0})
	assert.ErrorIs(t, err, ErrExecQuery)
}
