package patient

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-ClinicService/pkg/ptr"
)

func TestRepository_CRUD(t *testing.T) {
	repo := NewRepository(storagetest.NewDB(t))
	ctx := context.Background()

	birth := storagetest.Day(1990, time.May, 2)
	created, err := repo.Create(ctx, &domain.Patient{
		Name:      "Maria Silva",
		Email:     ptr.Ptr("maria@example.com"),
		CPF:       ptr.Ptr("123.456.789-00"),
		BirthDate: &birth,
		City:      ptr.Ptr("Recife"),
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maria Silva", got.Name)
	assert.Equal(t, "maria@example.com", ptr.Value(got.Email))
	require.NotNil(t, got.BirthDate)
	assert.Equal(t, birth, *got.BirthDate)
	assert.Nil(t, got.Phone)

	got.Phone = ptr.Ptr("+55 81 99999-0000")
	got.Name = "Maria S. Souza"
	updated, err := repo.Update(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, "Maria S. Souza", updated.Name)
	assert.Equal(t, "+55 81 99999-0000", ptr.Value(updated.Phone))

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrPatientNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), ErrPatientNotFound)
}

func TestRepository_Duplicates(t *testing.T) {
	repo := NewRepository(storagetest.NewDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.Patient{Name: "Ana", CPF: ptr.Ptr("111")})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &domain.Patient{Name: "Bia", CPF: ptr.Ptr("111")})
	assert.ErrorIs(t, err, ErrDuplicate)

	bia, err := repo.Create(ctx, &domain.Patient{Name: "Bia", CPF: ptr.Ptr("222")})
	require.NoError(t, err)
	bia.CPF = ptr.Ptr("111")
	_, err = repo.Update(ctx, bia)
	assert.ErrorIs(t, err, ErrDuplicate)

	// несколько пациентов без CPF допустимы
	_, err = repo.Create(ctx, &domain.Patient{Name: "Caio"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.Patient{Name: "Duda"})
	require.NoError(t, err)
}

func TestRepository_List(t *testing.T) {
	repo := NewRepository(storagetest.NewDB(t))
	ctx := context.Background()

	for _, name := range []string{"Carlos", "ana paula", "Bruno", "Ana Maria"} {
		_, err := repo.Create(ctx, &domain.Patient{Name: name})
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "Ana Maria", all[0].Name)

	found, err := repo.List(ctx, "ANA")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	_, err = repo.Update(ctx, &domain.Patient{ID: 999, Name: "X"})
	assert.ErrorIs(t, err, ErrPatientNotFound)
}
