package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/internal/infra/storage/storagetest"
)

func TestRepository(t *testing.T) {
	repo := NewRepository(storagetest.NewDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.User{
		Name:         "Dra. Helena",
		Email:        " Helena@Clinic.com ",
		PasswordHash: "$2a$10$hash",
		Role:         domain.RoleDoctor,
	})
	require.NoError(t, err)
	assert.Equal(t, "helena@clinic.com", created.Email)

	got, err := repo.GetByEmail(ctx, "HELENA@clinic.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, domain.RoleDoctor, got.Role)
	assert.Equal(t, "$2a$10$hash", got.PasswordHash)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dra. Helena", byID.Name)

	_, err = repo.Create(ctx, &domain.User{Name: "Outra", Email: "helena@clinic.com", PasswordHash: "x", Role: domain.RoleFinance})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = repo.GetByEmail(ctx, "nobody@clinic.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
