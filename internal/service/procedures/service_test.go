package procedures

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/internal/infra/storage"
	appointmentRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/appointment"
	procedureRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/procedure"
	"github.com/m04kA/SMC-ClinicService/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-ClinicService/internal/service/procedures/models"
	"github.com/m04kA/SMC-ClinicService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicService/pkg/ptr"
	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func setup(t *testing.T) (*Service, *dbmetrics.DB) {
	t.Helper()

	db := storagetest.NewDB(t)
	appointments := appointmentRepo.NewRepository(db, storage.SQLite)
	return NewService(procedureRepo.NewRepository(db), appointments, nopLogger{}), db
}

func TestService_CRUD(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &models.ProcedureRequest{
		Name:            " Clareamento ",
		Description:     ptr.Ptr("clareamento a laser"),
		Value:           450,
		DurationMinutes: 90,
	})
	require.NoError(t, err)
	assert.Equal(t, "Clareamento", created.Name)

	_, err = svc.Create(ctx, &models.ProcedureRequest{Name: "Avaliação", Value: 80, DurationMinutes: 30})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list.Procedures, 2)
	assert.Equal(t, "Avaliação", list.Procedures[0].Name)

	updated, err := svc.Update(ctx, created.ID, &models.ProcedureRequest{Name: "Clareamento", Value: 500, DurationMinutes: 120})
	require.NoError(t, err)
	assert.Equal(t, 120, updated.DurationMinutes)
	assert.Nil(t, updated.Description)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.InDelta(t, 500.0, got.Value, 0.001)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrProcedureNotFound)
}

func TestService_Validation(t *testing.T) {
	svc, _ := setup(t)

	invalid := []models.ProcedureRequest{
		{Name: "", Value: 100, DurationMinutes: 30},
		{Name: "Canal", Value: 0, DurationMinutes: 30},
		{Name: "Canal", Value: 100, DurationMinutes: 0},
		{Name: "Canal", Value: 100, DurationMinutes: 601},
	}
	for _, req := range invalid {
		_, err := svc.Create(context.Background(), &req)
		assert.ErrorIs(t, err, ErrInvalidInput, req)
	}

	_, err := svc.Update(context.Background(), 404, &models.ProcedureRequest{Name: "Canal", Value: 100, DurationMinutes: 60})
	assert.ErrorIs(t, err, ErrProcedureNotFound)
}

func TestService_DeleteInUse(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, &models.ProcedureRequest{Name: "Limpeza", Value: 150, DurationMinutes: 60})
	require.NoError(t, err)

	storagetest.Exec(t, db, `INSERT INTO patients (name) VALUES ($1)`, "Maria Silva")
	appointments := appointmentRepo.NewRepository(db, storage.SQLite)
	_, err = appointments.Create(ctx, &domain.Appointment{
		PatientID:       1,
		ProcedureID:     p.ID,
		Day:             storagetest.Day(2025, time.March, 14),
		Start:           types.MustTimeOfDay(10, 0),
		DurationMinutes: 60,
		Status:          domain.StatusDone,
		CreatedAt:       time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, p.ID), ErrInUse)

	_, err = svc.GetByID(ctx, p.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, 404), ErrProcedureNotFound)
}
