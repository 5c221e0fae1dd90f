package payments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/internal/infra/storage"
	appointmentRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/appointment"
	paymentRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/payment"
	"github.com/m04kA/SMC-ClinicService/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-ClinicService/internal/service/payments/models"
	"github.com/m04kA/SMC-ClinicService/pkg/ptr"
	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var now = time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)

// setup создает сервис и n записей на прием
func setup(t *testing.T, n int) *Service {
	t.Helper()

	db := storagetest.NewDB(t)
	storagetest.Exec(t, db, `INSERT INTO patients (name) VALUES ($1)`, "Maria Silva")
	storagetest.Exec(t, db, `INSERT INTO procedures (name, value, duration_minutes) VALUES ($1, $2, $3)`, "Limpeza", 150.0, 30)

	appointments := appointmentRepo.NewRepository(db, storage.SQLite)
	for i := 0; i < n; i++ {
		_, err := appointments.Create(context.Background(), &domain.Appointment{
			PatientID:       1,
			ProcedureID:     1,
			Day:             storagetest.Day(2025, time.March, 14),
			Start:           types.MustTimeOfDay(8+i, 0),
			DurationMinutes: 30,
			Status:          domain.StatusDone,
			CreatedAt:       now,
		}, nil)
		require.NoError(t, err)
	}

	svc := NewService(paymentRepo.NewRepository(db), appointments, nopLogger{})
	svc.now = func() time.Time { return now }
	return svc
}

func TestService_CreateAndGet(t *testing.T) {
	svc := setup(t, 1)
	ctx := context.Background()

	created, err := svc.Create(ctx, &models.CreatePaymentRequest{AppointmentID: 1, Amount: 150, Method: "pix"})
	require.NoError(t, err)
	assert.Equal(t, "pending", created.Status)
	assert.Zero(t, created.Discount)
	assert.InDelta(t, 150.0, created.Net, 0.001)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maria Silva", got.PatientName)
	assert.Equal(t, "Limpeza", got.ProcedureName)

	_, err = svc.Create(ctx, &models.CreatePaymentRequest{AppointmentID: 1, Amount: 100, Method: "cash"})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = svc.Create(ctx, &models.CreatePaymentRequest{AppointmentID: 99, Amount: 100, Method: "cash"})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	_, err = svc.GetByID(ctx, 404)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestService_CreateValidation(t *testing.T) {
	svc := setup(t, 1)

	invalid := []models.CreatePaymentRequest{
		{AppointmentID: 0, Amount: 100, Method: "pix"},
		{AppointmentID: 1, Amount: 0, Method: "pix"},
		{AppointmentID: 1, Amount: 100, Discount: ptr.Ptr(-1.0), Method: "pix"},
		{AppointmentID: 1, Amount: 100, Discount: ptr.Ptr(101.0), Method: "pix"},
		{AppointmentID: 1, Amount: 100, Method: "crypto"},
	}
	for _, req := range invalid {
		_, err := svc.Create(context.Background(), &req)
		assert.ErrorIs(t, err, ErrInvalidInput, req)
	}
}

func TestService_StatusTransitions(t *testing.T) {
	svc := setup(t, 2)
	ctx := context.Background()

	a, err := svc.Create(ctx, &models.CreatePaymentRequest{AppointmentID: 1, Amount: 150, Method: "card"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, &models.CreatePaymentRequest{AppointmentID: 2, Amount: 150, Method: "card"})
	require.NoError(t, err)

	paid, err := svc.MarkPaid(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.Status)
	require.NotNil(t, paid.PaidAt)
	assert.True(t, paid.PaidAt.Equal(now))

	_, err = svc.MarkPaid(ctx, a.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	cancelled, err := svc.Cancel(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)
	assert.Nil(t, cancelled.PaidAt)

	_, err = svc.MarkPaid(ctx, b.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = svc.Cancel(ctx, b.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.Cancel(ctx, 404)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestService_ListAndSummary(t *testing.T) {
	svc := setup(t, 3)
	ctx := context.Background()

	// первый платеж создан два месяца назад и в месячную выборку не попадает
	svc.now = func() time.Time { return now.AddDate(0, -2, 0) }
	old, err := svc.Create(ctx, &models.CreatePaymentRequest{AppointmentID: 1, Amount: 300, Method: "cash"})
	require.NoError(t, err)
	svc.now = func() time.Time { return now }

	paid, err := svc.Create(ctx, &models.CreatePaymentRequest{AppointmentID: 2, Amount: 200, Discount: ptr.Ptr(20.0), Method: "pix"})
	require.NoError(t, err)
	_, err = svc.MarkPaid(ctx, paid.ID)
	require.NoError(t, err)
	_, err = svc.Create(ctx, &models.CreatePaymentRequest{AppointmentID: 3, Amount: 100, Method: "card"})
	require.NoError(t, err)

	month, err := svc.List(ctx, &models.ListPaymentsRequest{Period: models.PeriodMonth})
	require.NoError(t, err)
	require.Len(t, month.Payments, 2)
	assert.NotContains(t, []int64{month.Payments[0].ID, month.Payments[1].ID}, old.ID)

	all, err := svc.List(ctx, &models.ListPaymentsRequest{Status: "all"})
	require.NoError(t, err)
	assert.Len(t, all.Payments, 3)

	pending, err := svc.List(ctx, &models.ListPaymentsRequest{Period: models.PeriodYear, Status: "pending"})
	require.NoError(t, err)
	assert.Len(t, pending.Payments, 2)

	summary, err := svc.Summary(ctx, &models.ListPaymentsRequest{Period: models.PeriodToday})
	require.NoError(t, err)
	assert.Equal(t, "today", summary.Period)
	assert.Equal(t, 2, summary.Count)
	assert.InDelta(t, 180.0, summary.TotalReceived, 0.001)
	assert.InDelta(t, 100.0, summary.TotalPending, 0.001)
	assert.InDelta(t, 180.0, summary.AverageTicket, 0.001)
	assert.InDelta(t, 180.0, summary.ByMethod["pix"], 0.001)
	assert.Zero(t, summary.ByMethod["cash"])

	_, err = svc.List(ctx, &models.ListPaymentsRequest{Period: "decade"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Summary(ctx, &models.ListPaymentsRequest{Status: "refunded"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPeriod_Since(t *testing.T) {
	at := time.Date(2025, 3, 31, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		period models.Period
		want   time.Time
	}{
		{models.PeriodToday, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)},
		{models.PeriodWeek, time.Date(2025, 3, 24, 10, 30, 0, 0, time.UTC)},
		{models.PeriodMonth, at.AddDate(0, -1, 0)},
		{models.PeriodYear, time.Date(2024, 3, 31, 10, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			got, err := tt.period.Since(at)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.True(t, got.Equal(tt.want), got)
		})
	}

	got, err := models.PeriodAll.Since(at)
	require.NoError(t, err)
	assert.Nil(t, got)
}
