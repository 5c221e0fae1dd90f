package check_availability

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/internal/infra/storage"
	appointmentRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/appointment"
	procedureRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/procedure"
	"github.com/m04kA/SMC-ClinicService/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-ClinicService/internal/scheduler"
	"github.com/m04kA/SMC-ClinicService/pkg/metrics"
	"github.com/m04kA/SMC-ClinicService/pkg/ptr"
	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var testDay = storagetest.Day(2025, time.March, 14)

func tod(s string) types.TimeOfDay {
	t, err := types.ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

type fixture struct {
	appointments *appointmentRepo.Repository
	metrics      *metrics.Metrics
	uc           *UseCase
}

// newFixture расписание дня: 14:00-15:00 (id=1) и отмененная запись 16:00-16:30
func newFixture(t *testing.T, window scheduler.Window) *fixture {
	t.Helper()

	db := storagetest.NewDB(t)
	storagetest.Exec(t, db, `INSERT INTO patients (name) VALUES ($1)`, "Carlos Lima")
	storagetest.Exec(t, db, `INSERT INTO procedures (name, value, duration_minutes) VALUES ($1, $2, $3)`, "Avaliação", 120.0, 45)

	f := &fixture{
		appointments: appointmentRepo.NewRepository(db, storage.SQLite),
		metrics:      metrics.New("clinic_test"),
	}
	f.uc = NewUseCase(f.appointments, procedureRepo.NewRepository(db), window, f.metrics, nopLogger{})

	ctx := context.Background()
	_, err := f.appointments.Create(ctx, &domain.Appointment{
		PatientID: 1, ProcedureID: 1, Day: testDay, Start: tod("14:00"), DurationMinutes: 60, Status: domain.StatusScheduled,
	}, []types.TimeOfDay{tod("14:00"), tod("14:30")})
	require.NoError(t, err)

	cancelled, err := f.appointments.Create(ctx, &domain.Appointment{
		PatientID: 1, ProcedureID: 1, Day: testDay, Start: tod("16:00"), DurationMinutes: 30, Status: domain.StatusScheduled,
	}, nil)
	require.NoError(t, err)
	require.NoError(t, f.appointments.UpdateStatus(ctx, cancelled.ID, domain.StatusScheduled, domain.StatusCancelled, time.Now()))

	return f
}

func TestExecute_Outcomes(t *testing.T) {
	f := newFixture(t, scheduler.DefaultWindow())

	tests := []struct {
		name          string
		req           *Request
		wantAvailable bool
		wantReason    string
		wantConflicts []types.TimeOfDay
	}{
		{
			name:          "free morning",
			req:           &Request{Date: testDay, Start: tod("09:00"), DurationMinutes: ptr.Ptr(90)},
			wantAvailable: true,
			wantConflicts: []types.TimeOfDay{},
		},
		{
			name:          "overlaps booked afternoon",
			req:           &Request{Date: testDay, Start: tod("13:30"), DurationMinutes: ptr.Ptr(90)},
			wantReason:    scheduler.ReasonSlotsBooked,
			wantConflicts: []types.TimeOfDay{tod("14:00"), tod("14:30")},
		},
		{
			name:          "cancelled appointment frees its time",
			req:           &Request{Date: testDay, Start: tod("16:00"), DurationMinutes: ptr.Ptr(30)},
			wantAvailable: true,
			wantConflicts: []types.TimeOfDay{},
		},
		{
			name:          "ends after closing",
			req:           &Request{Date: testDay, Start: tod("17:30"), ProcedureID: ptr.Ptr(int64(1))},
			wantReason:    scheduler.ReasonAfterClosing,
			wantConflicts: []types.TimeOfDay{},
		},
		{
			name:          "exclude own booking",
			req:           &Request{Date: testDay, Start: tod("14:30"), DurationMinutes: ptr.Ptr(60), ExcludeID: ptr.Ptr(int64(1))},
			wantAvailable: true,
			wantConflicts: []types.TimeOfDay{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := f.uc.Execute(context.Background(), tt.req)
			require.NoError(t, err)

			assert.Equal(t, tt.wantAvailable, resp.Available)
			assert.Equal(t, tt.wantReason, resp.Reason)
			assert.Equal(t, tt.wantConflicts, resp.ConflictingSlots)
		})
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(f.metrics.AvailabilityChecks.WithLabelValues("available")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AvailabilityChecks.WithLabelValues("slots_booked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AvailabilityChecks.WithLabelValues("after_closing")))
}

func TestExecute_ProcedureDurationAndSlots(t *testing.T) {
	f := newFixture(t, scheduler.DefaultWindow())

	resp, err := f.uc.Execute(context.Background(), &Request{Date: testDay, Start: tod("10:00"), ProcedureID: ptr.Ptr(int64(1))})
	require.NoError(t, err)

	// 45 минут занимают два слота целиком
	assert.Equal(t, 45, resp.DurationMinutes)
	assert.Equal(t, tod("10:45"), resp.End)
	assert.Equal(t, []types.TimeOfDay{tod("10:00"), tod("10:30")}, resp.RequiredSlots)
}

func TestExecute_OpeningPolicies(t *testing.T) {
	lenient := newFixture(t, scheduler.DefaultWindow())
	resp, err := lenient.uc.Execute(context.Background(), &Request{Date: testDay, Start: tod("07:00"), DurationMinutes: ptr.Ptr(60)})
	require.NoError(t, err)
	assert.True(t, resp.Available)

	window := scheduler.DefaultWindow()
	window.Opening = scheduler.OpeningEnforced
	enforced := newFixture(t, window)
	resp, err = enforced.uc.Execute(context.Background(), &Request{Date: testDay, Start: tod("07:00"), DurationMinutes: ptr.Ptr(60)})
	require.NoError(t, err)
	assert.False(t, resp.Available)
	assert.Equal(t, scheduler.ReasonBeforeOpening, resp.Reason)
	assert.Equal(t, 1.0, testutil.ToFloat64(enforced.metrics.AvailabilityChecks.WithLabelValues("before_opening")))
}

func TestExecute_Errors(t *testing.T) {
	f := newFixture(t, scheduler.DefaultWindow())

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{"missing date", &Request{Start: tod("10:00"), DurationMinutes: ptr.Ptr(30)}, ErrInvalidInput},
		{"no duration source", &Request{Date: testDay, Start: tod("10:00")}, ErrInvalidInput},
		{"start out of range", &Request{Date: testDay, Start: types.TimeOfDay(-5), DurationMinutes: ptr.Ptr(30)}, ErrInvalidInput},
		{"unknown procedure", &Request{Date: testDay, Start: tod("10:00"), ProcedureID: ptr.Ptr(int64(77))}, ErrProcedureNotFound},
		{"bad exclude", &Request{Date: testDay, Start: tod("10:00"), DurationMinutes: ptr.Ptr(30), ExcludeID: ptr.Ptr(int64(0))}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_PastMidnightIsAfterClosing(t *testing.T) {
	for _, window := range []scheduler.Window{
		scheduler.DefaultWindow(),
		{Open: tod("00:00"), Close: types.TimeOfDay(types.MinutesPerDay), SlotMinutes: 30},
	} {
		f := newFixture(t, window)

		resp, err := f.uc.Execute(context.Background(), &Request{Date: testDay, Start: tod("23:30"), DurationMinutes: ptr.Ptr(60)})
		require.NoError(t, err)

		assert.False(t, resp.Available)
		assert.Equal(t, scheduler.ReasonAfterClosing, resp.Reason)
		assert.Empty(t, resp.ConflictingSlots)
		assert.Empty(t, resp.RequiredSlots)
		assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AvailabilityChecks.WithLabelValues("after_closing")))
	}
}
