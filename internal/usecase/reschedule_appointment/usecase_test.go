package reschedule_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/internal/infra/lock"
	"github.com/m04kA/SMC-ClinicService/internal/infra/storage"
	appointmentRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-ClinicService/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-ClinicService/internal/scheduler"
	"github.com/m04kA/SMC-ClinicService/pkg/txmanager"
	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

type spyMetrics struct {
	conflicts []string
}

func (m *spyMetrics) ObserveConflict(stage string) { m.conflicts = append(m.conflicts, stage) }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var testDay = storagetest.Day(2025, time.March, 14)

type fixture struct {
	repo    *appointmentRepo.Repository
	metrics *spyMetrics
	uc      *UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := storagetest.NewDB(t)
	storagetest.Exec(t, db, `INSERT INTO patients (name) VALUES ($1)`, "Joana Prado")
	storagetest.Exec(t, db, `INSERT INTO procedures (name, value, duration_minutes) VALUES ($1, $2, $3)`, "Canal", 800.0, 60)

	f := &fixture{
		repo:    appointmentRepo.NewRepository(db, storage.SQLite),
		metrics: &spyMetrics{},
	}
	f.uc = NewUseCase(f.repo, lock.NewLocal(time.Second), txmanager.NewTransactionManager(db),
		scheduler.DefaultWindow(), f.metrics, nopLogger{})
	return f
}

// book создает запись длительностью 60 минут вместе со слотами
func (f *fixture) book(t *testing.T, day time.Time, start types.TimeOfDay, status domain.AppointmentStatus) *domain.Appointment {
	t.Helper()

	slots, err := scheduler.ExpandSlots(start, 60, 30)
	require.NoError(t, err)

	a, err := f.repo.Create(context.Background(), &domain.Appointment{
		PatientID:       1,
		ProcedureID:     1,
		Day:             day,
		Start:           start,
		DurationMinutes: 60,
		Status:          status,
	}, slots)
	require.NoError(t, err)
	return a
}

func TestExecute_ShiftOverlappingOwnSlots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.book(t, testDay, types.MustTimeOfDay(10, 0), domain.StatusScheduled)

	resp, err := f.uc.Execute(ctx, &Request{AppointmentID: a.ID, Date: testDay, Start: types.MustTimeOfDay(10, 30)})
	require.NoError(t, err)

	assert.Equal(t, types.MustTimeOfDay(10, 0), resp.PreviousStart)
	assert.Equal(t, types.MustTimeOfDay(11, 30), resp.End)
	assert.Equal(t, []types.TimeOfDay{types.MustTimeOfDay(10, 30), types.MustTimeOfDay(11, 0)}, resp.Slots)

	slots, err := f.repo.SlotsOf(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.Slots, slots)

	got, err := f.repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, types.MustTimeOfDay(10, 30), got.Start)
	assert.Equal(t, domain.StatusScheduled, got.Status)
}

func TestExecute_MoveToAnotherDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.book(t, testDay, types.MustTimeOfDay(9, 0), domain.StatusConfirmed)
	nextDay := testDay.AddDate(0, 0, 3)

	_, err := f.uc.Execute(ctx, &Request{AppointmentID: a.ID, Date: nextDay, Start: types.MustTimeOfDay(9, 0)})
	require.NoError(t, err)

	left, err := f.repo.ListActiveForDay(ctx, testDay, nil)
	require.NoError(t, err)
	assert.Empty(t, left)

	// освободившееся время снова доступно
	f.book(t, testDay, types.MustTimeOfDay(9, 0), domain.StatusScheduled)
}

func TestExecute_ConflictKeepsOriginal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.book(t, testDay, types.MustTimeOfDay(10, 0), domain.StatusScheduled)
	f.book(t, testDay, types.MustTimeOfDay(14, 0), domain.StatusScheduled)

	_, err := f.uc.Execute(ctx, &Request{AppointmentID: a.ID, Date: testDay, Start: types.MustTimeOfDay(13, 30)})

	var conflict *scheduler.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []types.TimeOfDay{types.MustTimeOfDay(14, 0)}, conflict.Result.ConflictingSlots)
	assert.Equal(t, []string{"check"}, f.metrics.conflicts)

	slots, err := f.repo.SlotsOf(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []types.TimeOfDay{types.MustTimeOfDay(10, 0), types.MustTimeOfDay(10, 30)}, slots)
}

func TestExecute_AfterClosing(t *testing.T) {
	f := newFixture(t)
	a := f.book(t, testDay, types.MustTimeOfDay(10, 0), domain.StatusScheduled)

	_, err := f.uc.Execute(context.Background(), &Request{AppointmentID: a.ID, Date: testDay, Start: types.MustTimeOfDay(17, 30)})

	var conflict *scheduler.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, scheduler.ReasonAfterClosing, conflict.Result.Reason)
}

func TestExecute_PastMidnightIsAfterClosing(t *testing.T) {
	f := newFixture(t)
	a := f.book(t, testDay, types.MustTimeOfDay(10, 0), domain.StatusScheduled)

	_, err := f.uc.Execute(context.Background(), &Request{AppointmentID: a.ID, Date: testDay, Start: types.MustTimeOfDay(23, 30)})

	var conflict *scheduler.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.NotErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, scheduler.ReasonAfterClosing, conflict.Result.Reason)

	slots, err := f.repo.SlotsOf(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, []types.TimeOfDay{types.MustTimeOfDay(10, 0), types.MustTimeOfDay(10, 30)}, slots)
}

func TestExecute_Refusals(t *testing.T) {
	f := newFixture(t)
	done := f.book(t, testDay, types.MustTimeOfDay(8, 0), domain.StatusDone)
	active := f.book(t, testDay, types.MustTimeOfDay(12, 0), domain.StatusScheduled)

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{"not found", &Request{AppointmentID: 999, Date: testDay, Start: types.MustTimeOfDay(9, 0)}, ErrAppointmentNotFound},
		{"already done", &Request{AppointmentID: done.ID, Date: testDay, Start: types.MustTimeOfDay(9, 0)}, ErrInvalidStatus},
		{"misaligned", &Request{AppointmentID: active.ID, Date: testDay, Start: types.MustTimeOfDay(9, 10)}, ErrInvalidTimeSlot},
		{"missing date", &Request{AppointmentID: active.ID, Start: types.MustTimeOfDay(9, 0)}, ErrInvalidInput},
		{"zero id", &Request{Date: testDay, Start: types.MustTimeOfDay(9, 0)}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// interleavedRepo выполняет hook сразу после чтения записи, имитируя конкурентный запрос,
// который успевает закоммитить смену статуса до блокировки дня
type interleavedRepo struct {
	*appointmentRepo.Repository
	hook func()
}

func (r *interleavedRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	a, err := r.Repository.GetByID(ctx, id)
	if r.hook != nil {
		hook := r.hook
		r.hook = nil
		hook()
	}
	return a, err
}

func TestExecute_ConcurrentCancelKeepsSlotsReleased(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.book(t, testDay, types.MustTimeOfDay(10, 0), domain.StatusScheduled)

	repo := &interleavedRepo{Repository: f.repo}
	repo.hook = func() {
		require.NoError(t, f.repo.UpdateStatus(ctx, a.ID, domain.StatusScheduled, domain.StatusCancelled, time.Now()))
		require.NoError(t, f.repo.ReleaseSlots(ctx, a.ID))
	}
	uc := NewUseCase(repo, lock.NewLocal(time.Second), f.uc.txManager, scheduler.DefaultWindow(), f.metrics, nopLogger{})

	_, err := uc.Execute(ctx, &Request{AppointmentID: a.ID, Date: testDay, Start: types.MustTimeOfDay(14, 0)})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	got, err := f.repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)
	assert.Equal(t, types.MustTimeOfDay(10, 0), got.Start)

	slots, err := f.repo.SlotsOf(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, slots)

	// 14:00 действительно свободно для новой записи
	f.book(t, testDay, types.MustTimeOfDay(14, 0), domain.StatusScheduled)
}
