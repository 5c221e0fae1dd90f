package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

func TestAppointment_IsActive(t *testing.T) {
	for _, s := range ActiveStatuses {
		a := Appointment{Status: s}
		assert.True(t, a.IsActive(), s)
	}
	for _, s := range InactiveStatuses {
		a := Appointment{Status: s}
		assert.False(t, a.IsActive(), s)
	}
}

func TestAppointment_CanTransitionTo(t *testing.T) {
	a := Appointment{Status: StatusScheduled}
	assert.True(t, a.CanTransitionTo(StatusConfirmed))
	assert.True(t, a.CanTransitionTo(StatusCancelled))
	assert.False(t, a.CanTransitionTo(StatusScheduled))

	done := Appointment{Status: StatusDone}
	assert.False(t, done.CanTransitionTo(StatusCancelled))
}

func TestAppointment_End(t *testing.T) {
	a := Appointment{Start: types.MustTimeOfDay(17, 0), DurationMinutes: 60}
	assert.Equal(t, 1080, a.End())
}

func TestDateOnly(t *testing.T) {
	got := DateOnly(time.Date(2025, 5, 2, 15, 4, 5, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC), got)
	assert.True(t, SameDay(got, time.Date(2025, 5, 2, 23, 59, 0, 0, time.UTC)))
}

func TestSummarize(t *testing.T) {
	payments := []*Payment{
		{Amount: 200, Discount: 20, Method: MethodPix, Status: PaymentPaid},
		{Amount: 100, Discount: 0, Method: MethodCard, Status: PaymentPaid},
		{Amount: 150, Discount: 50, Method: MethodCash, Status: PaymentPending},
		{Amount: 80, Discount: 0, Method: MethodBoleto, Status: PaymentCancelled},
	}

	s := Summarize(payments)

	assert.Equal(t, 280.0, s.TotalReceived)
	assert.Equal(t, 100.0, s.TotalPending)
	assert.Equal(t, 80.0, s.TotalCancelled)
	assert.Equal(t, 4, s.Count)
	assert.Equal(t, 140.0, s.AverageTicket)
	assert.Equal(t, 180.0, s.ByMethod[MethodPix])
	assert.Equal(t, 100.0, s.ByMethod[MethodCard])
	assert.Equal(t, 0.0, s.ByMethod[MethodCash])
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Count)
	assert.Equal(t, 0.0, s.AverageTicket)
	assert.Len(t, s.ByMethod, len(PaymentMethods))
}

func TestBookings_SkipsInactive(t *testing.T) {
	day := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	list := []*Appointment{
		{Day: day, Start: types.MustTimeOfDay(9, 0), DurationMinutes: 30, Status: StatusScheduled},
		{Day: day, Start: types.MustTimeOfDay(10, 0), DurationMinutes: 60, Status: StatusCancelled},
		{Day: day, Start: types.MustTimeOfDay(11, 0), DurationMinutes: 90, Status: StatusNoShow},
		{Day: day, Start: types.MustTimeOfDay(14, 0), DurationMinutes: 60, Status: StatusDone},
	}

	got := Bookings(list)
	require.Len(t, got, 2)
	assert.Equal(t, types.MustTimeOfDay(9, 0), got[0].Start)
	assert.Equal(t, 60, got[1].DurationMinutes)
}
