package domain

import (
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/scheduler"
	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

// AppointmentStatus статус записи на прием
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusDone      AppointmentStatus = "done"
	StatusNoShow    AppointmentStatus = "no_show"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Appointment запись пациента на процедуру.
// Занятые слоты не хранятся отдельными сущностями, они вычисляются из Start и DurationMinutes.
type Appointment struct {
	ID              int64
	PatientID       int64
	ProcedureID     int64
	DoctorID        *int64
	Day             time.Time // только дата, время отбрасывается
	Start           types.TimeOfDay
	DurationMinutes int
	Value           *float64 // стоимость процедуры на момент записи
	Status          AppointmentStatus
	Notes           *string

	// Денормализованные данные для списков
	PatientName   string
	ProcedureName string

	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive true, если запись занимает время в расписании
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled && a.Status != StatusNoShow
}

// CanBeCancelled true, если запись еще не состоялась
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusScheduled || a.Status == StatusConfirmed
}

// CanBeRescheduled true, если запись можно перенести
func (a *Appointment) CanBeRescheduled() bool {
	return a.Status == StatusScheduled || a.Status == StatusConfirmed
}

// End время окончания процедуры в минутах от полуночи (может быть равно 1440)
func (a *Appointment) End() int {
	return a.Start.Minutes() + a.DurationMinutes
}

// Booking представление записи для планировщика
func (a *Appointment) Booking() scheduler.Booking {
	return scheduler.Booking{
		Day:             a.Day,
		Start:           a.Start,
		DurationMinutes: a.DurationMinutes,
	}
}

// Bookings активные записи в представлении планировщика. Неактивные пропускаются.
func Bookings(appointments []*Appointment) []scheduler.Booking {
	bookings := make([]scheduler.Booking, 0, len(appointments))
	for _, a := range appointments {
		if !a.IsActive() {
			continue
		}
		bookings = append(bookings, a.Booking())
	}
	return bookings
}

// CanTransitionTo проверяет допустимость смены статуса
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	switch a.Status {
	case StatusScheduled:
		return next == StatusConfirmed || next == StatusDone || next == StatusNoShow || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusDone || next == StatusNoShow || next == StatusCancelled
	default:
		return false
	}
}

// AppointmentsFilter фильтр для списка записей
type AppointmentsFilter struct {
	StartDay        *time.Time // начало периода включительно (опционально)
	EndDay          *time.Time // конец периода включительно (опционально)
	PatientID       *int64
	ProcedureID     *int64
	Status          *AppointmentStatus
	IncludeInactive bool // включать отмененные и неявки
}

// DateOnly обнуляет время, оставляя календарную дату
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay проверяет, что две даты относятся к одному дню
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
