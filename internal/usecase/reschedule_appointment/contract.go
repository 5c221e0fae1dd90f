package reschedule_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	ListActiveForDay(ctx context.Context, day time.Time, excludeID *int64) ([]*domain.Appointment, error)
	ReleaseSlots(ctx context.Context, appointmentID int64) error
	Reschedule(ctx context.Context, id int64, day time.Time, start types.TimeOfDay, at time.Time) error
	RegisterSlots(ctx context.Context, appointmentID int64, day time.Time, slots []types.TimeOfDay) error
}

// DayLocker блокировка дня расписания
type DayLocker interface {
	WithDayLock(ctx context.Context, day time.Time, fn func(ctx context.Context) error) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчики планировщика
type Metrics interface {
	ObserveConflict(stage string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
