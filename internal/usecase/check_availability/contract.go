package check_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	ListActiveForDay(ctx context.Context, day time.Time, excludeID *int64) ([]*domain.Appointment, error)
}

// ProcedureRepository интерфейс каталога процедур
type ProcedureRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Procedure, error)
}

// Metrics счетчик проверок доступности
type Metrics interface {
	ObserveAvailability(outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
