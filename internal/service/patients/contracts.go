package patients

import (
	"context"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
)

// PatientRepository интерфейс репозитория пациентов
type PatientRepository interface {
	Create(ctx context.Context, p *domain.Patient) (*domain.Patient, error)
	GetByID(ctx context.Context, id int64) (*domain.Patient, error)
	List(ctx context.Context, search string) ([]*domain.Patient, error)
	Update(ctx context.Context, p *domain.Patient) (*domain.Patient, error)
	Delete(ctx context.Context, id int64) error
}

// AppointmentCounter подсчет записей пациента
type AppointmentCounter interface {
	CountActiveByPatient(ctx context.Context, patientID int64) (int, error)
	CountByPatient(ctx context.Context, patientID int64) (int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
