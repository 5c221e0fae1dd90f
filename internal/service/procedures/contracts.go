package procedures

import (
	"context"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
)

// ProcedureRepository интерфейс каталога процедур
type ProcedureRepository interface {
	Create(ctx context.Context, p *domain.Procedure) (*domain.Procedure, error)
	GetByID(ctx context.Context, id int64) (*domain.Procedure, error)
	List(ctx context.Context) ([]*domain.Procedure, error)
	Update(ctx context.Context, p *domain.Procedure) (*domain.Procedure, error)
	Delete(ctx context.Context, id int64) error
}

// AppointmentCounter подсчет записей на процедуру
type AppointmentCounter interface {
	CountByProcedure(ctx context.Context, procedureID int64) (int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
