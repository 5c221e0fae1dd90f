package procedures

import (
	"context"

	"github.com/m04kA/SMC-ClinicService/internal/service/procedures/models"
)

type ProcedureService interface {
	Create(ctx context.Context, req *models.ProcedureRequest) (*models.ProcedureResponse, error)
	GetByID(ctx context.Context, id int64) (*models.ProcedureResponse, error)
	List(ctx context.Context) (*models.ProcedureListResponse, error)
	Update(ctx context.Context, id int64, req *models.ProcedureRequest) (*models.ProcedureResponse, error)
	Delete(ctx context.Context, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
