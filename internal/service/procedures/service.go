package procedures

import (
	"context"
	"errors"
	"fmt"

	procedureRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/procedure"
	"github.com/m04kA/SMC-ClinicService/internal/service/procedures/models"
)

// Service сервис каталога процедур
type Service struct {
	procedureRepo ProcedureRepository
	appointments  AppointmentCounter
	logger        Logger
}

// NewService создает новый экземпляр сервиса процедур
func NewService(procedureRepo ProcedureRepository, appointments AppointmentCounter, logger Logger) *Service {
	return &Service{
		procedureRepo: procedureRepo,
		appointments:  appointments,
		logger:        logger,
	}
}

// Create добавляет процедуру в каталог
func (s *Service) Create(ctx context.Context, req *models.ProcedureRequest) (*models.ProcedureResponse, error) {
	s.logger.Info("Create: procedure name=%q, duration=%d", req.Name, req.DurationMinutes)

	procedure, err := req.ToDomain()
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.procedureRepo.Create(ctx, procedure)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created procedure id=%d", created.ID)
	return models.FromDomainProcedure(created), nil
}

// GetByID получает процедуру
func (s *Service) GetByID(ctx context.Context, id int64) (*models.ProcedureResponse, error) {
	procedure, err := s.procedureRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, procedureRepo.ErrProcedureNotFound) {
			s.logger.Warn("GetByID: procedure id=%d not found", id)
			return nil, ErrProcedureNotFound
		}
		s.logger.Error("GetByID: repository error for procedure id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainProcedure(procedure), nil
}

// List весь каталог по имени
func (s *Service) List(ctx context.Context) (*models.ProcedureListResponse, error) {
	list, err := s.procedureRepo.List(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainProcedures(list), nil
}

// Update перезаписывает процедуру.
// Новая длительность действует только для новых записей.
func (s *Service) Update(ctx context.Context, id int64, req *models.ProcedureRequest) (*models.ProcedureResponse, error) {
	s.logger.Info("Update: procedure id=%d", id)

	procedure, err := req.ToDomain()
	if err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	procedure.ID = id

	updated, err := s.procedureRepo.Update(ctx, procedure)
	if err != nil {
		if errors.Is(err, procedureRepo.ErrProcedureNotFound) {
			s.logger.Warn("Update: procedure id=%d not found", id)
			return nil, ErrProcedureNotFound
		}
		s.logger.Error("Update: repository error for procedure id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated procedure id=%d", id)
	return models.FromDomainProcedure(updated), nil
}

// Delete удаляет процедуру, если на нее нет ни одной записи
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: procedure id=%d", id)

	n, err := s.appointments.CountByProcedure(ctx, id)
	if err != nil {
		s.logger.Error("Delete: failed to count appointments for procedure id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - count appointments: %v", ErrInternal, err)
	}
	if n > 0 {
		s.logger.Warn("Delete: procedure id=%d is used by %d appointments", id, n)
		return fmt.Errorf("%w: %d appointments", ErrInUse, n)
	}

	if err := s.procedureRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, procedureRepo.ErrProcedureNotFound) {
			s.logger.Warn("Delete: procedure id=%d not found", id)
			return ErrProcedureNotFound
		}
		s.logger.Error("Delete: repository error for procedure id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted procedure id=%d", id)
	return nil
}
