package patients

import (
	"context"
	"errors"
	"fmt"
	"time"

	patientRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/patient"
	"github.com/m04kA/SMC-ClinicService/internal/service/patients/models"
)

// Service сервис карточек пациентов
type Service struct {
	patientRepo  PatientRepository
	appointments AppointmentCounter
	now          func() time.Time
	logger       Logger
}

// NewService создает новый экземпляр сервиса пациентов
func NewService(patientRepo PatientRepository, appointments AppointmentCounter, logger Logger) *Service {
	return &Service{
		patientRepo:  patientRepo,
		appointments: appointments,
		now:          time.Now,
		logger:       logger,
	}
}

// Create регистрирует пациента. CPF и email уникальны.
func (s *Service) Create(ctx context.Context, req *models.PatientRequest) (*models.PatientResponse, error) {
	s.logger.Info("Create: patient name=%q", req.Name)

	patient, err := req.ToDomain(s.now())
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.patientRepo.Create(ctx, patient)
	if err != nil {
		if errors.Is(err, patientRepo.ErrDuplicate) {
			s.logger.Warn("Create: duplicate cpf or email for %q", patient.Name)
			return nil, ErrDuplicate
		}
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created patient id=%d", created.ID)
	return models.FromDomainPatient(created), nil
}

// GetByID получает карточку пациента
func (s *Service) GetByID(ctx context.Context, id int64) (*models.PatientResponse, error) {
	patient, err := s.patientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, patientRepo.ErrPatientNotFound) {
			s.logger.Warn("GetByID: patient id=%d not found", id)
			return nil, ErrPatientNotFound
		}
		s.logger.Error("GetByID: repository error for patient id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainPatient(patient), nil
}

// List пациенты по имени, search фильтрует по подстроке имени без учета регистра
func (s *Service) List(ctx context.Context, search string) (*models.PatientListResponse, error) {
	list, err := s.patientRepo.List(ctx, search)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: found %d patients", len(list))
	return models.FromDomainPatients(list), nil
}

// Update перезаписывает карточку пациента
func (s *Service) Update(ctx context.Context, id int64, req *models.PatientRequest) (*models.PatientResponse, error) {
	s.logger.Info("Update: patient id=%d", id)

	patient, err := req.ToDomain(s.now())
	if err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	patient.ID = id

	updated, err := s.patientRepo.Update(ctx, patient)
	if err != nil {
		switch {
		case errors.Is(err, patientRepo.ErrPatientNotFound):
			s.logger.Warn("Update: patient id=%d not found", id)
			return nil, ErrPatientNotFound
		case errors.Is(err, patientRepo.ErrDuplicate):
			s.logger.Warn("Update: duplicate cpf or email for patient id=%d", id)
			return nil, ErrDuplicate
		}
		s.logger.Error("Update: repository error for patient id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated patient id=%d", id)
	return models.FromDomainPatient(updated), nil
}

// Delete удаляет пациента без записей.
// Пациента с предстоящими записями или с историей приемов удалить нельзя.
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: patient id=%d", id)

	active, err := s.appointments.CountActiveByPatient(ctx, id)
	if err != nil {
		s.logger.Error("Delete: failed to count appointments of patient id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - count appointments: %v", ErrInternal, err)
	}
	if active > 0 {
		s.logger.Warn("Delete: patient id=%d has %d active appointments", id, active)
		return fmt.Errorf("%w: %d", ErrHasActiveAppointments, active)
	}

	total, err := s.appointments.CountByPatient(ctx, id)
	if err != nil {
		s.logger.Error("Delete: failed to count appointments of patient id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - count appointments: %v", ErrInternal, err)
	}
	if total > 0 {
		s.logger.Warn("Delete: patient id=%d has %d past appointments", id, total)
		return fmt.Errorf("%w: %d", ErrHasHistory, total)
	}

	if err := s.patientRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, patientRepo.ErrPatientNotFound) {
			s.logger.Warn("Delete: patient id=%d not found", id)
			return ErrPatientNotFound
		}
		s.logger.Error("Delete: repository error for patient id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted patient id=%d", id)
	return nil
}
