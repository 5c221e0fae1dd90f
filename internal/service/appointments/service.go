package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/appointment"
	paymentRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/payment"
	"github.com/m04kA/SMC-ClinicService/internal/service/appointments/models"
)

// Service сервис для работы с записями на прием.
// Создание и перенос записей выполняются use case'ами, здесь только чтение и смена статуса.
type Service struct {
	appointmentRepo AppointmentRepository
	paymentRepo     PaymentRepository
	txManager       TransactionManager
	now             func() time.Time
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	paymentRepo PaymentRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		paymentRepo:     paymentRepo,
		txManager:       txManager,
		now:             time.Now,
		logger:          logger,
	}
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d", id)

	appointment, err := s.get(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	return models.FromDomainAppointment(appointment), nil
}

// List получает записи по фильтру, упорядоченные по дате и времени
func (s *Service) List(ctx context.Context, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if filter.StartDay != nil && filter.EndDay != nil && filter.EndDay.Before(*filter.StartDay) {
		s.logger.Warn("List: endDate before startDate")
		return nil, fmt.Errorf("%w: endDate must not be before startDate", ErrInvalidInput)
	}

	list, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: found %d appointments", len(list))
	return models.FromDomainAppointments(list), nil
}

// UpdateStatus меняет статус записи.
// Переход в неактивный статус (отмена, неявка) снимает регистрации слотов в той же транзакции.
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: appointment id=%d to status=%s", id, req.Status)

	next, err := models.ToDomainStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s", req.Status)
		return fmt.Errorf("%w: invalid status %q", ErrInvalidInput, req.Status)
	}

	appointment, err := s.get(ctx, "UpdateStatus", id)
	if err != nil {
		return err
	}

	if !appointment.CanTransitionTo(next) {
		s.logger.Warn("UpdateStatus: appointment id=%d cannot go from %s to %s", id, appointment.Status, next)
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appointment.Status, next)
	}

	if err := s.setStatus(ctx, "UpdateStatus", id, appointment.Status, next); err != nil {
		if errors.Is(err, errStatusChanged) {
			return fmt.Errorf("%w: %s changed concurrently", ErrInvalidTransition, appointment.Status)
		}
		return err
	}

	s.logger.Info("UpdateStatus: appointment id=%d is now %s", id, next)
	return nil
}

// Cancel отменяет предстоящую запись и освобождает ее время
func (s *Service) Cancel(ctx context.Context, id int64) error {
	s.logger.Info("Cancel: appointment id=%d", id)

	appointment, err := s.get(ctx, "Cancel", id)
	if err != nil {
		return err
	}

	if !appointment.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", id, appointment.Status)
		return ErrCannotCancel
	}

	if err := s.setStatus(ctx, "Cancel", id, appointment.Status, domain.StatusCancelled); err != nil {
		if errors.Is(err, errStatusChanged) {
			return ErrCannotCancel
		}
		return err
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", id)
	return nil
}

// Delete удаляет запись вместе со всеми регистрациями ее слотов.
// Запись с платежом удалить нельзя, ее нужно отменить.
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: appointment id=%d", id)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		_, err := s.paymentRepo.GetByAppointmentID(txCtx, id)
		switch {
		case err == nil:
			return ErrHasPayment
		case !errors.Is(err, paymentRepo.ErrPaymentNotFound):
			return fmt.Errorf("%w: Delete - payment lookup: %v", ErrInternal, err)
		}

		return s.appointmentRepo.Delete(txCtx, id)
	})

	switch {
	case err == nil:
		s.logger.Info("Delete: successfully deleted appointment id=%d", id)
		return nil
	case errors.Is(err, ErrHasPayment):
		s.logger.Warn("Delete: appointment id=%d has a payment", id)
		return err
	case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
		s.logger.Warn("Delete: appointment id=%d not found", id)
		return ErrAppointmentNotFound
	case errors.Is(err, ErrInternal):
		s.logger.Error("Delete: %v", err)
		return err
	default:
		s.logger.Error("Delete: repository error for appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}
}

// Вспомогательные методы

func (s *Service) get(ctx context.Context, op string, id int64) (*domain.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appointment, nil
}

// setStatus меняет статус from -> to, для неактивных статусов в одной транзакции со снятием слотов.
// Если статус записи успел смениться, возвращает errStatusChanged и ничего не меняет.
func (s *Service) setStatus(ctx context.Context, op string, id int64, from, to domain.AppointmentStatus) error {
	releases := to == domain.StatusCancelled || to == domain.StatusNoShow

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.appointmentRepo.UpdateStatus(txCtx, id, from, to, s.now()); err != nil {
			return err
		}
		if releases {
			return s.appointmentRepo.ReleaseSlots(txCtx, id)
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found during update", op, id)
			return ErrAppointmentNotFound
		}
		if errors.Is(err, appointmentRepo.ErrStatusChanged) {
			s.logger.Warn("%s: appointment id=%d is no longer %s", op, id, from)
			return errStatusChanged
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return nil
}
