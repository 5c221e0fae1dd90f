package reschedule_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/internal/infra/lock"
	"github.com/m04kA/SMC-ClinicService/internal/infra/storage"
	appointmentRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-ClinicService/internal/scheduler"
	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

// UseCase use case для переноса записи на другое время
type UseCase struct {
	appointmentRepo AppointmentRepository
	locker          DayLocker
	txManager       TransactionManager
	window          scheduler.Window
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	locker DayLocker,
	txManager TransactionManager,
	window scheduler.Window,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		locker:          locker,
		txManager:       txManager,
		window:          window,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет перенос записи.
// Собственные слоты записи не считаются конфликтом: запись можно сдвинуть на полслота.
// Старые регистрации слотов снимаются и новые ставятся в той же транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleAppointment: id=%d, date=%s, start=%s",
		req.AppointmentID, req.Date.Format(domain.DateFormat), req.Start)

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.window); err != nil {
		uc.logger.Warn("RescheduleAppointment: validation failed: %v", err)
		return nil, err
	}

	day := domain.DateOnly(req.Date)

	// 2. Получаем запись
	appointment, err := uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("RescheduleAppointment: appointment id=%d not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("RescheduleAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrPersistence, err)
	}

	// 3. Переносить можно только предстоящие записи
	if !appointment.CanBeRescheduled() {
		uc.logger.Warn("RescheduleAppointment: appointment id=%d has status %s", appointment.ID, appointment.Status)
		return nil, fmt.Errorf("%w: status %s", ErrInvalidStatus, appointment.Status)
	}

	previousDay, previousStart := appointment.Day, appointment.Start

	now := uc.timeProvider.Now()
	var slots []types.TimeOfDay

	// 4. Проверка и перенос под блокировкой нового дня в сериализуемой транзакции
	err = uc.locker.WithDayLock(ctx, day, func(lockCtx context.Context) error {
		return uc.txManager.DoSerializable(lockCtx, func(txCtx context.Context) error {
			// 4.1. Активные записи нового дня, кроме переносимой
			existing, err := uc.appointmentRepo.ListActiveForDay(txCtx, day, &appointment.ID)
			if err != nil {
				uc.logger.Error("RescheduleAppointment: failed to list appointments for %s: %v", day.Format(domain.DateFormat), err)
				return fmt.Errorf("%w: failed to list appointments: %v", ErrPersistence, err)
			}

			// 4.2. Проверяем доступность
			availability, err := scheduler.CheckAvailability(req.Start, appointment.DurationMinutes, day, domain.Bookings(existing), uc.window)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}

			if !availability.Available {
				uc.metrics.ObserveConflict("check")
				uc.logger.Warn("RescheduleAppointment: %s at %s unavailable: %s, conflicts=%v",
					day.Format(domain.DateFormat), req.Start, availability.Reason, availability.ConflictingSlots)
				return scheduler.NewConflictError(availability)
			}

			// 4.3. Слоты на новом месте
			slots, err = scheduler.ExpandSlots(req.Start, appointment.DurationMinutes, uc.window.SlotMinutes)
			if err != nil {
				uc.logger.Warn("RescheduleAppointment: failed to expand slots: %v", err)
				return fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}

			// 4.4. Переносим запись. Условие по статусу в UPDATE: отмена, закоммиченная после
			// шага 2, не даст зарегистрировать слоты неактивной записи.
			if err := uc.appointmentRepo.Reschedule(txCtx, appointment.ID, day, req.Start, now); err != nil {
				return err
			}

			// 4.5. Снимаем старые слоты и регистрируем новые
			if err := uc.appointmentRepo.ReleaseSlots(txCtx, appointment.ID); err != nil {
				return err
			}
			return uc.appointmentRepo.RegisterSlots(txCtx, appointment.ID, day, slots)
		})
	})

	if err != nil {
		return nil, uc.classifyError(err)
	}

	uc.logger.Info("RescheduleAppointment: appointment id=%d moved from %s %s to %s %s",
		appointment.ID, previousDay.Format(domain.DateFormat), previousStart, day.Format(domain.DateFormat), req.Start)

	return &Response{
		ID:              appointment.ID,
		PreviousDate:    previousDay,
		PreviousStart:   previousStart,
		Date:            day,
		Start:           req.Start,
		End:             types.TimeOfDay(req.Start.Minutes() + appointment.DurationMinutes),
		DurationMinutes: appointment.DurationMinutes,
		Status:          string(appointment.Status),
		Slots:           slots,
		UpdatedAt:       now,
	}, nil
}

func (uc *UseCase) classifyError(err error) error {
	switch {
	case errors.Is(err, scheduler.ErrSchedulingConflict),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrPersistence):
		return err

	case errors.Is(err, lock.ErrLockNotAcquired):
		uc.logger.Warn("RescheduleAppointment: %v", err)
		return fmt.Errorf("%w: %v", ErrSlotBusy, err)

	case errors.Is(err, appointmentRepo.ErrSlotTaken), storage.IsSerializationFailure(err):
		uc.metrics.ObserveConflict("commit")
		uc.logger.Warn("RescheduleAppointment: lost commit race: %v", err)
		return scheduler.NewConflictError(scheduler.AvailabilityResult{
			Available:        false,
			ConflictingSlots: []types.TimeOfDay{},
			Reason:           scheduler.ReasonSlotsBooked,
		})

	case errors.Is(err, appointmentRepo.ErrStatusChanged):
		uc.logger.Warn("RescheduleAppointment: status changed concurrently: %v", err)
		return fmt.Errorf("%w: status changed concurrently", ErrInvalidStatus)

	case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
		return ErrAppointmentNotFound

	default:
		uc.logger.Error("RescheduleAppointment: failed to reschedule appointment: %v", err)
		return fmt.Errorf("%w: failed to reschedule appointment: %v", ErrPersistence, err)
	}
}
