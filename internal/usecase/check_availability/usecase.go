package check_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	procedureRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/procedure"
	"github.com/m04kA/SMC-ClinicService/internal/scheduler"
	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

// Исходы проверки (метка метрики)
const (
	outcomeAvailable     = "available"
	outcomeSlotsBooked   = "slots_booked"
	outcomeAfterClosing  = "after_closing"
	outcomeBeforeOpening = "before_opening"
)

// UseCase use case проверки, свободно ли время для процедуры.
// Только читает расписание, ничего не резервирует.
type UseCase struct {
	appointmentRepo AppointmentRepository
	procedureRepo   ProcedureRepository
	window          scheduler.Window
	metrics         Metrics
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	procedureRepo ProcedureRepository,
	window scheduler.Window,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		procedureRepo:   procedureRepo,
		window:          window,
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute выполняет проверку доступности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckAvailability: date=%s, start=%s", req.Date.Format(domain.DateFormat), req.Start)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CheckAvailability: validation failed: %v", err)
		return nil, err
	}

	day := domain.DateOnly(req.Date)

	// 2. Определяем длительность
	duration := 0
	if req.DurationMinutes != nil {
		duration = *req.DurationMinutes
	} else {
		procedure, err := uc.procedureRepo.GetByID(ctx, *req.ProcedureID)
		if err != nil {
			if errors.Is(err, procedureRepo.ErrProcedureNotFound) {
				uc.logger.Warn("CheckAvailability: procedure id=%d not found", *req.ProcedureID)
				return nil, ErrProcedureNotFound
			}
			uc.logger.Error("CheckAvailability: failed to get procedure id=%d: %v", *req.ProcedureID, err)
			return nil, fmt.Errorf("%w: failed to get procedure: %v", ErrPersistence, err)
		}
		duration = procedure.DurationMinutes
	}

	// 3. Активные записи дня
	existing, err := uc.appointmentRepo.ListActiveForDay(ctx, day, req.ExcludeID)
	if err != nil {
		uc.logger.Error("CheckAvailability: failed to list appointments for %s: %v", day.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: failed to list appointments: %v", ErrPersistence, err)
	}

	// 4. Проверяем. Выход за время закрытия (в том числе за полночь) не ошибка, а недоступность.
	result, err := scheduler.CheckAvailability(req.Start, duration, day, domain.Bookings(existing), uc.window)
	if err != nil {
		uc.logger.Error("CheckAvailability: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 5. Слоты, которые заняла бы запись, есть только у интервала внутри рабочего дня
	required := []types.TimeOfDay{}
	if req.Start.Minutes()+duration <= uc.window.Close.Minutes() {
		required, err = scheduler.ExpandSlots(req.Start, duration, uc.window.SlotMinutes)
		if err != nil {
			uc.logger.Warn("CheckAvailability: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	uc.metrics.ObserveAvailability(outcome(result))
	uc.logger.Info("CheckAvailability: %s %s for %d minutes available=%t %s",
		day.Format(domain.DateFormat), req.Start, duration, result.Available, result.Reason)

	return &Response{
		Date:             day,
		Start:            req.Start,
		End:              types.TimeOfDay(req.Start.Minutes() + duration),
		DurationMinutes:  duration,
		Available:        result.Available,
		ConflictingSlots: result.ConflictingSlots,
		Reason:           result.Reason,
		RequiredSlots:    required,
	}, nil
}

func outcome(r scheduler.AvailabilityResult) string {
	switch {
	case r.Available:
		return outcomeAvailable
	case r.Reason == scheduler.ReasonAfterClosing:
		return outcomeAfterClosing
	case r.Reason == scheduler.ReasonBeforeOpening:
		return outcomeBeforeOpening
	default:
		return outcomeSlotsBooked
	}
}
