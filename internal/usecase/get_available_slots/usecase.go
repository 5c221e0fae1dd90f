package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	procedureRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/procedure"
	"github.com/m04kA/SMC-ClinicService/internal/scheduler"
	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

// UseCase use case для получения свободных времен начала на день
type UseCase struct {
	appointmentRepo AppointmentRepository
	procedureRepo   ProcedureRepository
	window          scheduler.Window
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	procedureRepo ProcedureRepository,
	window scheduler.Window,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		procedureRepo:   procedureRepo,
		window:          window,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения свободных слотов.
// Для прошедших дней список пуст, для сегодняшнего дня отбрасываются уже наступившие времена.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: date=%s", req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	day := domain.DateOnly(req.Date)
	now := uc.timeProvider.Now()

	// 2. Определяем длительность
	duration, err := uc.resolveDuration(ctx, req)
	if err != nil {
		return nil, err
	}

	response := &Response{
		Date:            day,
		ProcedureID:     req.ProcedureID,
		DurationMinutes: duration,
		Open:            uc.window.Open,
		Close:           uc.window.Close,
		SlotMinutes:     uc.window.SlotMinutes,
		Slots:           []types.TimeOfDay{},
	}

	// 3. Прошедший день
	if isDateInPast(day, now) {
		uc.logger.Info("GetAvailableSlots: %s is in the past", day.Format(domain.DateFormat))
		return response, nil
	}

	// 4. Активные записи дня
	existing, err := uc.appointmentRepo.ListActiveForDay(ctx, day, nil)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list appointments for %s: %v", day.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: failed to list appointments: %v", ErrPersistence, err)
	}

	// 5. Свободные времена начала
	free, err := scheduler.FreeSlots(duration, day, domain.Bookings(existing), uc.window)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to compute free slots: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 6. Для сегодняшнего дня пропускаем наступившее время
	var notBefore types.TimeOfDay
	if domain.SameDay(day, now) {
		notBefore = types.FromTime(now) + 1
	}

	for slot := range free {
		if slot < notBefore {
			continue
		}
		response.Slots = append(response.Slots, slot)
	}

	uc.logger.Info("GetAvailableSlots: %d free start times on %s for %d minutes",
		len(response.Slots), day.Format(domain.DateFormat), duration)

	return response, nil
}

func (uc *UseCase) resolveDuration(ctx context.Context, req *Request) (int, error) {
	if req.DurationMinutes != nil {
		return *req.DurationMinutes, nil
	}

	procedure, err := uc.procedureRepo.GetByID(ctx, *req.ProcedureID)
	if err != nil {
		if errors.Is(err, procedureRepo.ErrProcedureNotFound) {
			uc.logger.Warn("GetAvailableSlots: procedure id=%d not found", *req.ProcedureID)
			return 0, ErrProcedureNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get procedure id=%d: %v", *req.ProcedureID, err)
		return 0, fmt.Errorf("%w: failed to get procedure: %v", ErrPersistence, err)
	}

	return procedure.DurationMinutes, nil
}
