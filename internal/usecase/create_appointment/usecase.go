package create_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/internal/infra/lock"
	"github.com/m04kA/SMC-ClinicService/internal/infra/storage"
	appointmentRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/appointment"
	patientRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/patient"
	procedureRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/procedure"
	"github.com/m04kA/SMC-ClinicService/internal/scheduler"
	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

// Этапы, на которых обнаружен конфликт (метка метрики)
const (
	conflictStageCheck  = "check"
	conflictStageCommit = "commit"
)

// UseCase use case для создания записи на прием
type UseCase struct {
	appointmentRepo AppointmentRepository
	patientRepo     PatientRepository
	procedureRepo   ProcedureRepository
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
	patientRepo PatientRepository,
	procedureRepo ProcedureRepository,
	locker DayLocker,
	txManager TransactionManager,
	window scheduler.Window,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		patientRepo:     patientRepo,
		procedureRepo:   procedureRepo,
		locker:          locker,
		txManager:       txManager,
		window:          window,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи.
// Проверка доступности и сохранение выполняются под блокировкой дня в одной сериализуемой транзакции,
// проигравшая конкурентная запись получает *scheduler.ConflictError.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: patient=%d, procedure=%d, date=%s, start=%s",
		req.PatientID, req.ProcedureID, req.Date.Format(domain.DateFormat), req.Start)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Начало должно лежать на сетке расписания
	if err := validateAlignment(req, uc.window); err != nil {
		uc.logger.Warn("CreateAppointment: %v", err)
		return nil, err
	}

	day := domain.DateOnly(req.Date)

	// 3. Получаем пациента
	patient, err := uc.patientRepo.GetByID(ctx, req.PatientID)
	if err != nil {
		if errors.Is(err, patientRepo.ErrPatientNotFound) {
			uc.logger.Warn("CreateAppointment: patient id=%d not found", req.PatientID)
			return nil, ErrPatientNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get patient id=%d: %v", req.PatientID, err)
		return nil, fmt.Errorf("%w: failed to get patient: %v", ErrPersistence, err)
	}

	// 4. Получаем процедуру, длительность и стоимость берутся из каталога
	procedure, err := uc.procedureRepo.GetByID(ctx, req.ProcedureID)
	if err != nil {
		if errors.Is(err, procedureRepo.ErrProcedureNotFound) {
			uc.logger.Warn("CreateAppointment: procedure id=%d not found", req.ProcedureID)
			return nil, ErrProcedureNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get procedure id=%d: %v", req.ProcedureID, err)
		return nil, fmt.Errorf("%w: failed to get procedure: %v", ErrPersistence, err)
	}

	if err := validateProcedure(procedure); err != nil {
		uc.logger.Warn("CreateAppointment: %v", err)
		return nil, err
	}

	var (
		result *domain.Appointment
		slots  []types.TimeOfDay
	)

	// 5. Проверка и сохранение под блокировкой дня в сериализуемой транзакции
	err = uc.locker.WithDayLock(ctx, day, func(lockCtx context.Context) error {
		return uc.txManager.DoSerializable(lockCtx, func(txCtx context.Context) error {
			// 5.1. Активные записи дня (в Postgres с блокировкой строк)
			existing, err := uc.appointmentRepo.ListActiveForDay(txCtx, day, nil)
			if err != nil {
				uc.logger.Error("CreateAppointment: failed to list appointments for %s: %v", day.Format(domain.DateFormat), err)
				return fmt.Errorf("%w: failed to list appointments: %v", ErrPersistence, err)
			}

			// 5.2. Проверяем доступность
			availability, err := scheduler.CheckAvailability(req.Start, procedure.DurationMinutes, day, domain.Bookings(existing), uc.window)
			if err != nil {
				uc.logger.Error("CreateAppointment: availability check failed: %v", err)
				return fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}

			if !availability.Available {
				uc.metrics.ObserveConflict(conflictStageCheck)
				uc.logger.Warn("CreateAppointment: %s at %s unavailable: %s, conflicts=%v",
					day.Format(domain.DateFormat), req.Start, availability.Reason, availability.ConflictingSlots)
				return scheduler.NewConflictError(availability)
			}

			// 5.3. Слоты, которые займет запись. Интервал уже внутри рабочего дня.
			slots, err = scheduler.ExpandSlots(req.Start, procedure.DurationMinutes, uc.window.SlotMinutes)
			if err != nil {
				uc.logger.Warn("CreateAppointment: failed to expand slots: %v", err)
				return fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}

			// 5.4. Сохраняем запись вместе с регистрацией слотов
			appointment := &domain.Appointment{
				PatientID:       req.PatientID,
				ProcedureID:     req.ProcedureID,
				DoctorID:        req.DoctorID,
				Day:             day,
				Start:           req.Start,
				DurationMinutes: procedure.DurationMinutes,
				Value:           &procedure.Value,
				Status:          domain.StatusScheduled,
				Notes:           req.Notes,
				CreatedAt:       uc.timeProvider.Now(),
			}

			created, err := uc.appointmentRepo.Create(txCtx, appointment, slots)
			if err != nil {
				return err
			}

			result = created
			return nil
		})
	})

	if err != nil {
		return nil, uc.classifyError(err)
	}

	uc.metrics.ObserveAppointmentCreated()
	uc.logger.Info("CreateAppointment: successfully created appointment id=%d (%s %s-%s)",
		result.ID, day.Format(domain.DateFormat), result.Start, types.TimeOfDay(result.End()))

	return &Response{
		ID:              result.ID,
		PatientID:       result.PatientID,
		ProcedureID:     result.ProcedureID,
		DoctorID:        result.DoctorID,
		Date:            result.Day,
		Start:           result.Start,
		End:             types.TimeOfDay(result.End()),
		DurationMinutes: result.DurationMinutes,
		Value:           result.Value,
		Status:          string(result.Status),
		Notes:           result.Notes,
		PatientName:     patient.Name,
		ProcedureName:   procedure.Name,
		Slots:           slots,
		CreatedAt:       result.CreatedAt,
	}, nil
}

// classifyError приводит ошибку транзакции к ошибкам use case.
// Нарушение уникальности слота или проигрыш сериализации на коммите означает,
// что конкурентная запись заняла слоты раньше.
func (uc *UseCase) classifyError(err error) error {
	switch {
	case errors.Is(err, scheduler.ErrSchedulingConflict),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrPersistence):
		return err

	case errors.Is(err, lock.ErrLockNotAcquired):
		uc.logger.Warn("CreateAppointment: %v", err)
		return fmt.Errorf("%w: %v", ErrSlotBusy, err)

	case errors.Is(err, appointmentRepo.ErrSlotTaken), storage.IsSerializationFailure(err):
		uc.metrics.ObserveConflict(conflictStageCommit)
		uc.logger.Warn("CreateAppointment: lost commit race: %v", err)
		return scheduler.NewConflictError(scheduler.AvailabilityResult{
			Available:        false,
			ConflictingSlots: []types.TimeOfDay{},
			Reason:           scheduler.ReasonSlotsBooked,
		})

	default:
		uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
		return fmt.Errorf("%w: failed to create appointment: %v", ErrPersistence, err)
	}
}
