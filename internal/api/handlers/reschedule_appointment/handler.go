package reschedule_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/internal/scheduler"
	rescheduleAppointment "github.com/m04kA/SMC-ClinicService/internal/usecase/reschedule_appointment"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDate          = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime          = "некорректный формат времени начала, ожидается HH:MM"
	msgNotFound             = "запись не найдена"
	msgInvalidStatus        = "запись в текущем статусе нельзя перенести"
	msgSlotNotAvailable     = "выбранное время недоступно"
	msgInvalidTimeSlot      = "время начала не совпадает с сеткой расписания"
	msgSlotBusy             = "расписание на этот день сейчас изменяется, повторите запрос"
	msgInvalidInput         = "некорректные данные переноса"
)

type Handler struct {
	useCase RescheduleAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/appointments/{appointmentId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := handlers.PathID(r, "appointmentId")
	if err != nil {
		h.logger.Warn("PUT /appointments/{id}/reschedule - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req RescheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /appointments/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(appointmentID)
	if err != nil {
		h.logger.Warn("PUT /appointments/{id}/reschedule - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var conflict *scheduler.ConflictError
		switch {
		case errors.As(err, &conflict):
			h.logger.Warn("PUT /appointments/{id}/reschedule - Slot not available: appointment_id=%d, reason=%s",
				appointmentID, conflict.Result.Reason)
			handlers.RespondSchedulingConflict(w, msgSlotNotAvailable, conflict.Result.Reason, conflict.Result.ConflictingSlots)

		case errors.Is(err, rescheduleAppointment.ErrAppointmentNotFound):
			h.logger.Warn("PUT /appointments/{id}/reschedule - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rescheduleAppointment.ErrInvalidStatus):
			h.logger.Warn("PUT /appointments/{id}/reschedule - Invalid status: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgInvalidStatus)

		case errors.Is(err, rescheduleAppointment.ErrSlotBusy):
			h.logger.Warn("PUT /appointments/{id}/reschedule - Schedule day busy: date=%s", req.Date)
			handlers.RespondConflict(w, msgSlotBusy)

		case errors.Is(err, rescheduleAppointment.ErrInvalidTimeSlot):
			h.logger.Warn("PUT /appointments/{id}/reschedule - Invalid time slot: start=%s", req.StartTime)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, rescheduleAppointment.ErrInvalidInput):
			h.logger.Warn("PUT /appointments/{id}/reschedule - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PUT /appointments/{id}/reschedule - Failed to reschedule: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /appointments/{id}/reschedule - Rescheduled: appointment_id=%d, %s %s -> %s %s",
		appointmentID, result.PreviousDate.Format(domain.DateFormat), result.PreviousStart, req.Date, req.StartTime)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
