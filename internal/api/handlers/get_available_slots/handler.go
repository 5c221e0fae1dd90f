package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-ClinicService/internal/usecase/get_available_slots"
)

const (
	msgMissingDate       = "дата обязательна"
	msgInvalidParams     = "некорректные параметры запроса, ожидается date=YYYY-MM-DD и procedureId или duration"
	msgProcedureNotFound = "процедура не найдена"
	msgInvalidInput      = "укажите либо procedureId, либо положительную duration"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/schedule/free-slots
// Query params: date (required, YYYY-MM-DD), procedureId или duration (минуты)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("date") == "" {
		h.logger.Warn("GET /schedule/free-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(r)
	if err != nil {
		h.logger.Warn("GET /schedule/free-slots - Invalid params: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrProcedureNotFound):
			h.logger.Warn("GET /schedule/free-slots - Procedure not found: %v", err)
			handlers.RespondNotFound(w, msgProcedureNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /schedule/free-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /schedule/free-slots - Failed to get slots: date=%s, error=%v",
				r.URL.Query().Get("date"), err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /schedule/free-slots - Slots retrieved successfully: date=%s, duration=%d, slots_count=%d",
		r.URL.Query().Get("date"), result.DurationMinutes, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
