package check_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicService/internal/api/handlers"
	checkAvailability "github.com/m04kA/SMC-ClinicService/internal/usecase/check_availability"
)

const (
	msgInvalidParams     = "некорректные параметры запроса, ожидается date=YYYY-MM-DD, start=HH:MM и procedureId или duration"
	msgProcedureNotFound = "процедура не найдена"
	msgInvalidInput      = "некорректные параметры проверки"
)

type Handler struct {
	useCase CheckAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase CheckAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/schedule/availability
// Недоступное время это обычный ответ 200 с available=false.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	useCaseReq, err := ToUseCaseRequest(r)
	if err != nil {
		h.logger.Warn("GET /schedule/availability - Invalid params: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, checkAvailability.ErrProcedureNotFound):
			h.logger.Warn("GET /schedule/availability - Procedure not found: %v", err)
			handlers.RespondNotFound(w, msgProcedureNotFound)

		case errors.Is(err, checkAvailability.ErrInvalidInput):
			h.logger.Warn("GET /schedule/availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /schedule/availability - Failed to check availability: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /schedule/availability - Checked: date=%s, start=%s, available=%t",
		r.URL.Query().Get("date"), r.URL.Query().Get("start"), result.Available)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
