// Package procedures HTTP обработчики каталога процедур
package procedures

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicService/internal/service/procedures"
	"github.com/m04kA/SMC-ClinicService/internal/service/procedures/models"
)

const (
	msgInvalidProcedureID = "некорректный ID процедуры"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные процедуры: нужны название, стоимость и длительность"
	msgNotFound           = "процедура не найдена"
	msgInUse              = "на процедуру есть записи, удаление невозможно"
)

type Handler struct {
	service ProcedureService
	logger  Logger
}

func NewHandler(service ProcedureService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Create POST /api/v1/procedures
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.ProcedureRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /procedures - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	procedure, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.respondError(w, "POST /procedures", 0, err)
		return
	}

	h.logger.Info("POST /procedures - Procedure created: procedure_id=%d", procedure.ID)
	handlers.RespondJSON(w, http.StatusCreated, procedure)
}

// List GET /api/v1/procedures
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context())
	if err != nil {
		h.respondError(w, "GET /procedures", 0, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Get GET /api/v1/procedures/{procedureId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	procedureID, ok := h.procedureID(w, r, "GET /procedures/{id}")
	if !ok {
		return
	}

	procedure, err := h.service.GetByID(r.Context(), procedureID)
	if err != nil {
		h.respondError(w, "GET /procedures/{id}", procedureID, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, procedure)
}

// Update PUT /api/v1/procedures/{procedureId}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	procedureID, ok := h.procedureID(w, r, "PUT /procedures/{id}")
	if !ok {
		return
	}

	var req models.ProcedureRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /procedures/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	procedure, err := h.service.Update(r.Context(), procedureID, &req)
	if err != nil {
		h.respondError(w, "PUT /procedures/{id}", procedureID, err)
		return
	}

	h.logger.Info("PUT /procedures/{id} - Procedure updated: procedure_id=%d", procedureID)
	handlers.RespondJSON(w, http.StatusOK, procedure)
}

// Delete DELETE /api/v1/procedures/{procedureId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	procedureID, ok := h.procedureID(w, r, "DELETE /procedures/{id}")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), procedureID); err != nil {
		h.respondError(w, "DELETE /procedures/{id}", procedureID, err)
		return
	}

	h.logger.Info("DELETE /procedures/{id} - Procedure deleted: procedure_id=%d", procedureID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) procedureID(w http.ResponseWriter, r *http.Request, route string) (int64, bool) {
	id, err := handlers.PathID(r, "procedureId")
	if err != nil {
		h.logger.Warn("%s - Invalid procedure ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidProcedureID)
		return 0, false
	}
	return id, true
}

func (h *Handler) respondError(w http.ResponseWriter, route string, procedureID int64, err error) {
	switch {
	case errors.Is(err, procedures.ErrProcedureNotFound):
		h.logger.Warn("%s - Procedure not found: procedure_id=%d", route, procedureID)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, procedures.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	case errors.Is(err, procedures.ErrInUse):
		h.logger.Warn("%s - Procedure in use: procedure_id=%d", route, procedureID)
		handlers.RespondConflict(w, msgInUse)

	default:
		h.logger.Error("%s - Internal error: procedure_id=%d, error=%v", route, procedureID, err)
		handlers.RespondInternalError(w)
	}
}
