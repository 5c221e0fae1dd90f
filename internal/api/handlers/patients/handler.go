// Package patients HTTP обработчики карточек пациентов
package patients

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicService/internal/service/patients"
	"github.com/m04kA/SMC-ClinicService/internal/service/patients/models"
)

const (
	msgInvalidPatientID      = "некорректный ID пациента"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidInput          = "некорректные данные пациента"
	msgNotFound              = "пациент не найден"
	msgDuplicate             = "пациент с таким CPF или email уже существует"
	msgHasActiveAppointments = "у пациента есть активные записи"
	msgHasHistory            = "у пациента есть история записей, удаление невозможно"
)

type Handler struct {
	service PatientService
	logger  Logger
}

func NewHandler(service PatientService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Create POST /api/v1/patients
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.PatientRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /patients - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	patient, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.respondError(w, "POST /patients", 0, err)
		return
	}

	h.logger.Info("POST /patients - Patient created: patient_id=%d", patient.ID)
	handlers.RespondJSON(w, http.StatusCreated, patient)
}

// List GET /api/v1/patients?search=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		h.respondError(w, "GET /patients", 0, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Get GET /api/v1/patients/{patientId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	patientID, ok := h.patientID(w, r, "GET /patients/{id}")
	if !ok {
		return
	}

	patient, err := h.service.GetByID(r.Context(), patientID)
	if err != nil {
		h.respondError(w, "GET /patients/{id}", patientID, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, patient)
}

// Update PUT /api/v1/patients/{patientId}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	patientID, ok := h.patientID(w, r, "PUT /patients/{id}")
	if !ok {
		return
	}

	var req models.PatientRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /patients/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	patient, err := h.service.Update(r.Context(), patientID, &req)
	if err != nil {
		h.respondError(w, "PUT /patients/{id}", patientID, err)
		return
	}

	h.logger.Info("PUT /patients/{id} - Patient updated: patient_id=%d", patientID)
	handlers.RespondJSON(w, http.StatusOK, patient)
}

// Delete DELETE /api/v1/patients/{patientId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	patientID, ok := h.patientID(w, r, "DELETE /patients/{id}")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), patientID); err != nil {
		h.respondError(w, "DELETE /patients/{id}", patientID, err)
		return
	}

	h.logger.Info("DELETE /patients/{id} - Patient deleted: patient_id=%d", patientID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) patientID(w http.ResponseWriter, r *http.Request, route string) (int64, bool) {
	id, err := handlers.PathID(r, "patientId")
	if err != nil {
		h.logger.Warn("%s - Invalid patient ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidPatientID)
		return 0, false
	}
	return id, true
}

func (h *Handler) respondError(w http.ResponseWriter, route string, patientID int64, err error) {
	switch {
	case errors.Is(err, patients.ErrPatientNotFound):
		h.logger.Warn("%s - Patient not found: patient_id=%d", route, patientID)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, patients.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	case errors.Is(err, patients.ErrDuplicate):
		h.logger.Warn("%s - Duplicate patient", route)
		handlers.RespondConflict(w, msgDuplicate)

	case errors.Is(err, patients.ErrHasActiveAppointments):
		h.logger.Warn("%s - Patient has active appointments: patient_id=%d", route, patientID)
		handlers.RespondConflict(w, msgHasActiveAppointments)

	case errors.Is(err, patients.ErrHasHistory):
		h.logger.Warn("%s - Patient has appointment history: patient_id=%d", route, patientID)
		handlers.RespondConflict(w, msgHasHistory)

	default:
		h.logger.Error("%s - Internal error: patient_id=%d, error=%v", route, patientID, err)
		handlers.RespondInternalError(w)
	}
}
