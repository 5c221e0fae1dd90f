package get_patient_appointments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-ClinicService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicService/internal/service/appointments/models"
	"github.com/m04kA/SMC-ClinicService/internal/service/patients"
)

const (
	msgInvalidPatientID = "некорректный ID пациента"
	msgInvalidParams    = "некорректные параметры запроса"
	msgNotFound         = "пациент не найден"
)

type Handler struct {
	appointments AppointmentService
	patients     PatientService
	logger       Logger
}

func NewHandler(appointments AppointmentService, patients PatientService, logger Logger) *Handler {
	return &Handler{
		appointments: appointments,
		patients:     patients,
		logger:       logger,
	}
}

// Handle GET /api/v1/patients/{patientId}/appointments
// История пациента, по умолчанию вместе с отмененными.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	patientID, err := handlers.PathID(r, "patientId")
	if err != nil {
		h.logger.Warn("GET /patients/{id}/appointments - Invalid patient ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPatientID)
		return
	}

	includeInactive := true
	if raw := r.URL.Query().Get("includeInactive"); raw != "" {
		if includeInactive, err = strconv.ParseBool(raw); err != nil {
			h.logger.Warn("GET /patients/{id}/appointments - Invalid includeInactive: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
	}

	// 404 для несуществующего пациента вместо пустого списка
	if _, err := h.patients.GetByID(r.Context(), patientID); err != nil {
		if errors.Is(err, patients.ErrPatientNotFound) {
			h.logger.Warn("GET /patients/{id}/appointments - Patient not found: patient_id=%d", patientID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("GET /patients/{id}/appointments - Failed to get patient: patient_id=%d, error=%v", patientID, err)
		handlers.RespondInternalError(w)
		return
	}

	result, err := h.appointments.List(r.Context(), &models.ListAppointmentsRequest{
		PatientID:       &patientID,
		IncludeInactive: includeInactive,
	})
	if err != nil {
		h.logger.Error("GET /patients/{id}/appointments - Failed to list appointments: patient_id=%d, error=%v", patientID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /patients/{id}/appointments - Appointments retrieved: patient_id=%d, count=%d",
		patientID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
