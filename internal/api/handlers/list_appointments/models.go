package list_appointments

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-ClinicService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicService/internal/service/appointments/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров.
// date задает один день и перекрывает startDate/endDate.
func ToServiceRequest(r *http.Request) (*models.ListAppointmentsRequest, error) {
	q := r.URL.Query()
	req := &models.ListAppointmentsRequest{}

	var err error
	if req.StartDate, err = handlers.QueryDate(r, "startDate"); err != nil {
		return nil, err
	}
	if req.EndDate, err = handlers.QueryDate(r, "endDate"); err != nil {
		return nil, err
	}

	day, err := handlers.QueryDate(r, "date")
	if err != nil {
		return nil, err
	}
	if day != nil {
		req.StartDate = day
		req.EndDate = day
	}

	if req.PatientID, err = handlers.QueryInt64(r, "patientId"); err != nil {
		return nil, err
	}
	if req.ProcedureID, err = handlers.QueryInt64(r, "procedureId"); err != nil {
		return nil, err
	}

	if status := q.Get("status"); status != "" {
		req.Status = &status
	}

	if raw := q.Get("includeInactive"); raw != "" {
		includeInactive, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
