package check_availability

import (
	"net/http"

	"github.com/m04kA/SMC-ClinicService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicService/internal/domain"
	checkAvailability "github.com/m04kA/SMC-ClinicService/internal/usecase/check_availability"
	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Date             string   `json:"date"`
	StartTime        string   `json:"startTime"`
	EndTime          string   `json:"endTime"`
	DurationMinutes  int      `json:"durationMinutes"`
	Available        bool     `json:"available"`
	Reason           string   `json:"reason,omitempty"`
	ConflictingSlots []string `json:"conflictingSlots"`
	RequiredSlots    []string `json:"requiredSlots"`
}

// ToUseCaseRequest формирует запрос к use case из query параметров
func ToUseCaseRequest(r *http.Request) (*checkAvailability.Request, error) {
	q := r.URL.Query()

	date, err := handlers.ParseDate(q.Get("date"))
	if err != nil {
		return nil, err
	}

	start, err := types.ParseTimeOfDay(q.Get("start"))
	if err != nil {
		return nil, err
	}

	procedureID, err := handlers.QueryInt64(r, "procedureId")
	if err != nil {
		return nil, err
	}

	duration, err := handlers.QueryInt(r, "duration")
	if err != nil {
		return nil, err
	}

	excludeID, err := handlers.QueryInt64(r, "excludeAppointmentId")
	if err != nil {
		return nil, err
	}

	return &checkAvailability.Request{
		Date:            date,
		Start:           start,
		ProcedureID:     procedureID,
		DurationMinutes: duration,
		ExcludeID:       excludeID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkAvailability.Response) *AvailabilityResponse {
	return &AvailabilityResponse{
		Date:             resp.Date.Format(domain.DateFormat),
		StartTime:        resp.Start.String(),
		EndTime:          types.FormatMinutes(resp.Start.Minutes() + resp.DurationMinutes),
		DurationMinutes:  resp.DurationMinutes,
		Available:        resp.Available,
		Reason:           resp.Reason,
		ConflictingSlots: handlers.FormatSlots(resp.ConflictingSlots),
		RequiredSlots:    handlers.FormatSlots(resp.RequiredSlots),
	}
}
