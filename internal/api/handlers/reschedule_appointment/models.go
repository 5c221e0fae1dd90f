package reschedule_appointment

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicService/internal/domain"
	rescheduleAppointment "github.com/m04kA/SMC-ClinicService/internal/usecase/reschedule_appointment"
	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

var (
	errInvalidDate = errors.New("invalid date")
	errInvalidTime = errors.New("invalid time")
)

// RescheduleRequest HTTP request model
type RescheduleRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
}

// RescheduleResponse HTTP response model
type RescheduleResponse struct {
	ID                int64    `json:"id"`
	PreviousDate      string   `json:"previousDate"`
	PreviousStartTime string   `json:"previousStartTime"`
	Date              string   `json:"date"`
	StartTime         string   `json:"startTime"`
	EndTime           string   `json:"endTime"`
	DurationMinutes   int      `json:"durationMinutes"`
	Status            string   `json:"status"`
	Slots             []string `json:"slots"`
	UpdatedAt         string   `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleRequest) ToUseCaseRequest(appointmentID int64) (*rescheduleAppointment.Request, error) {
	date, err := handlers.ParseDate(r.Date)
	if err != nil {
		return nil, errInvalidDate
	}

	start, err := types.ParseTimeOfDay(r.StartTime)
	if err != nil {
		return nil, errInvalidTime
	}

	return &rescheduleAppointment.Request{
		AppointmentID: appointmentID,
		Date:          date,
		Start:         start,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleAppointment.Response) *RescheduleResponse {
	return &RescheduleResponse{
		ID:                resp.ID,
		PreviousDate:      resp.PreviousDate.Format(domain.DateFormat),
		PreviousStartTime: resp.PreviousStart.String(),
		Date:              resp.Date.Format(domain.DateFormat),
		StartTime:         resp.Start.String(),
		EndTime:           resp.End.String(),
		DurationMinutes:   resp.DurationMinutes,
		Status:            resp.Status,
		Slots:             handlers.FormatSlots(resp.Slots),
		UpdatedAt:         resp.UpdatedAt.Format(time.RFC3339),
	}
}
