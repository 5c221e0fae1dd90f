package create_appointment

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicService/internal/domain"
	createAppointment "github.com/m04kA/SMC-ClinicService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

var (
	errInvalidDate = errors.New("invalid date")
	errInvalidTime = errors.New("invalid time")
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	PatientID   int64   `json:"patientId"`
	ProcedureID int64   `json:"procedureId"`
	DoctorID    *int64  `json:"doctorId,omitempty"`
	Date        string  `json:"date"`      // "2025-03-14"
	StartTime   string  `json:"startTime"` // "10:00"
	Notes       *string `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              int64    `json:"id"`
	PatientID       int64    `json:"patientId"`
	PatientName     string   `json:"patientName"`
	ProcedureID     int64    `json:"procedureId"`
	ProcedureName   string   `json:"procedureName"`
	DoctorID        *int64   `json:"doctorId,omitempty"`
	Date            string   `json:"date"`
	StartTime       string   `json:"startTime"`
	EndTime         string   `json:"endTime"`
	DurationMinutes int      `json:"durationMinutes"`
	Slots           []string `json:"slots"`
	Value           *float64 `json:"value,omitempty"`
	Status          string   `json:"status"`
	Notes           *string  `json:"notes,omitempty"`
	CreatedAt       string   `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest() (*createAppointment.Request, error) {
	date, err := handlers.ParseDate(r.Date)
	if err != nil {
		return nil, errInvalidDate
	}

	start, err := types.ParseTimeOfDay(r.StartTime)
	if err != nil {
		return nil, errInvalidTime
	}

	return &createAppointment.Request{
		PatientID:   r.PatientID,
		ProcedureID: r.ProcedureID,
		DoctorID:    r.DoctorID,
		Date:        date,
		Start:       start,
		Notes:       r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.ID,
		PatientID:       resp.PatientID,
		PatientName:     resp.PatientName,
		ProcedureID:     resp.ProcedureID,
		ProcedureName:   resp.ProcedureName,
		DoctorID:        resp.DoctorID,
		Date:            resp.Date.Format(domain.DateFormat),
		StartTime:       resp.Start.String(),
		EndTime:         resp.End.String(),
		DurationMinutes: resp.DurationMinutes,
		Slots:           handlers.FormatSlots(resp.Slots),
		Value:           resp.Value,
		Status:          resp.Status,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
	}
}
