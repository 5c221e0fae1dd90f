package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// UpdateStatusRequest запрос на смену статуса записи
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ListAppointmentsRequest запрос списка записей
type ListAppointmentsRequest struct {
	StartDate       *time.Time `json:"startDate,omitempty"`
	EndDate         *time.Time `json:"endDate,omitempty"`
	PatientID       *int64     `json:"patientId,omitempty"`
	ProcedureID     *int64     `json:"procedureId,omitempty"`
	Status          *string    `json:"status,omitempty"`
	IncludeInactive bool       `json:"includeInactive,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListAppointmentsRequest) ToDomainFilter() (domain.AppointmentsFilter, error) {
	filter := domain.AppointmentsFilter{
		StartDay:        r.StartDate,
		EndDay:          r.EndDate,
		PatientID:       r.PatientID,
		ProcedureID:     r.ProcedureID,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID              int64    `json:"id"`
	PatientID       int64    `json:"patientId"`
	PatientName     string   `json:"patientName"`
	ProcedureID     int64    `json:"procedureId"`
	ProcedureName   string   `json:"procedureName"`
	DoctorID        *int64   `json:"doctorId,omitempty"`
	Date            string   `json:"date"`      // "2025-03-14"
	StartTime       string   `json:"startTime"` // "14:30"
	EndTime         string   `json:"endTime"`   // "16:00"
	DurationMinutes int      `json:"durationMinutes"`
	Value           *float64 `json:"value,omitempty"`
	Status          string   `json:"status"`
	Notes           *string  `json:"notes,omitempty"`

	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	return &AppointmentResponse{
		ID:              a.ID,
		PatientID:       a.PatientID,
		PatientName:     a.PatientName,
		ProcedureID:     a.ProcedureID,
		ProcedureName:   a.ProcedureName,
		DoctorID:        a.DoctorID,
		Date:            a.Day.Format(domain.DateFormat),
		StartTime:       a.Start.String(),
		EndTime:         types.FormatMinutes(a.End()),
		DurationMinutes: a.DurationMinutes,
		Value:           a.Value,
		Status:          string(a.Status),
		Notes:           a.Notes,
		CancelledAt:     a.CancelledAt,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// FromDomainAppointments конвертирует список
func FromDomainAppointments(list []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{Appointments: make([]AppointmentResponse, 0, len(list))}
	for _, a := range list {
		resp.Appointments = append(resp.Appointments, *FromDomainAppointment(a))
	}
	return resp
}

// ToDomainStatus проверяет и конвертирует статус
func ToDomainStatus(s string) (domain.AppointmentStatus, error) {
	for _, known := range domain.AllStatuses {
		if string(known) == s {
			return known, nil
		}
	}
	return "", ErrInvalidStatus
}
