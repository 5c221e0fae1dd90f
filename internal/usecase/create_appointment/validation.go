package create_appointment

import (
	"fmt"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/internal/scheduler"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.PatientID <= 0 {
		return fmt.Errorf("%w: patientID must be positive", ErrInvalidInput)
	}

	if req.ProcedureID <= 0 {
		return fmt.Errorf("%w: procedureID must be positive", ErrInvalidInput)
	}

	if req.DoctorID != nil && *req.DoctorID <= 0 {
		return fmt.Errorf("%w: doctorID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.Start.Validate(); err != nil {
		return fmt.Errorf("%w: invalid start: %v", ErrInvalidInput, err)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateAlignment проверяет, что начало лежит на сетке окна расписания
func validateAlignment(req *Request, window scheduler.Window) error {
	if !window.IsAligned(req.Start) {
		return fmt.Errorf("%w: %s is not a multiple of %d minutes from %s",
			ErrInvalidTimeSlot, req.Start, window.SlotMinutes, window.Open)
	}
	return nil
}

// validateProcedure проверяет, что длительность процедуры допустима для планирования
func validateProcedure(p *domain.Procedure) error {
	if p.DurationMinutes < domain.MinProcedureDurationMinutes || p.DurationMinutes > domain.MaxProcedureDurationMinutes {
		return fmt.Errorf("%w: procedure %d has unsupported duration %d minutes",
			ErrInvalidInput, p.ID, p.DurationMinutes)
	}
	return nil
}
