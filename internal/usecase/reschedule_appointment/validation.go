package reschedule_appointment

import (
	"fmt"

	"github.com/m04kA/SMC-ClinicService/internal/scheduler"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, window scheduler.Window) error {
	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.Start.Validate(); err != nil {
		return fmt.Errorf("%w: invalid start: %v", ErrInvalidInput, err)
	}

	if !window.IsAligned(req.Start) {
		return fmt.Errorf("%w: %s is not a multiple of %d minutes from %s",
			ErrInvalidTimeSlot, req.Start, window.SlotMinutes, window.Open)
	}

	return nil
}
