package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if (req.ProcedureID == nil) == (req.DurationMinutes == nil) {
		return fmt.Errorf("%w: exactly one of procedureId or duration is required", ErrInvalidInput)
	}

	if req.ProcedureID != nil && *req.ProcedureID <= 0 {
		return fmt.Errorf("%w: procedureID must be positive", ErrInvalidInput)
	}

	if req.DurationMinutes != nil {
		d := *req.DurationMinutes
		if d < domain.MinProcedureDurationMinutes || d > domain.MaxProcedureDurationMinutes {
			return fmt.Errorf("%w: duration must be between %d and %d minutes",
				ErrInvalidInput, domain.MinProcedureDurationMinutes, domain.MaxProcedureDurationMinutes)
		}
	}

	return nil
}

// isDateInPast проверяет, что день целиком в прошлом относительно now
func isDateInPast(day, now time.Time) bool {
	return day.Before(domain.DateOnly(now))
}
