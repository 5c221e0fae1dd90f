package reschedule_appointment

import (
	"time"

	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

// Request модель запроса на перенос записи
type Request struct {
	AppointmentID int64
	Date          time.Time       // Новая дата (без времени)
	Start         types.TimeOfDay // Новое время начала
}

// Response модель ответа с перенесенной записью
type Response struct {
	ID              int64
	PreviousDate    time.Time
	PreviousStart   types.TimeOfDay
	Date            time.Time
	Start           types.TimeOfDay
	End             types.TimeOfDay
	DurationMinutes int
	Status          string
	Slots           []types.TimeOfDay
	UpdatedAt       time.Time
}
