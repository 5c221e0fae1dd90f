package check_availability

import (
	"time"

	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

// Request модель запроса проверки доступности
type Request struct {
	Date            time.Time
	Start           types.TimeOfDay
	ProcedureID     *int64 // длительность из каталога
	DurationMinutes *int   // или явно
	ExcludeID       *int64 // не учитывать эту запись (проверка перед переносом)
}

// Response результат проверки. Недоступность не является ошибкой.
type Response struct {
	Date             time.Time
	Start            types.TimeOfDay
	End              types.TimeOfDay
	DurationMinutes  int
	Available        bool
	ConflictingSlots []types.TimeOfDay
	Reason           string
	RequiredSlots    []types.TimeOfDay
}
