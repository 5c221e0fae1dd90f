package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

// Request модель запроса свободных слотов.
// Длительность задается либо процедурой из каталога, либо явно в минутах.
type Request struct {
	Date            time.Time // Дата (без времени)
	ProcedureID     *int64    // ID процедуры
	DurationMinutes *int      // Длительность в минутах, если процедура не указана
}

// Response модель ответа со списком свободных времен начала
type Response struct {
	Date            time.Time
	ProcedureID     *int64
	DurationMinutes int
	Open            types.TimeOfDay
	Close           types.TimeOfDay
	SlotMinutes     int
	Slots           []types.TimeOfDay // по возрастанию
}
