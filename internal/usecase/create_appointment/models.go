package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	PatientID   int64           // ID пациента
	ProcedureID int64           // ID процедуры, длительность берется из каталога
	DoctorID    *int64          // ID врача (опционально)
	Date        time.Time       // Дата приема (без времени)
	Start       types.TimeOfDay // Время начала
	Notes       *string         // Заметки (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64
	PatientID       int64
	ProcedureID     int64
	DoctorID        *int64
	Date            time.Time
	Start           types.TimeOfDay
	End             types.TimeOfDay
	DurationMinutes int
	Value           *float64
	Status          string
	Notes           *string

	// Денормализованные данные
	PatientName   string
	ProcedureName string

	// Слоты, занятые записью
	Slots []types.TimeOfDay

	CreatedAt time.Time
}
