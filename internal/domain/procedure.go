package domain

import "time"

// Procedure процедура из каталога клиники.
// DurationMinutes определяет, сколько слотов расписания займет запись.
type Procedure struct {
	ID              int64
	Name            string
	Description     *string
	Value           float64
	DurationMinutes int
	Materials       *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
