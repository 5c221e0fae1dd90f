package domain

// Параметры расписания по умолчанию
const (
	DefaultOpenMinute             = 8 * 60  // 08:00
	DefaultCloseMinute            = 18 * 60 // 18:00
	DefaultSlotGranularityMinutes = 30
)

// Ограничения бизнес-валидации
const (
	MinProcedureDurationMinutes = 5
	MaxProcedureDurationMinutes = 600
	MaxNotesLength              = 1000
	MaxNameLength               = 200
)

// Форматы даты и времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses статусы записей, которые не занимают слоты.
// Отфильтровываются вызывающей стороной перед проверкой доступности.
var InactiveStatuses = []AppointmentStatus{
	StatusCancelled,
	StatusNoShow,
}

// ActiveStatuses статусы записей, занимающих слоты
var ActiveStatuses = []AppointmentStatus{
	StatusScheduled,
	StatusConfirmed,
	StatusDone,
}

// UpcomingStatuses статусы предстоящих записей: их можно перенести или отменить
var UpcomingStatuses = []AppointmentStatus{
	StatusScheduled,
	StatusConfirmed,
}

// AllStatuses все допустимые статусы записи
var AllStatuses = []AppointmentStatus{
	StatusScheduled,
	StatusConfirmed,
	StatusDone,
	StatusNoShow,
	StatusCancelled,
}
