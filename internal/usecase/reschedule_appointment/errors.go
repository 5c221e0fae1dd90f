package reschedule_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("reschedule_appointment: appointment not found")

	// ErrInvalidStatus возвращается, когда запись уже состоялась или отменена
	ErrInvalidStatus = errors.New("reschedule_appointment: appointment cannot be rescheduled in its current status")

	// ErrInvalidTimeSlot возвращается, когда время начала не лежит на сетке расписания
	ErrInvalidTimeSlot = errors.New("reschedule_appointment: start time is not aligned to the slot grid")

	// ErrSlotBusy возвращается, когда день расписания занят другой операцией
	ErrSlotBusy = errors.New("reschedule_appointment: schedule day is busy, retry later")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_appointment: invalid input data")

	// ErrPersistence возвращается при ошибках хранилища, не связанных с конфликтом слотов
	ErrPersistence = errors.New("reschedule_appointment: persistence error")
)
