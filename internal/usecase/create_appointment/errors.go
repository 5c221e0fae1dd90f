package create_appointment

import "errors"

var (
	// ErrPatientNotFound возвращается, когда пациент не найден
	ErrPatientNotFound = errors.New("create_appointment: patient not found")

	// ErrProcedureNotFound возвращается, когда процедура не найдена в каталоге
	ErrProcedureNotFound = errors.New("create_appointment: procedure not found")

	// ErrInvalidTimeSlot возвращается, когда время начала не лежит на сетке расписания
	ErrInvalidTimeSlot = errors.New("create_appointment: start time is not aligned to the slot grid")

	// ErrSlotBusy возвращается, когда день расписания занят другой операцией
	ErrSlotBusy = errors.New("create_appointment: schedule day is busy, retry later")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrPersistence возвращается при ошибках хранилища, не связанных с конфликтом слотов
	ErrPersistence = errors.New("create_appointment: persistence error")
)
