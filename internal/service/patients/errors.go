package patients

import "errors"

var (
	// ErrPatientNotFound возвращается, когда пациент не найден
	ErrPatientNotFound = errors.New("patient not found")

	// ErrDuplicate возвращается, когда CPF или email уже зарегистрированы
	ErrDuplicate = errors.New("cpf or email already registered")

	// ErrHasActiveAppointments возвращается при удалении пациента с предстоящими записями
	ErrHasActiveAppointments = errors.New("patient has active appointments")

	// ErrHasHistory возвращается при удалении пациента, у которого есть история записей
	ErrHasHistory = errors.New("patient has appointment history")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
