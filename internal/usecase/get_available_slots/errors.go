package get_available_slots

import "errors"

var (
	// ErrProcedureNotFound возвращается, когда процедура не найдена в каталоге
	ErrProcedureNotFound = errors.New("get_available_slots: procedure not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrPersistence возвращается при ошибках хранилища
	ErrPersistence = errors.New("get_available_slots: persistence error")
)
