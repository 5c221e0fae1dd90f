package check_availability

import "errors"

var (
	// ErrProcedureNotFound возвращается, когда процедура не найдена в каталоге
	ErrProcedureNotFound = errors.New("check_availability: procedure not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("check_availability: invalid input data")

	// ErrPersistence возвращается при ошибках хранилища
	ErrPersistence = errors.New("check_availability: persistence error")
)
