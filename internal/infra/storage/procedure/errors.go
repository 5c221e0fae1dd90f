package procedure

import "errors"

var (
	// ErrProcedureNotFound возвращается, когда процедура не найдена в каталоге
	ErrProcedureNotFound = errors.New("procedure.repository: procedure not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("procedure.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("procedure.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("procedure.repository: failed to scan row")
)
