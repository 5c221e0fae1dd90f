package patient

import "errors"

var (
	// ErrPatientNotFound возвращается, когда пациент не найден
	ErrPatientNotFound = errors.New("patient.repository: patient not found")

	// ErrDuplicate возвращается, когда CPF или email уже принадлежат другому пациенту
	ErrDuplicate = errors.New("patient.repository: duplicate cpf or email")

	ErrBuildQuery = errors.New("patient.repository: failed to build query")
	ErrExecQuery  = errors.New("patient.repository: failed to execute query")
	ErrScanRow    = errors.New("patient.repository: failed to scan row")
)
