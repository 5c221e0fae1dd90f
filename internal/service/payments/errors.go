package payments

import "errors"

var (
	// ErrPaymentNotFound возвращается, когда платеж не найден
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrAppointmentNotFound возвращается, когда запись для платежа не найдена
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrDuplicate возвращается при повторном платеже за ту же запись
	ErrDuplicate = errors.New("payment for appointment already exists")

	// ErrInvalidTransition возвращается при недопустимой смене статуса платежа
	ErrInvalidTransition = errors.New("invalid payment status transition")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
