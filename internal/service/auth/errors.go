package auth

import "errors"

var (
	// ErrInvalidCredentials неверный email, роль или пароль. Причина наружу не раскрывается.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken токен не прошел проверку
	ErrInvalidToken = errors.New("invalid token")

	// ErrDuplicate email уже зарегистрирован
	ErrDuplicate = errors.New("email already registered")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
