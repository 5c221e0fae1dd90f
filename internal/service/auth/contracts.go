package auth

import (
	"context"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
)

// UserRepository интерфейс репозитория сотрудников
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Metrics счетчик попыток входа
type Metrics interface {
	ObserveLogin(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
