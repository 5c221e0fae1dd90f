package scheduler

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput возвращается при неположительной длительности или шаге, некорректном времени
	// или окне расписания. Значения никогда не подрезаются молча.
	ErrInvalidInput = errors.New("scheduler: invalid input")

	// ErrSchedulingConflict запись не может быть размещена: слоты заняты или выход за рабочее время.
	// Сами функции пакета его не возвращают, конфликт для них обычный результат проверки.
	// Используется теми, кто размещает записи.
	ErrSchedulingConflict = errors.New("scheduler: scheduling conflict")
)

// Причины недоступности слота
const (
	ReasonAfterClosing  = "would end after closing time"
	ReasonBeforeOpening = "would start before opening time"
	ReasonSlotsBooked   = "one or more required slots already booked"
)

// ConflictError конфликт размещения вместе с результатом проверки.
// errors.Is(err, ErrSchedulingConflict) для него true.
type ConflictError struct {
	Result AvailabilityResult
}

func (e *ConflictError) Error() string {
	if len(e.Result.ConflictingSlots) == 0 {
		return fmt.Sprintf("%s: %s", ErrSchedulingConflict, e.Result.Reason)
	}

	slots := make([]string, len(e.Result.ConflictingSlots))
	for i, s := range e.Result.ConflictingSlots {
		slots[i] = s.String()
	}
	return fmt.Sprintf("%s: %s [%s]", ErrSchedulingConflict, e.Result.Reason, strings.Join(slots, ", "))
}

func (e *ConflictError) Unwrap() error {
	return ErrSchedulingConflict
}

// NewConflictError конфликт по результату проверки
func NewConflictError(result AvailabilityResult) *ConflictError {
	return &ConflictError{Result: result}
}
