package scheduler

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

// OpeningPolicy определяет, проверяется ли начало записи относительно времени открытия
type OpeningPolicy int

const (
	// OpeningLenient начало раньше открытия не проверяется, проверяется только окончание
	OpeningLenient OpeningPolicy = iota
	// OpeningEnforced запись не может начинаться раньше открытия
	OpeningEnforced
)

// ParseOpeningPolicy разбирает значение из конфига: "lenient" или "enforce"
func ParseOpeningPolicy(s string) (OpeningPolicy, error) {
	switch s {
	case "", "lenient":
		return OpeningLenient, nil
	case "enforce", "enforced":
		return OpeningEnforced, nil
	default:
		return OpeningLenient, fmt.Errorf("%w: unknown opening policy %q", ErrInvalidInput, s)
	}
}

func (p OpeningPolicy) String() string {
	if p == OpeningEnforced {
		return "enforce"
	}
	return "lenient"
}

// Window рабочее окно клиники на день
type Window struct {
	Open        types.TimeOfDay
	Close       types.TimeOfDay
	SlotMinutes int
	Opening     OpeningPolicy
}

// DefaultWindow 08:00-18:00 с шагом 30 минут
func DefaultWindow() Window {
	return Window{
		Open:        types.MustTimeOfDay(8, 0),
		Close:       types.MustTimeOfDay(18, 0),
		SlotMinutes: 30,
		Opening:     OpeningLenient,
	}
}

// Validate проверяет окно: open < close, шаг положительный
func (w Window) Validate() error {
	if err := w.Open.Validate(); err != nil {
		return fmt.Errorf("%w: open: %v", ErrInvalidInput, err)
	}
	// close может быть равен 24:00
	if w.Close <= 0 || w.Close.Minutes() > types.MinutesPerDay {
		return fmt.Errorf("%w: close %d out of range", ErrInvalidInput, w.Close.Minutes())
	}
	if w.Open >= w.Close {
		return fmt.Errorf("%w: open %s must be before close %s", ErrInvalidInput, w.Open, types.FormatMinutes(w.Close.Minutes()))
	}
	if w.SlotMinutes <= 0 {
		return fmt.Errorf("%w: slot granularity must be positive, got %d", ErrInvalidInput, w.SlotMinutes)
	}
	return nil
}

// IsAligned true, если start попадает на сетку слотов, отсчитанную от времени открытия
func (w Window) IsAligned(start types.TimeOfDay) bool {
	return (start.Minutes()-w.Open.Minutes())%w.SlotMinutes == 0
}

// Booking существующая запись на день.
// Занятые слоты не хранятся, а выводятся из Start и DurationMinutes (см. OccupiedSlots).
type Booking struct {
	Day             time.Time
	Start           types.TimeOfDay
	DurationMinutes int
}

// OccupiedSlots все слоты, которые занимает запись
func (b Booking) OccupiedSlots(granularityMinutes int) ([]types.TimeOfDay, error) {
	return ExpandSlots(b.Start, b.DurationMinutes, granularityMinutes)
}

// AvailabilityResult результат проверки доступности. Создается на каждый вызов и нигде не хранится.
type AvailabilityResult struct {
	Available        bool
	ConflictingSlots []types.TimeOfDay
	Reason           string
}
