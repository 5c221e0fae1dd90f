package scheduler

import (
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

// Все функции пакета чистые: не хранят состояние между вызовами, не изменяют входные данные
// и безопасны для одновременного вызова из разных горутин.

// ExpandSlots возвращает упорядоченные начала слотов, которые занимает интервал
// [start, start+duration). Последний слот занимается целиком, даже если длительность
// не кратна шагу, поэтому слотов всегда ceil(duration/granularity).
func ExpandSlots(start types.TimeOfDay, durationMinutes, granularityMinutes int) ([]types.TimeOfDay, error) {
	if err := start.Validate(); err != nil {
		return nil, fmt.Errorf("%w: start: %v", ErrInvalidInput, err)
	}
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidInput, durationMinutes)
	}
	if granularityMinutes <= 0 {
		return nil, fmt.Errorf("%w: granularity must be positive, got %d", ErrInvalidInput, granularityMinutes)
	}

	end := start.Minutes() + durationMinutes
	if end > types.MinutesPerDay {
		return nil, fmt.Errorf("%w: %s + %d minutes crosses midnight", ErrInvalidInput, start, durationMinutes)
	}

	slots := make([]types.TimeOfDay, 0, (durationMinutes+granularityMinutes-1)/granularityMinutes)
	for offset := start.Minutes(); offset < end; offset += granularityMinutes {
		slots = append(slots, types.TimeOfDay(offset))
	}
	return slots, nil
}

// CheckAvailability проверяет, можно ли разместить запись длительностью durationMinutes
// с началом в start в день day, не выходя за рабочее время и не пересекаясь с bookings.
//
// Конфликт не является ошибкой: он возвращается как AvailabilityResult с Available=false.
// Ошибка возвращается только при некорректных входных данных (ErrInvalidInput).
// Записи других дней в bookings игнорируются; отмененные записи должен отфильтровать вызывающий.
func CheckAvailability(
	start types.TimeOfDay,
	durationMinutes int,
	day time.Time,
	bookings []Booking,
	window Window,
) (AvailabilityResult, error) {
	if err := validateQuery(durationMinutes, window); err != nil {
		return AvailabilityResult{}, err
	}
	if err := start.Validate(); err != nil {
		return AvailabilityResult{}, fmt.Errorf("%w: start: %v", ErrInvalidInput, err)
	}

	occupied, err := occupiedSlots(day, bookings, window.SlotMinutes)
	if err != nil {
		return AvailabilityResult{}, err
	}

	return check(start, durationMinutes, occupied, window), nil
}

// FreeSlots перечисляет в порядке возрастания все времена начала на сетке окна, с которых
// запись длительностью durationMinutes может быть размещена в день day.
//
// Последовательность ленивая и конечная. Каждый проход по ней вычисляет результат заново,
// поэтому ее можно обходить повторно и получать тот же результат.
func FreeSlots(
	durationMinutes int,
	day time.Time,
	bookings []Booking,
	window Window,
) (iter.Seq[types.TimeOfDay], error) {
	if err := validateQuery(durationMinutes, window); err != nil {
		return nil, err
	}

	occupied, err := occupiedSlots(day, bookings, window.SlotMinutes)
	if err != nil {
		return nil, err
	}

	return func(yield func(types.TimeOfDay) bool) {
		for t := window.Open.Minutes(); t < window.Close.Minutes(); t += window.SlotMinutes {
			candidate := types.TimeOfDay(t)
			if !check(candidate, durationMinutes, occupied, window).Available {
				continue
			}
			if !yield(candidate) {
				return
			}
		}
	}, nil
}

// ListFreeSlots то же, что FreeSlots, но сразу собирает результат в слайс
func ListFreeSlots(
	durationMinutes int,
	day time.Time,
	bookings []Booking,
	window Window,
) ([]types.TimeOfDay, error) {
	seq, err := FreeSlots(durationMinutes, day, bookings, window)
	if err != nil {
		return nil, err
	}
	slots := slices.Collect(seq)
	if slots == nil {
		slots = []types.TimeOfDay{}
	}
	return slots, nil
}

func validateQuery(durationMinutes int, window Window) error {
	if err := window.Validate(); err != nil {
		return err
	}
	if durationMinutes <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidInput, durationMinutes)
	}
	return nil
}

// occupiedSlots объединение занятых слотов всех записей дня day
func occupiedSlots(day time.Time, bookings []Booking, granularity int) (map[types.TimeOfDay]struct{}, error) {
	occupied := make(map[types.TimeOfDay]struct{})
	y, m, d := day.Date()

	for i, b := range bookings {
		by, bm, bd := b.Day.Date()
		if by != y || bm != m || bd != d {
			continue
		}

		slots, err := b.OccupiedSlots(granularity)
		if err != nil {
			return nil, fmt.Errorf("booking #%d at %s: %w", i, b.Start, err)
		}
		for _, s := range slots {
			occupied[s] = struct{}{}
		}
	}

	return occupied, nil
}

// check входные данные уже проверены
func check(start types.TimeOfDay, durationMinutes int, occupied map[types.TimeOfDay]struct{}, window Window) AvailabilityResult {
	end := start.Minutes() + durationMinutes
	if end > window.Close.Minutes() {
		return AvailabilityResult{
			Available:        false,
			ConflictingSlots: []types.TimeOfDay{},
			Reason:           ReasonAfterClosing,
		}
	}

	if window.Opening == OpeningEnforced && start < window.Open {
		return AvailabilityResult{
			Available:        false,
			ConflictingSlots: []types.TimeOfDay{},
			Reason:           ReasonBeforeOpening,
		}
	}

	conflicts := []types.TimeOfDay{}
	for offset := start.Minutes(); offset < end; offset += window.SlotMinutes {
		slot := types.TimeOfDay(offset)
		if _, taken := occupied[slot]; taken {
			conflicts = append(conflicts, slot)
		}
	}

	if len(conflicts) > 0 {
		return AvailabilityResult{
			Available:        false,
			ConflictingSlots: conflicts,
			Reason:           ReasonSlotsBooked,
		}
	}

	return AvailabilityResult{Available: true, ConflictingSlots: []types.TimeOfDay{}}
}
