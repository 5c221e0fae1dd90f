package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay количество минут в сутках
const MinutesPerDay = 24 * 60

var (
	// ErrInvalidTimeOfDay возвращается при значении вне диапазона 00:00-23:59
	ErrInvalidTimeOfDay = errors.New("invalid time of day")

	// ErrInvalidTimeFormat возвращается при строке не в формате HH:MM
	ErrInvalidTimeFormat = errors.New("invalid time string format")
)

// TimeOfDay время суток с точностью до минуты (минуты от полуночи, 0-1439)
type TimeOfDay int

// NewTimeOfDay создает TimeOfDay из часов и минут
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %02d:%02d", ErrInvalidTimeOfDay, hour, minute)
	}
	return TimeOfDay(hour*60 + minute), nil
}

// MustTimeOfDay как NewTimeOfDay, но паникует при ошибке. Для констант и тестов.
func MustTimeOfDay(hour, minute int) TimeOfDay {
	t, err := NewTimeOfDay(hour, minute)
	if err != nil {
		panic(err)
	}
	return t
}

// FromMinutes создает TimeOfDay из количества минут от полуночи
func FromMinutes(minutes int) (TimeOfDay, error) {
	t := TimeOfDay(minutes)
	if err := t.Validate(); err != nil {
		return 0, err
	}
	return t, nil
}

// ParseTimeOfDay парсит строку "HH:MM"
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[0]) > 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	return NewTimeOfDay(hour, minute)
}

// FromTime извлекает время суток из time.Time (секунды отбрасываются)
func FromTime(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

// Minutes возвращает количество минут от полуночи
func (t TimeOfDay) Minutes() int {
	return int(t)
}

// Validate проверяет инвариант 0 <= t < 1440
func (t TimeOfDay) Validate() error {
	if t < 0 || t >= MinutesPerDay {
		return fmt.Errorf("%w: %d minutes", ErrInvalidTimeOfDay, int(t))
	}
	return nil
}

// AddMinutes прибавляет минуты; результат должен остаться в пределах суток
func (t TimeOfDay) AddMinutes(minutes int) (TimeOfDay, error) {
	return FromMinutes(int(t) + minutes)
}

// IsBefore проверяет, что t раньше other
func (t TimeOfDay) IsBefore(other TimeOfDay) bool {
	return t < other
}

// IsAfter проверяет, что t позже other
func (t TimeOfDay) IsAfter(other TimeOfDay) bool {
	return t > other
}

// On возвращает момент времени t в указанный день
func (t TimeOfDay) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, int(t)/60, int(t)%60, 0, 0, day.Location())
}

// String форматирует как "HH:MM"
func (t TimeOfDay) String() string {
	return FormatMinutes(int(t))
}

// FormatMinutes форматирует произвольное количество минут как "HH:MM".
// Используется для концов интервалов, которые могут выходить за 23:59.
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Value реализует driver.Valuer, в БД хранится количество минут
func (t TimeOfDay) Value() (driver.Value, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return int64(t), nil
}

// Scan реализует sql.Scanner
func (t *TimeOfDay) Scan(src any) error {
	var minutes int64
	switch v := src.(type) {
	case int64:
		minutes = v
	case int32:
		minutes = int64(v)
	case int:
		minutes = int64(v)
	case []byte:
		n, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTimeOfDay, err)
		}
		minutes = n
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidTimeOfDay, src)
	}

	parsed, err := FromMinutes(int(minutes))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
