// Package lock сериализует операции записи в пределах одного дня расписания.
//
// Блокировка дня не заменяет проверку на коммите (PRIMARY KEY (day, slot_minute)),
// она только снижает число проигравших транзакций при одновременных записях на один день.
package lock

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrLockNotAcquired возвращается, когда день занят другой операцией дольше допустимого ожидания
	ErrLockNotAcquired = errors.New("lock: day lock not acquired")
)

// DayLocker выполняет fn, удерживая блокировку дня day
type DayLocker interface {
	WithDayLock(ctx context.Context, day time.Time, fn func(ctx context.Context) error) error
}

func dayKey(day time.Time) string {
	return "lock:schedule:" + day.Format("2006-01-02")
}
