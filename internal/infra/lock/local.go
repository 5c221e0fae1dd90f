package lock

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Local блокировка дня внутри одного процесса. Используется, когда Redis выключен.
type Local struct {
	mu      sync.Mutex
	entries map[string]*localEntry
	wait    time.Duration
}

type localEntry struct {
	ch   chan struct{}
	refs int
}

// NewLocal создает блокировку. wait ограничивает ожидание занятого дня.
func NewLocal(wait time.Duration) *Local {
	return &Local{
		entries: make(map[string]*localEntry),
		wait:    wait,
	}
}

func (l *Local) WithDayLock(ctx context.Context, day time.Time, fn func(ctx context.Context) error) error {
	key := dayKey(day)
	entry := l.acquireEntry(key)
	defer l.releaseEntry(key)

	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	select {
	case entry.ch <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return fmt.Errorf("%w: %s busy for %s", ErrLockNotAcquired, key, l.wait)
	}
	defer func() { <-entry.ch }()

	return fn(ctx)
}

func (l *Local) acquireEntry(key string) *localEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		e = &localEntry{ch: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	return e
}

func (l *Local) releaseEntry(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := l.entries[key]
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}
