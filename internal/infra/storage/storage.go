package storage

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/m04kA/SMC-ClinicService/pkg/dbmetrics"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Dialect диалект SQL базы
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

var ErrUnknownDialect = errors.New("storage: unknown dialect")

// ParseDialect по имени драйвера из конфига
func ParseDialect(driver string) (Dialect, error) {
	switch Dialect(driver) {
	case Postgres, SQLite:
		return Dialect(driver), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDialect, driver)
	}
}

// SupportsRowLocks true, если диалект поддерживает SELECT ... FOR UPDATE.
// SQLite сериализует запись на уровне всей базы, блокировки строк ему не нужны.
func (d Dialect) SupportsRowLocks() bool {
	return d == Postgres
}

// Schema DDL схемы для диалекта
func Schema(d Dialect) (string, error) {
	data, err := migrations.ReadFile("migrations/" + string(d) + ".sql")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownDialect, d)
	}
	return string(data), nil
}

// Migrate применяет схему. Все выражения идемпотентны (IF NOT EXISTS).
func Migrate(ctx context.Context, db dbmetrics.DBExecutor, d Dialect) error {
	schema, err := Schema(d)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply %s schema: %w", d, err)
	}
	return nil
}

// IsUniqueViolation true, если ошибка драйвера означает нарушение UNIQUE или PRIMARY KEY
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}

	return false
}

// FormatDay дата в формате колонок DATE
func FormatDay(t time.Time) string {
	return t.Format("2006-01-02")
}

// IsSerializationFailure true, если транзакция проиграла конкурентной транзакции
// и ее можно повторить: 40001/40P01 в PostgreSQL, SQLITE_BUSY в SQLite.
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code()&0xff == sqlite3.SQLITE_BUSY
	}

	return false
}
