// Package storagetest поднимает SQLite в памяти со схемой сервиса для тестов репозиториев.
package storagetest

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/m04kA/SMC-ClinicService/internal/infra/storage"
	"github.com/m04kA/SMC-ClinicService/pkg/dbmetrics"
)

// NewDB открывает чистую базу. Одно соединение: у каждого соединения :memory: своя база.
func NewDB(t *testing.T) *dbmetrics.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)&_time_format=sqlite")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db := dbmetrics.Wrap(sqlDB, nil)
	require.NoError(t, storage.Migrate(context.Background(), db, storage.SQLite))

	return db
}

// Exec выполняет произвольный SQL для подготовки данных
func Exec(t *testing.T, db dbmetrics.DBExecutor, query string, args ...any) {
	t.Helper()
	_, err := db.ExecContext(context.Background(), query, args...)
	require.NoError(t, err)
}

// Day календарный день в UTC
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
