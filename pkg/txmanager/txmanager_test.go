package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/m04kA/SMC-ClinicService/pkg/dbmetrics"
)

func setupDB(t *testing.T) *dbmetrics.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	_, err = sqlDB.Exec(`CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`)
	require.NoError(t, err)

	return dbmetrics.Wrap(sqlDB, nil)
}

func countItems(t *testing.T, db *dbmetrics.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM items`).Scan(&n))
	return n
}

func TestTransactionManager_Commit(t *testing.T) {
	db := setupDB(t)
	tm := NewTransactionManager(db)

	err := tm.DoSerializable(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		_, err := dbmetrics.GetExecutor(ctx, db).ExecContext(ctx, `INSERT INTO items (name) VALUES ($1)`, "gauze")
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, 1, countItems(t, db))
}

func TestTransactionManager_RollbackOnError(t *testing.T) {
	db := setupDB(t)
	tm := NewTransactionManager(db)
	errBoom := errors.New("boom")

	err := tm.Do(context.Background(), func(ctx context.Context) error {
		if _, err := dbmetrics.GetExecutor(ctx, db).ExecContext(ctx, `INSERT INTO items (name) VALUES ($1)`, "gauze"); err != nil {
			return err
		}
		return errBoom
	})

	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 0, countItems(t, db))
}

func TestTransactionManager_NestedJoinsOuter(t *testing.T) {
	db := setupDB(t)
	tm := NewTransactionManager(db)
	errBoom := errors.New("boom")

	err := tm.Do(context.Background(), func(ctx context.Context) error {
		inner := tm.Do(ctx, func(ctx context.Context) error {
			_, err := dbmetrics.GetExecutor(ctx, db).ExecContext(ctx, `INSERT INTO items (name) VALUES ($1)`, "syringe")
			return err
		})
		require.NoError(t, inner)
		return errBoom
	})

	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 0, countItems(t, db))
}
