package txmanager

import (
	"context"
	"database/sql"

	"github.com/m04kA/SMC-ClinicService/pkg/dbmetrics"
)

// TransactionManager открывает транзакции и передает их через контекст.
// Репозитории получают транзакцию через dbmetrics.GetExecutor.
type TransactionManager struct {
	db dbmetrics.TxBeginner
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db dbmetrics.TxBeginner) *TransactionManager {
	return &TransactionManager{db: db}
}

// Do выполняет fn в транзакции с уровнем изоляции по умолчанию
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return dbmetrics.RunInTx(ctx, m.db, nil, fn)
}

// DoSerializable выполняет fn в сериализуемой транзакции.
// Используется для связки "проверка доступности + запись".
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return dbmetrics.RunInTx(ctx, m.db, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

// DoReadOnly выполняет fn в транзакции только для чтения
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return dbmetrics.RunInTx(ctx, m.db, &sql.TxOptions{ReadOnly: true}, fn)
}
