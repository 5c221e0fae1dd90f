package patient

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/internal/infra/storage"
	"github.com/m04kA/SMC-ClinicService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicService/pkg/psqlbuilder"
)

var selectColumns = []string{
	"id",
	"name",
	"email",
	"phone",
	"cpf",
	"birth_date",
	"address",
	"city",
	"state",
	"zip_code",
	"notes",
	"created_at",
	"updated_at",
}

// Repository репозиторий пациентов
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает карточку пациента
func (r *Repository) Create(ctx context.Context, p *domain.Patient) (*domain.Patient, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.CreatedAt

	query, args, err := psqlbuilder.Insert("patients").
		Columns(
			"name",
			"email",
			"phone",
			"cpf",
			"birth_date",
			"address",
			"city",
			"state",
			"zip_code",
			"notes",
			"created_at",
			"updated_at",
		).
		Values(
			p.Name,
			p.Email,
			p.Phone,
			p.CPF,
			formatBirthDate(p.BirthDate),
			p.Address,
			p.City,
			p.State,
			p.ZipCode,
			p.Notes,
			p.CreatedAt,
			p.UpdatedAt,
		).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&p.ID); err != nil {
		if storage.IsUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return p, nil
}

// GetByID получает пациента по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Patient, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(selectColumns...).
		From("patients").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	p, err := scanPatient(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan patient: %v", ErrScanRow, err)
	}

	return p, nil
}

// List возвращает пациентов по алфавиту. search фильтрует по вхождению в имя без учета регистра.
func (r *Repository) List(ctx context.Context, search string) ([]*domain.Patient, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(selectColumns...).
		From("patients").
		OrderBy("name ASC", "id ASC")

	if search = strings.TrimSpace(search); search != "" {
		selectBuilder = selectBuilder.Where(squirrel.Expr("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%"))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	patients := make([]*domain.Patient, 0)
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		patients = append(patients, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return patients, nil
}

// Update перезаписывает все поля карточки
func (r *Repository) Update(ctx context.Context, p *domain.Patient) (*domain.Patient, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	p.UpdatedAt = time.Now().UTC()

	query, args, err := psqlbuilder.Update("patients").
		Set("name", p.Name).
		Set("email", p.Email).
		Set("phone", p.Phone).
		Set("cpf", p.CPF).
		Set("birth_date", formatBirthDate(p.BirthDate)).
		Set("address", p.Address).
		Set("city", p.City).
		Set("state", p.State).
		Set("zip_code", p.ZipCode).
		Set("notes", p.Notes).
		Set("updated_at", p.UpdatedAt).
		Where(squirrel.Eq{"id": p.ID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return nil, ErrPatientNotFound
	}

	return r.GetByID(ctx, p.ID)
}

// Delete удаляет пациента
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("patients").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrPatientNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPatient(row rowScanner) (*domain.Patient, error) {
	var p domain.Patient

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Email,
		&p.Phone,
		&p.CPF,
		&p.BirthDate,
		&p.Address,
		&p.City,
		&p.State,
		&p.ZipCode,
		&p.Notes,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if p.BirthDate != nil {
		d := domain.DateOnly(*p.BirthDate)
		p.BirthDate = &d
	}
	return &p, nil
}

func formatBirthDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := storage.FormatDay(*t)
	return &s
}
