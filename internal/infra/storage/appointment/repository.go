package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/internal/infra/storage"
	"github.com/m04kA/SMC-ClinicService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

var selectColumns = []string{
	"a.id",
	"a.patient_id",
	"a.procedure_id",
	"a.doctor_id",
	"a.day",
	"a.start_minute",
	"a.duration_minutes",
	"a.value",
	"a.status",
	"a.notes",
	"a.cancelled_at",
	"a.created_at",
	"a.updated_at",
	"p.name",
	"pr.name",
}

// Repository репозиторий записей на прием.
//
// Запись хранится одной строкой в appointments. Занятые ею слоты регистрируются в
// appointment_slots строками (day, slot_minute), которые вычисляются из start_minute и
// duration_minutes и вставляются/удаляются в той же транзакции, что и сама запись.
type Repository struct {
	db      DBExecutor
	dialect storage.Dialect
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor, dialect storage.Dialect) *Repository {
	return &Repository{db: db, dialect: dialect}
}

// Create создает запись и регистрирует ее слоты.
// Должна вызываться внутри транзакции: при ErrSlotTaken транзакцию нужно откатить.
func (r *Repository) Create(ctx context.Context, a *domain.Appointment, slots []types.TimeOfDay) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.CreatedAt

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"patient_id",
			"procedure_id",
			"doctor_id",
			"day",
			"start_minute",
			"duration_minutes",
			"value",
			"status",
			"notes",
			"created_at",
			"updated_at",
		).
		Values(
			a.PatientID,
			a.ProcedureID,
			a.DoctorID,
			storage.FormatDay(a.Day),
			a.Start,
			a.DurationMinutes,
			a.Value,
			string(a.Status),
			a.Notes,
			a.CreatedAt,
			a.UpdatedAt,
		).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&a.ID); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	if err := r.RegisterSlots(ctx, a.ID, a.Day, slots); err != nil {
		return nil, err
	}

	a.Day = domain.DateOnly(a.Day)
	return a, nil
}

// RegisterSlots регистрирует занятые слоты записи.
// Если хоть один слот дня уже зарегистрирован, возвращает ErrSlotTaken.
func (r *Repository) RegisterSlots(ctx context.Context, appointmentID int64, day time.Time, slots []types.TimeOfDay) error {
	if len(slots) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Insert("appointment_slots").
		Columns("appointment_id", "day", "slot_minute")
	for _, s := range slots {
		builder = builder.Values(appointmentID, storage.FormatDay(day), s)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: RegisterSlots - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		if storage.IsUniqueViolation(err) {
			return fmt.Errorf("%w: RegisterSlots - appointment %d on %s", ErrSlotTaken, appointmentID, storage.FormatDay(day))
		}
		return fmt.Errorf("%w: RegisterSlots - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// ReleaseSlots удаляет все регистрации слотов записи
func (r *Repository) ReleaseSlots(ctx context.Context, appointmentID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("appointment_slots").
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ReleaseSlots - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReleaseSlots - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

// SlotsOf возвращает зарегистрированные слоты записи по возрастанию
func (r *Repository) SlotsOf(ctx context.Context, appointmentID int64) ([]types.TimeOfDay, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("slot_minute").
		From("appointment_slots").
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		OrderBy("slot_minute ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: SlotsOf - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: SlotsOf - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]types.TimeOfDay, 0)
	for rows.Next() {
		var s types.TimeOfDay
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("%w: SlotsOf - scan slot: %v", ErrScanRow, err)
		}
		slots = append(slots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: SlotsOf - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.baseSelect().
		Where(squirrel.Eq{"a.id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return a, nil
}

// List получает записи по фильтру, отсортированные по дате и времени начала.
// Без Status и IncludeInactive отмененные и неявки не возвращаются.
func (r *Repository) List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.baseSelect()

	if filter.StartDay != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"a.day": storage.FormatDay(*filter.StartDay)})
	}
	if filter.EndDay != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"a.day": storage.FormatDay(*filter.EndDay)})
	}
	if filter.PatientID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"a.patient_id": *filter.PatientID})
	}
	if filter.ProcedureID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"a.procedure_id": *filter.ProcedureID})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"a.status": string(*filter.Status)})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"a.status": statusStrings(domain.InactiveStatuses)})
	}

	selectBuilder = selectBuilder.OrderBy("a.day ASC", "a.start_minute ASC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// ListActiveForDay получает активные записи дня, которые занимают слоты.
// excludeID исключает запись (для переноса). Внутри транзакции в Postgres строки блокируются FOR UPDATE.
func (r *Repository) ListActiveForDay(ctx context.Context, day time.Time, excludeID *int64) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"day",
		"start_minute",
		"duration_minutes",
		"status",
	).
		From("appointments").
		Where(squirrel.Eq{"day": storage.FormatDay(day)}).
		Where(squirrel.NotEq{"status": statusStrings(domain.InactiveStatuses)}).
		OrderBy("start_minute ASC")

	if excludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *excludeID})
	}

	if dbmetrics.IsInTransaction(ctx) && r.dialect.SupportsRowLocks() {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveForDay - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveForDay - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		var a domain.Appointment
		if err := rows.Scan(&a.ID, &a.Day, &a.Start, &a.DurationMinutes, &a.Status); err != nil {
			return nil, fmt.Errorf("%w: ListActiveForDay - scan row: %v", ErrScanRow, err)
		}
		a.Day = domain.DateOnly(a.Day)
		appointments = append(appointments, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveForDay - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

// UpdateStatus переводит запись из статуса from в статус to.
// Если статус к моменту записи уже другой, возвращает ErrStatusChanged.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.AppointmentStatus, at time.Time) error {
	update := psqlbuilder.Update("appointments").
		Set("status", string(to)).
		Set("updated_at", at.UTC())

	if to == domain.StatusCancelled {
		update = update.Set("cancelled_at", at.UTC())
	}

	update = update.Where(squirrel.Eq{"id": id, "status": string(from)})

	return r.execGuardedUpdate(ctx, "UpdateStatus", id, update)
}

// Reschedule переносит предстоящую запись на другой день и время. Слоты нужно перерегистрировать отдельно.
// Для отмененной или завершенной записи возвращает ErrStatusChanged.
func (r *Repository) Reschedule(ctx context.Context, id int64, day time.Time, start types.TimeOfDay, at time.Time) error {
	update := psqlbuilder.Update("appointments").
		Set("day", storage.FormatDay(day)).
		Set("start_minute", start).
		Set("updated_at", at.UTC()).
		Where(squirrel.Eq{"id": id, "status": statusStrings(domain.UpcomingStatuses)})

	return r.execGuardedUpdate(ctx, "Reschedule", id, update)
}

// Delete удаляет запись вместе с регистрациями ее слотов.
// Вызывать в транзакции, чтобы удаление было атомарным.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ReleaseSlots(ctx, id); err != nil {
		return err
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("appointments").
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
		return ErrAppointmentNotFound
	}

	return nil
}

// CountActiveByPatient количество активных записей пациента
func (r *Repository) CountActiveByPatient(ctx context.Context, patientID int64) (int, error) {
	return r.count(ctx, "CountActiveByPatient", squirrel.And{
		squirrel.Eq{"patient_id": patientID},
		squirrel.Eq{"status": statusStrings(domain.UpcomingStatuses)},
	})
}

// CountByPatient количество записей пациента любого статуса
func (r *Repository) CountByPatient(ctx context.Context, patientID int64) (int, error) {
	return r.count(ctx, "CountByPatient", squirrel.Eq{"patient_id": patientID})
}

// CountByProcedure количество записей (любого статуса), ссылающихся на процедуру
func (r *Repository) CountByProcedure(ctx context.Context, procedureID int64) (int, error) {
	return r.count(ctx, "CountByProcedure", squirrel.Eq{"procedure_id": procedureID})
}

func (r *Repository) count(ctx context.Context, op string, where squirrel.Sqlizer) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("appointments").
		Where(where).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var n int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %s - scan count: %v", ErrScanRow, op, err)
	}

	return n, nil
}

func (r *Repository) execUpdate(ctx context.Context, op string, update squirrel.UpdateBuilder) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := update.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// execGuardedUpdate как execUpdate, но отличает отсутствующую запись от записи,
// не прошедшей условие по статусу
func (r *Repository) execGuardedUpdate(ctx context.Context, op string, id int64, update squirrel.UpdateBuilder) error {
	err := r.execUpdate(ctx, op, update)
	if !errors.Is(err, ErrAppointmentNotFound) {
		return err
	}

	n, err := r.count(ctx, op, squirrel.Eq{"id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAppointmentNotFound
	}
	return ErrStatusChanged
}

func (r *Repository) baseSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(selectColumns...).
		From("appointments a").
		Join("patients p ON p.id = a.patient_id").
		Join("procedures pr ON pr.id = a.procedure_id")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var a domain.Appointment

	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.ProcedureID,
		&a.DoctorID,
		&a.Day,
		&a.Start,
		&a.DurationMinutes,
		&a.Value,
		&a.Status,
		&a.Notes,
		&a.CancelledAt,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.PatientName,
		&a.ProcedureName,
	)
	if err != nil {
		return nil, err
	}

	a.Day = domain.DateOnly(a.Day)
	return &a, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

func statusStrings(statuses []domain.AppointmentStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
