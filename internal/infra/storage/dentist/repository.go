package dentist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-DentalService/internal/domain"
	"github.com/m04kA/SMC-DentalService/internal/filter"
	"github.com/m04kA/SMC-DentalService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DentalService/pkg/psqlbuilder"
)

var dentistColumns = []string{
	"d.id",
	"d.account_id",
	"d.full_name",
	"d.license_number",
	"d.specialization",
	"d.active",
	"d.created_at",
	"d.updated_at",
}

var scheduleColumns = []string{
	"id",
	"dentist_id",
	"weekday",
	"start_time",
	"end_time",
	"created_at",
}

// Repository репозиторий стоматологов и их расписаний
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает стоматолога по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Dentist, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate получает стоматолога и блокирует строку до конца транзакции
// Блокировка сериализует запись на приём к одному стоматологу
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Dentist, error) {
	return r.getByID(ctx, id, dbmetrics.IsInTransaction(ctx))
}

func (r *Repository) getByID(ctx context.Context, id int64, lock bool) (*domain.Dentist, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(dentistColumns...).
		From("dentists d").
		Where(squirrel.Eq{"d.id": id})
	if lock {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	d, err := scanDentist(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id=%d", ErrDentistNotFound, id)
	}
	if err != nil {
		return nil, execError("GetByID - scan dentist", err)
	}

	return d, nil
}

// List возвращает стоматологов, удовлетворяющих предикату
func (r *Repository) List(ctx context.Context, pred filter.Predicate[*domain.Dentist]) ([]*domain.Dentist, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildList(pred).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, execError("List - execute query", err)
	}
	defer rows.Close()

	dentists := make([]*domain.Dentist, 0)
	for rows.Next() {
		d, err := scanDentist(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		dentists = append(dentists, d)
	}
	if err := rows.Err(); err != nil {
		return nil, execError("List - rows error", err)
	}

	return dentists, nil
}

// Deactivate снимает флаг активности
func (r *Repository) Deactivate(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("dentists").
		Set("active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Deactivate - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return execError("Deactivate - execute update", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return execError("Deactivate - get rows affected", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: id=%d", ErrDentistNotFound, id)
	}

	return nil
}

// ListSchedule рабочие окна стоматолога в порядке дней недели
func (r *Repository) ListSchedule(ctx context.Context, dentistID int64) ([]domain.ScheduleEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildListSchedule(dentistID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListSchedule - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, execError("ListSchedule - execute query", err)
	}
	defer rows.Close()

	entries := make([]domain.ScheduleEntry, 0)
	for rows.Next() {
		var e domain.ScheduleEntry
		var createdAt sql.NullTime
		if err := rows.Scan(&e.ID, &e.DentistID, &e.Weekday, &e.StartTime, &e.EndTime, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: ListSchedule - scan row: %v", ErrScanRow, err)
		}
		e.CreatedAt = createdAt.Time
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, execError("ListSchedule - rows error", err)
	}

	return entries, nil
}

// AddScheduleEntry сохраняет рабочее окно
// Уникальный индекс (dentist_id, weekday) отклоняет параллельно добавленный дубликат
func (r *Repository) AddScheduleEntry(ctx context.Context, entry domain.ScheduleEntry) (domain.ScheduleEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("dentist_schedules").
		Columns("dentist_id", "weekday", "start_time", "end_time").
		Values(entry.DentistID, entry.Weekday, entry.StartTime, entry.EndTime).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return domain.ScheduleEntry{}, fmt.Errorf("%w: AddScheduleEntry - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &createdAt); err != nil {
		return domain.ScheduleEntry{}, execError("AddScheduleEntry - execute insert", err)
	}
	entry.CreatedAt = createdAt.Time

	return entry, nil
}

// RemoveScheduleEntry удаляет рабочее окно стоматолога
func (r *Repository) RemoveScheduleEntry(ctx context.Context, dentistID, entryID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("dentist_schedules").
		Where(squirrel.Eq{"id": entryID, "dentist_id": dentistID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: RemoveScheduleEntry - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return execError("RemoveScheduleEntry - execute delete", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return execError("RemoveScheduleEntry - get rows affected", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: dentist=%d entry=%d", ErrScheduleEntryNotFound, dentistID, entryID)
	}

	return nil
}

// ClearSchedule удаляет все рабочие окна стоматолога, возвращает количество удалённых
func (r *Repository) ClearSchedule(ctx context.Context, dentistID int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("dentist_schedules").
		Where(squirrel.Eq{"dentist_id": dentistID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: ClearSchedule - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, execError("ClearSchedule - execute delete", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, execError("ClearSchedule - get rows affected", err)
	}

	return removed, nil
}

func buildList(pred filter.Predicate[*domain.Dentist]) squirrel.SelectBuilder {
	return psqlbuilder.Select(dentistColumns...).
		From("dentists d").
		Where(pred).
		OrderBy("d.full_name ASC", "d.id ASC")
}

func buildListSchedule(dentistID int64) squirrel.SelectBuilder {
	return psqlbuilder.Select(scheduleColumns...).
		From("dentist_schedules").
		Where(squirrel.Eq{"dentist_id": dentistID}).
		OrderBy("array_position(ARRAY['monday','tuesday','wednesday','thursday','friday','saturday','sunday'], weekday::text)")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDentist(row rowScanner) (*domain.Dentist, error) {
	var d domain.Dentist
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&d.ID,
		&d.AccountID,
		&d.FullName,
		&d.LicenseNumber,
		&d.Specialization,
		&d.Active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	d.CreatedAt = createdAt.Time
	d.UpdatedAt = updatedAt.Time

	return &d, nil
}
