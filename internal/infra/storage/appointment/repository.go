package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-DentalService/internal/domain"
	"github.com/m04kA/SMC-DentalService/internal/filter"
	"github.com/m04kA/SMC-DentalService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DentalService/pkg/psqlbuilder"
)

const table = "appointments a"

var columns = []string{
	"a.id",
	"a.dentist_id",
	"a.treatment_id",
	"a.patient_id",
	"a.appointment_date",
	"a.start_time",
	"a.amount",
	"a.status",
	"a.patient_first_name",
	"a.patient_middle_name",
	"a.patient_last_name",
	"a.patient_second_last_name",
	"a.patient_document_type",
	"a.patient_document_number",
	"a.patient_sex",
	"a.patient_birth_date",
	"a.cancellation_reason",
	"a.cancelled_at",
	"a.attended_at",
	"a.created_at",
	"a.updated_at",
}

// Repository репозиторий записей на приём
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает запись на приём
// Частичный уникальный индекс (dentist_id, appointment_date, start_time) WHERE status = 'pending'
// отклоняет вторую одновременную запись на тот же слот
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildInsert(a).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, execError("Create - execute insert", err)
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return a, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate получает запись по ID и блокирует строку до конца транзакции
// Вне транзакции работает как GetByID
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Appointment, error) {
	return r.getByID(ctx, id, dbmetrics.IsInTransaction(ctx))
}

func (r *Repository) getByID(ctx context.Context, id int64, lock bool) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"a.id": id})
	if lock {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id=%d", ErrAppointmentNotFound, id)
	}
	if err != nil {
		return nil, execError("GetByID - scan appointment", err)
	}

	return a, nil
}

// List возвращает записи, удовлетворяющие предикату, от новых к старым
func (r *Repository) List(ctx context.Context, pred filter.Predicate[*domain.Appointment]) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildList(pred, nil).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, execError("List - execute query", err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// ListPage возвращает страницу записей и общее количество подходящих записей
func (r *Repository) ListPage(ctx context.Context, pred filter.Predicate[*domain.Appointment], page domain.Page) ([]*domain.Appointment, int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	countQuery, countArgs, err := buildCount(pred).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: ListPage - build count query: %v", ErrBuildQuery, err)
	}

	var total int
	if err := executor.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, execError("ListPage - execute count", err)
	}

	if total == 0 || page.Offset >= total {
		return []*domain.Appointment{}, total, nil
	}

	query, args, err := buildList(pred, &page).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: ListPage - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, execError("ListPage - execute query", err)
	}
	defer rows.Close()

	items, err := scanAppointments(rows)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// ListPendingByDentistAndDate ожидающие приёмы стоматолога на дату, по времени начала
// В транзакции строки блокируются (FOR UPDATE) до её завершения
func (r *Repository) ListPendingByDentistAndDate(ctx context.Context, dentistID int64, date time.Time) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildPendingByDentist(dentistID, date, dbmetrics.IsInTransaction(ctx)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListPendingByDentistAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, execError("ListPendingByDentistAndDate - execute query", err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// ListPendingByDate ожидающие приёмы всех стоматологов на дату (для напоминаний)
func (r *Repository) ListPendingByDate(ctx context.Context, date time.Time) ([]*domain.Appointment, error) {
	status := domain.StatusPending
	day := date
	return r.List(ctx, filter.Appointments(domain.AppointmentFilter{
		Status:    &status,
		StartDate: &day,
		EndDate:   &day,
	}))
}

// Update сохраняет изменения статуса и времени записи
// Обновление выполняется только если текущий статус равен expected,
// иначе возвращается ErrStaleState (запись изменили параллельно)
func (r *Repository) Update(ctx context.Context, a *domain.Appointment, expected domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildUpdate(a, expected).ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: id=%d expected status %s", ErrStaleState, a.ID, expected)
	}
	if err != nil {
		return execError("Update - execute update", err)
	}

	a.UpdatedAt = updatedAt.Time
	return nil
}

func buildInsert(a *domain.Appointment) squirrel.InsertBuilder {
	return psqlbuilder.Insert("appointments").
		Columns(
			"dentist_id",
			"treatment_id",
			"patient_id",
			"appointment_date",
			"start_time",
			"amount",
			"status",
			"patient_first_name",
			"patient_middle_name",
			"patient_last_name",
			"patient_second_last_name",
			"patient_document_type",
			"patient_document_number",
			"patient_sex",
			"patient_birth_date",
		).
		Values(
			a.DentistID,
			a.TreatmentID,
			a.PatientID,
			a.Date,
			a.StartTime,
			a.Amount,
			a.Status,
			a.Patient.FirstName,
			a.Patient.MiddleName,
			a.Patient.LastName,
			a.Patient.SecondLastName,
			a.Patient.DocumentType,
			a.Patient.DocumentNumber,
			a.Patient.Sex,
			a.Patient.BirthDate,
		).
		Suffix("RETURNING id, created_at, updated_at")
}

func buildList(pred filter.Predicate[*domain.Appointment], page *domain.Page) squirrel.SelectBuilder {
	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(pred).
		OrderBy("a.appointment_date DESC", "a.start_time DESC", "a.id DESC")

	if page != nil {
		builder = builder.Limit(uint64(page.Limit)).Offset(uint64(page.Offset))
	}

	return builder
}

func buildCount(pred filter.Predicate[*domain.Appointment]) squirrel.SelectBuilder {
	return psqlbuilder.Select("COUNT(*)").
		From(table).
		Where(pred)
}

func buildPendingByDentist(dentistID int64, date time.Time, lock bool) squirrel.SelectBuilder {
	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{
			"a.dentist_id":       dentistID,
			"a.appointment_date": date.Format(domain.DateFormat),
			"a.status":           domain.StatusPending,
		}).
		OrderBy("a.start_time ASC")

	if lock {
		builder = builder.Suffix("FOR UPDATE")
	}

	return builder
}

func buildUpdate(a *domain.Appointment, expected domain.AppointmentStatus) squirrel.UpdateBuilder {
	return psqlbuilder.Update("appointments").
		Set("status", a.Status).
		Set("appointment_date", a.Date).
		Set("start_time", a.StartTime).
		Set("cancellation_reason", a.CancellationReason).
		Set("cancelled_at", a.CancelledAt).
		Set("attended_at", a.AttendedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": a.ID, "status": expected}).
		Suffix("RETURNING updated_at")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var a domain.Appointment
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&a.ID,
		&a.DentistID,
		&a.TreatmentID,
		&a.PatientID,
		&a.Date,
		&a.StartTime,
		&a.Amount,
		&a.Status,
		&a.Patient.FirstName,
		&a.Patient.MiddleName,
		&a.Patient.LastName,
		&a.Patient.SecondLastName,
		&a.Patient.DocumentType,
		&a.Patient.DocumentNumber,
		&a.Patient.Sex,
		&a.Patient.BirthDate,
		&a.CancellationReason,
		&a.CancelledAt,
		&a.AttendedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

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
		return nil, execError("scanAppointments - rows error", err)
	}

	return appointments, nil
}
