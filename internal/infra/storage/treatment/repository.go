package treatment

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

var columns = []string{
	"t.id",
	"t.treatment_type_id",
	"t.name",
	"t.cost",
	"t.duration_minutes",
	"t.active",
	"t.created_at",
	"t.updated_at",
}

// Repository репозиторий процедур
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает процедуру по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Treatment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("treatments t").
		Where(squirrel.Eq{"t.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	t, err := scanTreatment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id=%d", ErrTreatmentNotFound, id)
	}
	if err != nil {
		return nil, execError("GetByID - scan treatment", err)
	}

	return t, nil
}

// List возвращает процедуры, удовлетворяющие предикату
func (r *Repository) List(ctx context.Context, pred filter.Predicate[*domain.Treatment]) ([]*domain.Treatment, error) {
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

	treatments := make([]*domain.Treatment, 0)
	for rows.Next() {
		t, err := scanTreatment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		treatments = append(treatments, t)
	}
	if err := rows.Err(); err != nil {
		return nil, execError("List - rows error", err)
	}

	return treatments, nil
}

func buildList(pred filter.Predicate[*domain.Treatment]) squirrel.SelectBuilder {
	return psqlbuilder.Select(columns...).
		From("treatments t").
		Where(pred).
		OrderBy("t.name ASC", "t.id ASC")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTreatment(row rowScanner) (*domain.Treatment, error) {
	var t domain.Treatment
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&t.ID,
		&t.TreatmentTypeID,
		&t.Name,
		&t.Cost,
		&t.DurationMinutes,
		&t.Active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time

	return &t, nil
}
