package patient

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-DentalService/internal/domain"
	"github.com/m04kA/SMC-DentalService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DentalService/pkg/psqlbuilder"
)

// Repository репозиторий профилей пациентов (только чтение)
// Профили ведёт сервис аккаунтов, здесь они нужны для снимка в записи на приём
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает пациента по ID вместе с названием типа документа
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Patient, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildGetByID(id).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var p domain.Patient
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&p.AccountID,
		&p.FirstName,
		&p.MiddleName,
		&p.LastName,
		&p.SecondLastName,
		&p.DocumentTypeID,
		&p.DocumentType,
		&p.DocumentNumber,
		&p.Sex,
		&p.BirthDate,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id=%d", ErrPatientNotFound, id)
	}
	if err != nil {
		return nil, execError("GetByID - scan patient", err)
	}

	return &p, nil
}

func buildGetByID(id int64) squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"p.id",
		"p.account_id",
		"p.first_name",
		"p.middle_name",
		"p.last_name",
		"p.second_last_name",
		"p.document_type_id",
		"dt.name",
		"p.document_number",
		"p.sex",
		"p.birth_date",
	).
		From("patients p").
		Join("document_types dt ON dt.id = p.document_type_id").
		Where(squirrel.Eq{"p.id": id})
}
