package dentist

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-DentalService/internal/domain"
	"github.com/m04kA/SMC-DentalService/pkg/dbmetrics"
)

var (
	// ErrDentistNotFound возвращается, когда стоматолог не найден
	ErrDentistNotFound = fmt.Errorf("%w: dentist.repository: dentist not found", domain.ErrNotFound)

	// ErrScheduleEntryNotFound возвращается, когда запись расписания не найдена
	ErrScheduleEntryNotFound = fmt.Errorf("%w: dentist.repository: schedule entry not found", domain.ErrNotFound)

	// ErrWeekdayTaken уникальный индекс (dentist_id, weekday) отклонил параллельную вставку
	ErrWeekdayTaken = fmt.Errorf("%w: dentist.repository: weekday already has a schedule entry", domain.ErrConflict)

	// ErrConcurrentUpdate конфликт сериализуемой транзакции
	ErrConcurrentUpdate = fmt.Errorf("%w: dentist.repository: concurrent update", domain.ErrConflict)

	// ErrUnavailable возвращается при временной недоступности БД
	ErrUnavailable = fmt.Errorf("%w: dentist.repository: database unavailable", domain.ErrTransientStore)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("dentist.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("dentist.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("dentist.repository: failed to scan row")
)

func execError(op string, err error) error {
	switch {
	case dbmetrics.IsUniqueViolation(err):
		return fmt.Errorf("%w: %s: %v", ErrWeekdayTaken, op, err)
	case dbmetrics.IsSerializationFailure(err):
		return fmt.Errorf("%w: %s: %v", ErrConcurrentUpdate, op, err)
	case dbmetrics.IsTransient(err):
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
	default:
		return fmt.Errorf("%w: %s: %v", ErrExecQuery, op, err)
	}
}
