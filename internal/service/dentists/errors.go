package dentists

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-DentalService/internal/domain"
)

var (
	// ErrDentistNotFound возвращается, когда стоматолог не найден
	ErrDentistNotFound = fmt.Errorf("%w: dentists: dentist not found", domain.ErrNotFound)

	// ErrScheduleEntryNotFound возвращается, когда рабочее окно не найдено
	ErrScheduleEntryNotFound = fmt.Errorf("%w: dentists: schedule entry not found", domain.ErrNotFound)

	// ErrDentistInactive возвращается при изменении расписания деактивированного стоматолога
	ErrDentistInactive = fmt.Errorf("%w: dentists: dentist is inactive", domain.ErrValidation)

	// ErrWeekdayTaken возвращается, когда параллельная запись заняла тот же день недели
	ErrWeekdayTaken = fmt.Errorf("%w: dentists: weekday already has a schedule entry", domain.ErrConflict)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: dentists: invalid input data", domain.ErrValidation)

	// ErrConcurrentUpdate возвращается при конфликте параллельных изменений
	ErrConcurrentUpdate = fmt.Errorf("%w: dentists: concurrent update", domain.ErrConflict)

	// ErrStoreUnavailable возвращается при временной недоступности хранилища
	ErrStoreUnavailable = fmt.Errorf("%w: dentists: store unavailable", domain.ErrTransientStore)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("dentists: internal error")
)

func repoError(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrTransientStore):
		return fmt.Errorf("%w: %s - repository error: %v", ErrStoreUnavailable, op, err)
	case errors.Is(err, domain.ErrConflict):
		return fmt.Errorf("%w: %s - repository error: %v", ErrConcurrentUpdate, op, err)
	default:
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}
