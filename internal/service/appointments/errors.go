package appointments

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-DentalService/internal/domain"
)

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = fmt.Errorf("%w: appointments: appointment not found", domain.ErrNotFound)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: appointments: invalid input data", domain.ErrValidation)

	// ErrInvalidDateRange возвращается, когда начало периода позже его конца
	ErrInvalidDateRange = fmt.Errorf("%w: appointments: start date is after end date", domain.ErrValidation)

	// ErrInvalidPage возвращается при некорректных параметрах пагинации
	ErrInvalidPage = fmt.Errorf("%w: appointments: invalid page", domain.ErrValidation)

	// ErrCannotAttend возвращается, когда приём уже завершён или отменён
	ErrCannotAttend = fmt.Errorf("%w: appointments: appointment cannot be attended", domain.ErrConflict)

	// ErrCannotCancel возвращается, когда приём уже завершён или отменён
	ErrCannotCancel = fmt.Errorf("%w: appointments: appointment cannot be cancelled", domain.ErrConflict)

	// ErrConcurrentUpdate возвращается, когда запись изменили параллельно
	ErrConcurrentUpdate = fmt.Errorf("%w: appointments: appointment was modified concurrently", domain.ErrConflict)

	// ErrStoreUnavailable возвращается при временной недоступности хранилища
	ErrStoreUnavailable = fmt.Errorf("%w: appointments: store unavailable", domain.ErrTransientStore)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("appointments: internal error")
)

// repoError переводит ошибку репозитория в ошибку сервиса с сохранением вида
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
