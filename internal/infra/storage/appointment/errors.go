package appointment

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-DentalService/internal/domain"
	"github.com/m04kA/SMC-DentalService/pkg/dbmetrics"
)

var (
	// ErrAppointmentNotFound возвращается, когда запись на приём не найдена
	ErrAppointmentNotFound = fmt.Errorf("%w: appointment.repository: appointment not found", domain.ErrNotFound)

	// ErrSlotTaken возвращается, когда у стоматолога уже есть ожидающий приём на это время
	ErrSlotTaken = fmt.Errorf("%w: appointment.repository: slot already taken", domain.ErrConflict)

	// ErrStaleState возвращается, когда запись изменилась параллельно (статус уже не тот)
	ErrStaleState = fmt.Errorf("%w: appointment.repository: appointment was modified concurrently", domain.ErrConflict)

	// ErrUnavailable возвращается при временной недоступности БД
	ErrUnavailable = fmt.Errorf("%w: appointment.repository: database unavailable", domain.ErrTransientStore)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)

// execError классифицирует ошибку драйвера
func execError(op string, err error) error {
	switch {
	case dbmetrics.IsUniqueViolation(err):
		return fmt.Errorf("%w: %s: %v", ErrSlotTaken, op, err)
	case dbmetrics.IsSerializationFailure(err):
		return fmt.Errorf("%w: %s: %v", ErrStaleState, op, err)
	case dbmetrics.IsTransient(err):
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
	default:
		return fmt.Errorf("%w: %s: %v", ErrExecQuery, op, err)
	}
}
