package treatment

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-DentalService/internal/domain"
	"github.com/m04kA/SMC-DentalService/pkg/dbmetrics"
)

var (
	// ErrTreatmentNotFound возвращается, когда процедура не найдена
	ErrTreatmentNotFound = fmt.Errorf("%w: treatment.repository: treatment not found", domain.ErrNotFound)

	// ErrUnavailable возвращается при временной недоступности БД
	ErrUnavailable = fmt.Errorf("%w: treatment.repository: database unavailable", domain.ErrTransientStore)

	ErrBuildQuery = errors.New("treatment.repository: failed to build query")
	ErrExecQuery  = errors.New("treatment.repository: failed to execute query")
	ErrScanRow    = errors.New("treatment.repository: failed to scan row")
)

func execError(op string, err error) error {
	if dbmetrics.IsTransient(err) {
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrExecQuery, op, err)
}
