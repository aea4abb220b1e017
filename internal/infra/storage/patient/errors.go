package patient

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-DentalService/internal/domain"
	"github.com/m04kA/SMC-DentalService/pkg/dbmetrics"
)

var (
	// ErrPatientNotFound возвращается, когда пациент не найден
	ErrPatientNotFound = fmt.Errorf("%w: patient.repository: patient not found", domain.ErrNotFound)

	// ErrUnavailable возвращается при временной недоступности БД
	ErrUnavailable = fmt.Errorf("%w: patient.repository: database unavailable", domain.ErrTransientStore)

	ErrBuildQuery = errors.New("patient.repository: failed to build query")
	ErrExecQuery  = errors.New("patient.repository: failed to execute query")
)

func execError(op string, err error) error {
	if dbmetrics.IsTransient(err) {
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrExecQuery, op, err)
}
