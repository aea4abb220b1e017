package treatments

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-DentalService/internal/domain"
)

var (
	// ErrTreatmentNotFound возвращается, когда процедура не найдена
	ErrTreatmentNotFound = fmt.Errorf("%w: treatments: treatment not found", domain.ErrNotFound)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: treatments: invalid input data", domain.ErrValidation)

	// ErrStoreUnavailable возвращается при временной недоступности хранилища
	ErrStoreUnavailable = fmt.Errorf("%w: treatments: store unavailable", domain.ErrTransientStore)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("treatments: internal error")
)
