package get_available_slots

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-DentalService/internal/domain"
)

var (
	// ErrDentistNotFound возвращается, когда стоматолог не найден
	ErrDentistNotFound = fmt.Errorf("%w: get_available_slots: dentist not found", domain.ErrNotFound)

	// ErrDentistInactive возвращается, когда стоматолог деактивирован
	ErrDentistInactive = fmt.Errorf("%w: get_available_slots: dentist is inactive", domain.ErrValidation)

	// ErrTreatmentNotFound возвращается, когда процедура не найдена
	ErrTreatmentNotFound = fmt.Errorf("%w: get_available_slots: treatment not found", domain.ErrNotFound)

	// ErrTreatmentInactive возвращается, когда процедура недоступна для записи
	ErrTreatmentInactive = fmt.Errorf("%w: get_available_slots: treatment is inactive", domain.ErrValidation)

	// ErrInvalidDate возвращается для даты в прошлом
	ErrInvalidDate = fmt.Errorf("%w: get_available_slots: date is in the past", domain.ErrValidation)

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение AdvanceBookingDays
	ErrDateTooFarInFuture = fmt.Errorf("%w: get_available_slots: date is too far in the future", domain.ErrValidation)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: get_available_slots: invalid input data", domain.ErrValidation)

	// ErrStoreUnavailable возвращается при временной недоступности хранилища
	ErrStoreUnavailable = fmt.Errorf("%w: get_available_slots: store unavailable", domain.ErrTransientStore)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)

func storeError(what string, err error) error {
	if errors.Is(err, domain.ErrTransientStore) {
		return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, what, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, what, err)
}
